package gigs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncLegacyFields(t *testing.T) {
	g := &Gig{
		Price:        5,
		DeliveryTime: 1,
		Features:     []string{"old"},
		Packages: Packages{
			Basic: PackageTier{Price: 50, DeliveryTime: 3, Features: []string{"logo", "source file"}},
		},
	}
	g.SyncLegacyFields()

	assert.Equal(t, 50.0, g.Price)
	assert.Equal(t, 3, g.DeliveryTime)
	assert.Equal(t, []string{"logo", "source file"}, g.Features)
}

func TestSyncLegacyFieldsNoBasicPrice(t *testing.T) {
	g := &Gig{Price: 25, DeliveryTime: 2, Features: []string{"kept"}}
	g.SyncLegacyFields()

	assert.Equal(t, 25.0, g.Price)
	assert.Equal(t, 2, g.DeliveryTime)
	assert.Equal(t, []string{"kept"}, g.Features)
}

func TestSyncLegacyFieldsKeepsFeaturesWhenBasicHasNone(t *testing.T) {
	g := &Gig{
		Features: []string{"existing"},
		Packages: Packages{Basic: PackageTier{Price: 10, DeliveryTime: 1}},
	}
	g.SyncLegacyFields()

	assert.Equal(t, 10.0, g.Price)
	assert.Equal(t, []string{"existing"}, g.Features)
}

func TestFormatConversionRate(t *testing.T) {
	tests := []struct {
		name   string
		orders int64
		clicks int64
		want   string
	}{
		{"no clicks", 5, 0, "0.00"},
		{"negative clicks", 5, -1, "0.00"},
		{"whole percent", 1, 4, "25.00"},
		{"fractional", 1, 3, "33.33"},
		{"over hundred", 5, 2, "250.00"},
		{"zero orders", 0, 100, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatConversionRate(tt.orders, tt.clicks))
		})
	}
}

func TestSourceColumn(t *testing.T) {
	assert.Equal(t, "clicks_search", sourceColumn("search"))
	assert.Equal(t, "clicks_profile", sourceColumn("profile"))
	assert.Equal(t, "clicks_direct", sourceColumn("direct"))
	assert.Equal(t, "clicks_other", sourceColumn("social"))
	assert.Equal(t, "clicks_other", sourceColumn(""))
}
