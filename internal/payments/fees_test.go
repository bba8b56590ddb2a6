package payments

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFees(t *testing.T) {
	got, err := CalculateFees(100)
	require.NoError(t, err)

	assert.Equal(t, "100.00", got.OrderAmount)
	assert.Equal(t, "10.00", got.SellerFee)
	assert.Equal(t, "10%", got.SellerFeePercentage)
	assert.Equal(t, "90.00", got.SellerReceives)
	assert.Equal(t, "3.00", got.BuyerFee)
	assert.Equal(t, "3%", got.BuyerFeePercentage)
	assert.Equal(t, "103.00", got.BuyerPays)
	assert.Equal(t, "13.00", got.PlatformFees)
}

func TestCalculateFeesRounding(t *testing.T) {
	got, err := CalculateFees(49.99)
	require.NoError(t, err)

	assert.Equal(t, "5.00", got.SellerFee)
	assert.Equal(t, "44.99", got.SellerReceives)
	assert.Equal(t, "1.50", got.BuyerFee)
	assert.Equal(t, "51.49", got.BuyerPays)
}

func TestCalculateFeesRejectsNonPositive(t *testing.T) {
	_, err := CalculateFees(0)
	assert.Error(t, err)

	_, err = CalculateFees(-5)
	assert.Error(t, err)
}

func TestNewTransactionIDFormat(t *testing.T) {
	before := time.Now().UnixMilli()
	id := NewTransactionID()
	after := time.Now().UnixMilli()

	require.True(t, strings.HasPrefix(id, "TXN"))

	body := id[len("TXN"):]
	require.Len(t, body, 13+9)

	millis, err := strconv.ParseInt(body[:13], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, millis, before)
	assert.LessOrEqual(t, millis, after)

	for _, r := range body[13:] {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z'), "unexpected char %q", r)
	}
}
