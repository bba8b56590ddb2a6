package gigs

import (
	"encoding/json"
	"strconv"
	"time"
)

// PackageTier is one of the three priced tiers within a gig.
type PackageTier struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Price        float64  `json:"price,omitempty"`
	DeliveryTime int      `json:"delivery_time,omitempty"`
	Revisions    int      `json:"revisions,omitempty"`
	Features     []string `json:"features,omitempty"`
}

// Packages holds the three-tier pricing. Only basic is mandatory.
type Packages struct {
	Basic    PackageTier `json:"basic"`
	Standard PackageTier `json:"standard"`
	Premium  PackageTier `json:"premium"`
}

type AddOn struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	DeliveryTime int     `json:"delivery_time,omitempty"`
	Type         string  `json:"type,omitempty"` // extra-fast, additional-revision, extra-feature, custom
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Video struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type PDF struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size,omitempty"`
}

type Metadata struct {
	Language           string `json:"language,omitempty"`
	TargetAudience     string `json:"target_audience,omitempty"`
	SkillLevel         string `json:"skill_level,omitempty"`
	IndustryExperience string `json:"industry_experience,omitempty"`
}

// Requirement is a question the buyer answers before work starts.
type Requirement struct {
	Question string   `json:"question"`
	Type     string   `json:"type,omitempty"` // text, file, multiple-choice
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

type ClicksBySource struct {
	Search  int64 `json:"search"`
	Profile int64 `json:"profile"`
	Direct  int64 `json:"direct"`
	Other   int64 `json:"other"`
}

type DailyView struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Analytics counters are server-owned; clients can never write them.
type Analytics struct {
	Impressions    int64          `json:"impressions"`
	Clicks         int64          `json:"clicks"`
	Orders         int64          `json:"orders"`
	Saves          int64          `json:"saves"`
	ConversionRate string         `json:"conversion_rate"`
	Views          []DailyView    `json:"views"`
	ClicksBySource ClicksBySource `json:"clicks_by_source"`
}

// SellerInfo is the seller summary attached to browse and detail results.
type SellerInfo struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	ProfilePicture string  `json:"profile_picture,omitempty"`
	Email          string  `json:"email,omitempty"`
	Rating         float64 `json:"rating"`
	Level          int     `json:"level"`
	ResponseRate   float64 `json:"response_rate,omitempty"`
}

type Gig struct {
	ID             string        `json:"id"`
	SellerID       string        `json:"seller_id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       string        `json:"category"`
	SubCategory    string        `json:"sub_category,omitempty"`
	Packages       Packages      `json:"packages"`
	AddOns         []AddOn       `json:"add_ons"`
	FAQs           []FAQ         `json:"faqs"`
	Images         []string      `json:"images"`
	Videos         []Video       `json:"videos"`
	PDFs           []PDF         `json:"pdfs"`
	Tags           []string      `json:"tags"`
	SearchKeywords []string      `json:"search_keywords"`
	Metadata       Metadata      `json:"metadata"`
	Requirements   []Requirement `json:"requirements"`

	// Legacy flat fields kept in sync with the basic package.
	Price        float64  `json:"price"`
	DeliveryTime int      `json:"delivery_time"`
	Features     []string `json:"features"`

	IsActive  bool      `json:"is_active"`
	Status    string    `json:"status"` // draft, active, paused, denied
	Analytics Analytics `json:"analytics"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Seller *SellerInfo `json:"seller,omitempty"`
}

// SyncLegacyFields copies the basic package onto the flat price, delivery
// time and features fields kept for older clients. The flat fields are a
// denormalization of packages.basic, nothing else reads them back.
func (g *Gig) SyncLegacyFields() {
	if g.Packages.Basic.Price <= 0 {
		return
	}
	g.Price = g.Packages.Basic.Price
	g.DeliveryTime = g.Packages.Basic.DeliveryTime
	if len(g.Packages.Basic.Features) > 0 {
		g.Features = g.Packages.Basic.Features
	}
}

// FormatConversionRate renders orders/clicks as a percentage string with
// two decimals, the form the counter is stored in.
func FormatConversionRate(orders, clicks int64) string {
	if clicks <= 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(orders)/float64(clicks)*100, 'f', 2, 64)
}

// sourceColumn maps a click source to its counter column. Unknown
// sources land in the catch-all bucket.
func sourceColumn(source string) string {
	switch source {
	case "search":
		return "clicks_search"
	case "profile":
		return "clicks_profile"
	case "direct":
		return "clicks_direct"
	default:
		return "clicks_other"
	}
}

func jsonValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// gigColumns is the canonical select list shared by every gig query.
const gigColumns = `id, seller_id, title, description, category, sub_category,
	packages, add_ons, faqs, images, videos, pdfs,
	tags, search_keywords, metadata, requirements,
	price, delivery_time, features, is_active, status,
	impressions, clicks, orders_count, saves, conversion_rate,
	clicks_search, clicks_profile, clicks_direct, clicks_other,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanGig reads one row produced with gigColumns.
func scanGig(row rowScanner) (*Gig, error) {
	g := new(Gig)
	err := row.Scan(
		&g.ID, &g.SellerID, &g.Title, &g.Description, &g.Category, &g.SubCategory,
		&g.Packages, &g.AddOns, &g.FAQs, &g.Images, &g.Videos, &g.PDFs,
		&g.Tags, &g.SearchKeywords, &g.Metadata, &g.Requirements,
		&g.Price, &g.DeliveryTime, &g.Features, &g.IsActive, &g.Status,
		&g.Analytics.Impressions, &g.Analytics.Clicks, &g.Analytics.Orders,
		&g.Analytics.Saves, &g.Analytics.ConversionRate,
		&g.Analytics.ClicksBySource.Search, &g.Analytics.ClicksBySource.Profile,
		&g.Analytics.ClicksBySource.Direct, &g.Analytics.ClicksBySource.Other,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if g.Analytics.Views == nil {
		g.Analytics.Views = []DailyView{}
	}
	return g, nil
}
