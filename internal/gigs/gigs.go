package gigs

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/gigmarket/internal/db"
)

const sellerJoinColumns = `, u.username, COALESCE(u.profile->>'profile_picture', ''),
	COALESCE((u.seller_profile->>'rating')::float8, 0),
	COALESCE((u.seller_profile->>'level')::int, 1),
	COALESCE((u.seller_profile->>'response_rate')::float8, 0)`

func scanGigWithSeller(rows pgx.Rows) (*Gig, error) {
	g := new(Gig)
	s := new(SellerInfo)
	err := rows.Scan(
		&g.ID, &g.SellerID, &g.Title, &g.Description, &g.Category, &g.SubCategory,
		&g.Packages, &g.AddOns, &g.FAQs, &g.Images, &g.Videos, &g.PDFs,
		&g.Tags, &g.SearchKeywords, &g.Metadata, &g.Requirements,
		&g.Price, &g.DeliveryTime, &g.Features, &g.IsActive, &g.Status,
		&g.Analytics.Impressions, &g.Analytics.Clicks, &g.Analytics.Orders,
		&g.Analytics.Saves, &g.Analytics.ConversionRate,
		&g.Analytics.ClicksBySource.Search, &g.Analytics.ClicksBySource.Profile,
		&g.Analytics.ClicksBySource.Direct, &g.Analytics.ClicksBySource.Other,
		&g.CreatedAt, &g.UpdatedAt,
		&s.Username, &s.ProfilePicture, &s.Rating, &s.Level, &s.ResponseRate,
	)
	if err != nil {
		return nil, err
	}
	s.ID = g.SellerID
	g.Seller = s
	if g.Analytics.Views == nil {
		g.Analytics.Views = []DailyView{}
	}
	return g, nil
}

func prefixed(cols string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = "g." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// List returns active gigs for browsing, with category/price/delivery/search
// filters. Every returned gig gets an impression bump off the request path.
func List(c echo.Context) error {
	where := []string{"g.is_active", "g.status = 'active'"}
	var args []any

	if category := c.QueryParam("category"); category != "" {
		args = append(args, category)
		where = append(where, fmt.Sprintf("g.category = $%d", len(args)))
	}
	if minPrice := c.QueryParam("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			args = append(args, v)
			where = append(where, fmt.Sprintf("g.price >= $%d", len(args)))
		}
	}
	if maxPrice := c.QueryParam("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			args = append(args, v)
			where = append(where, fmt.Sprintf("g.price <= $%d", len(args)))
		}
	}
	if deliveryTime := c.QueryParam("delivery_time"); deliveryTime != "" {
		if v, err := strconv.Atoi(deliveryTime); err == nil {
			args = append(args, v)
			where = append(where, fmt.Sprintf("g.delivery_time <= $%d", len(args)))
		}
	}
	if sellerLevel := c.QueryParam("seller_level"); sellerLevel != "" {
		if v, err := strconv.Atoi(sellerLevel); err == nil {
			args = append(args, v)
			where = append(where, fmt.Sprintf("COALESCE((u.seller_profile->>'level')::int, 1) = $%d", len(args)))
		}
	}
	if search := c.QueryParam("search"); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			`(g.title ILIKE $%d OR g.description ILIKE $%d
			  OR EXISTS (SELECT 1 FROM unnest(g.tags) tag WHERE tag ILIKE $%d)
			  OR EXISTS (SELECT 1 FROM unnest(g.search_keywords) kw WHERE kw ILIKE $%d))`,
			n, n, n, n))
	}

	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	args = append(args, limit)

	query := fmt.Sprintf(
		`SELECT %s%s FROM gigs g JOIN users u ON u.id = g.seller_id
		 WHERE %s ORDER BY g.created_at DESC LIMIT $%d`,
		prefixed(gigColumns), sellerJoinColumns, strings.Join(where, " AND "), len(args))

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		c.Logger().Errorf("list gigs: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get gigs"})
	}
	defer rows.Close()

	gigsList := []*Gig{}
	var ids []string
	for rows.Next() {
		g, err := scanGigWithSeller(rows)
		if err != nil {
			c.Logger().Errorf("scan gig: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get gigs"})
		}
		gigsList = append(gigsList, g)
		ids = append(ids, g.ID)
	}

	// Impression bump for every returned gig, off the request path.
	// One statement, one atomic increment per matched row.
	if len(ids) > 0 {
		logger := c.Logger()
		go func(gigIDs []string) {
			_, err := db.Conn.Exec(context.Background(),
				`UPDATE gigs SET impressions = impressions + 1 WHERE id = ANY($1)`, gigIDs)
			if err != nil {
				logger.Errorf("impression update: %v", err)
			}
		}(ids)
	}

	return c.JSON(http.StatusOK, echo.Map{"gigs": gigsList})
}

// Get returns one gig with its seller, counting the click (bucketed by
// source) and the daily view before responding.
func Get(c echo.Context) error {
	gigID := c.Param("id")
	source := c.QueryParam("source")
	if source == "" {
		source = "direct"
	}

	ctx := context.Background()

	// sourceColumn whitelists the column name, safe to interpolate.
	res, err := db.Conn.Exec(ctx, fmt.Sprintf(
		`UPDATE gigs SET clicks = clicks + 1, %s = %s + 1 WHERE id = $1`,
		sourceColumn(source), sourceColumn(source)), gigID)
	if err != nil {
		c.Logger().Errorf("click update: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get gig details"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Gig not found"})
	}

	if _, err := db.Conn.Exec(ctx,
		`INSERT INTO gig_views (gig_id, view_date, count) VALUES ($1, CURRENT_DATE, 1)
		 ON CONFLICT (gig_id, view_date) DO UPDATE SET count = gig_views.count + 1`, gigID); err != nil {
		c.Logger().Errorf("daily view update: %v", err)
	}

	row := db.Conn.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s%s, u.email FROM gigs g JOIN users u ON u.id = g.seller_id WHERE g.id = $1`,
		prefixed(gigColumns), sellerJoinColumns), gigID)

	g := new(Gig)
	s := new(SellerInfo)
	err = row.Scan(
		&g.ID, &g.SellerID, &g.Title, &g.Description, &g.Category, &g.SubCategory,
		&g.Packages, &g.AddOns, &g.FAQs, &g.Images, &g.Videos, &g.PDFs,
		&g.Tags, &g.SearchKeywords, &g.Metadata, &g.Requirements,
		&g.Price, &g.DeliveryTime, &g.Features, &g.IsActive, &g.Status,
		&g.Analytics.Impressions, &g.Analytics.Clicks, &g.Analytics.Orders,
		&g.Analytics.Saves, &g.Analytics.ConversionRate,
		&g.Analytics.ClicksBySource.Search, &g.Analytics.ClicksBySource.Profile,
		&g.Analytics.ClicksBySource.Direct, &g.Analytics.ClicksBySource.Other,
		&g.CreatedAt, &g.UpdatedAt,
		&s.Username, &s.ProfilePicture, &s.Rating, &s.Level, &s.ResponseRate, &s.Email,
	)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Gig not found"})
	}
	s.ID = g.SellerID
	g.Seller = s

	views, err := loadViews(ctx, []string{gigID})
	if err == nil {
		g.Analytics.Views = views[gigID]
	}
	if g.Analytics.Views == nil {
		g.Analytics.Views = []DailyView{}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "gig": g})
}

type createGigRequest struct {
	SellerID       string        `json:"seller_id" validate:"required"`
	Title          string        `json:"title" validate:"required"`
	Description    string        `json:"description" validate:"required"`
	Category       string        `json:"category" validate:"required"`
	SubCategory    string        `json:"sub_category"`
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
	Status         string        `json:"status"`
	Price          float64       `json:"price"`
	DeliveryTime   int           `json:"delivery_time"`
	Features       []string      `json:"features"`
}

// Create lists a new gig. The basic package with price and delivery time
// is mandatory; analytics start at zero.
func Create(c echo.Context) error {
	req := new(createGigRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Missing required fields",
			"message": "Please provide seller_id, title, description, and category",
		})
	}
	if req.Packages.Basic.Price <= 0 || req.Packages.Basic.DeliveryTime <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Missing package information",
			"message": "At least Basic package with price and delivery time is required",
		})
	}

	ctx := context.Background()

	var userType string
	err := db.Conn.QueryRow(ctx, `SELECT user_type FROM users WHERE id = $1`, req.SellerID).Scan(&userType)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Seller not found", "message": "User does not exist"})
	}
	if userType != "seller" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Unauthorized", "message": "Only sellers can create gigs"})
	}

	status := req.Status
	if status == "" {
		status = "draft"
	}

	g := &Gig{
		ID:             uuid.New().String(),
		SellerID:       req.SellerID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		SubCategory:    req.SubCategory,
		Packages:       req.Packages,
		AddOns:         req.AddOns,
		FAQs:           req.FAQs,
		Images:         req.Images,
		Videos:         req.Videos,
		PDFs:           req.PDFs,
		Tags:           req.Tags,
		SearchKeywords: req.SearchKeywords,
		Metadata:       req.Metadata,
		Requirements:   req.Requirements,
		Price:          req.Price,
		DeliveryTime:   req.DeliveryTime,
		Features:       req.Features,
		IsActive:       status == "active",
		Status:         status,
	}
	g.SyncLegacyFields()
	g.Analytics.ConversionRate = "0.00"
	g.Analytics.Views = []DailyView{}

	err = db.Conn.QueryRow(ctx,
		`INSERT INTO gigs (id, seller_id, title, description, category, sub_category,
			packages, add_ons, faqs, images, videos, pdfs,
			tags, search_keywords, metadata, requirements,
			price, delivery_time, features, is_active, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21)
		 RETURNING created_at, updated_at`,
		g.ID, g.SellerID, g.Title, g.Description, g.Category, g.SubCategory,
		jsonValue(g.Packages), jsonValue(g.AddOns), jsonValue(g.FAQs),
		jsonValue(g.Images), jsonValue(g.Videos), jsonValue(g.PDFs),
		g.Tags, g.SearchKeywords, jsonValue(g.Metadata), jsonValue(g.Requirements),
		g.Price, g.DeliveryTime, g.Features, g.IsActive, g.Status,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		c.Logger().Errorf("create gig: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to create gig"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Gig created successfully",
		"gig":     g,
	})
}

type updateGigRequest struct {
	Title          *string        `json:"title"`
	Description    *string        `json:"description"`
	Category       *string        `json:"category"`
	SubCategory    *string        `json:"sub_category"`
	Packages       *Packages      `json:"packages"`
	AddOns         *[]AddOn       `json:"add_ons"`
	FAQs           *[]FAQ         `json:"faqs"`
	Images         *[]string      `json:"images"`
	Videos         *[]Video       `json:"videos"`
	PDFs           *[]PDF         `json:"pdfs"`
	Tags           *[]string      `json:"tags"`
	SearchKeywords *[]string      `json:"search_keywords"`
	Metadata       *Metadata      `json:"metadata"`
	Requirements   *[]Requirement `json:"requirements"`
	Status         *string        `json:"status"`
	Price          *float64       `json:"price"`
	DeliveryTime   *int           `json:"delivery_time"`
	Features       *[]string      `json:"features"`
	IsActive       *bool          `json:"is_active"`
}

// gigOwner returns the seller id of a gig, or pgx.ErrNoRows.
func gigOwner(ctx context.Context, gigID string) (string, error) {
	var sellerID string
	err := db.Conn.QueryRow(ctx, `SELECT seller_id FROM gigs WHERE id = $1`, gigID).Scan(&sellerID)
	return sellerID, err
}

// Update applies a partial gig update by its owner. Analytics fields are
// not part of the request type, so client-supplied counters are dropped
// on bind; if the basic package changed the legacy flat fields are
// re-synced.
func Update(c echo.Context) error {
	gigID := c.Param("id")

	sellerID, err := gigOwner(context.Background(), gigID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Gig not found", "message": "Gig does not exist"})
		}
		c.Logger().Errorf("update gig: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to update gig"})
	}
	if userID, _ := c.Get("user_id").(string); userID != sellerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied", "message": "You can only modify your own gigs"})
	}

	req := new(updateGigRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Packages != nil && req.Packages.Basic.Price > 0 {
		req.Price = &req.Packages.Basic.Price
		req.DeliveryTime = &req.Packages.Basic.DeliveryTime
		features := req.Packages.Basic.Features
		if features == nil {
			features = []string{}
		}
		req.Features = &features
	}

	sets := []string{"updated_at = NOW()"}
	var args []any
	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.Category != nil {
		set("category", *req.Category)
	}
	if req.SubCategory != nil {
		set("sub_category", *req.SubCategory)
	}
	if req.Packages != nil {
		set("packages", jsonValue(req.Packages))
	}
	if req.AddOns != nil {
		set("add_ons", jsonValue(req.AddOns))
	}
	if req.FAQs != nil {
		set("faqs", jsonValue(req.FAQs))
	}
	if req.Images != nil {
		set("images", jsonValue(req.Images))
	}
	if req.Videos != nil {
		set("videos", jsonValue(req.Videos))
	}
	if req.PDFs != nil {
		set("pdfs", jsonValue(req.PDFs))
	}
	if req.Tags != nil {
		set("tags", *req.Tags)
	}
	if req.SearchKeywords != nil {
		set("search_keywords", *req.SearchKeywords)
	}
	if req.Metadata != nil {
		set("metadata", jsonValue(req.Metadata))
	}
	if req.Requirements != nil {
		set("requirements", jsonValue(req.Requirements))
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if req.Price != nil {
		set("price", *req.Price)
	}
	if req.DeliveryTime != nil {
		set("delivery_time", *req.DeliveryTime)
	}
	if req.Features != nil {
		set("features", *req.Features)
	}
	if req.IsActive != nil {
		set("is_active", *req.IsActive)
	}

	args = append(args, gigID)
	query := fmt.Sprintf(`UPDATE gigs SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), gigColumns)

	g, err := scanGig(db.Conn.QueryRow(context.Background(), query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Gig not found", "message": "Gig does not exist"})
		}
		c.Logger().Errorf("update gig: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to update gig"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Gig updated successfully",
		"gig":     g,
	})
}

// Delete soft-deactivates a gig: it disappears from browsing but stays
// retrievable by id.
func Delete(c echo.Context) error {
	gigID := c.Param("id")

	sellerID, err := gigOwner(context.Background(), gigID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Gig not found", "message": "Gig does not exist"})
		}
		c.Logger().Errorf("delete gig: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to delete gig"})
	}
	if userID, _ := c.Get("user_id").(string); userID != sellerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied", "message": "You can only modify your own gigs"})
	}

	res, err := db.Conn.Exec(context.Background(),
		`UPDATE gigs SET is_active = FALSE, status = 'paused', updated_at = NOW() WHERE id = $1`, gigID)
	if err != nil {
		c.Logger().Errorf("delete gig: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to delete gig"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Gig not found", "message": "Gig does not exist"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Gig deleted successfully"})
}

// ListBySeller returns every gig of one seller, drafts and paused
// included, together with the seller's display info.
func ListBySeller(c echo.Context) error {
	sellerID := c.Param("sellerId")

	ctx := context.Background()

	var username, profilePicture string
	err := db.Conn.QueryRow(ctx,
		`SELECT username, COALESCE(profile->>'profile_picture', '') FROM users WHERE id = $1`,
		sellerID,
	).Scan(&username, &profilePicture)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Seller not found", "message": "The freelancer does not exist"})
	}

	rows, err := db.Conn.Query(ctx,
		`SELECT `+gigColumns+` FROM gigs WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID)
	if err != nil {
		c.Logger().Errorf("seller gigs: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get gigs"})
	}
	defer rows.Close()

	gigsList := []*Gig{}
	var ids []string
	for rows.Next() {
		g, err := scanGig(rows)
		if err != nil {
			c.Logger().Errorf("scan gig: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error", "message": "Failed to get gigs"})
		}
		gigsList = append(gigsList, g)
		ids = append(ids, g.ID)
	}

	if len(ids) > 0 {
		if views, err := loadViews(ctx, ids); err == nil {
			for _, g := range gigsList {
				if v, ok := views[g.ID]; ok {
					g.Analytics.Views = v
				}
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"gigs": gigsList,
		"seller_info": echo.Map{
			"username":        username,
			"profile_picture": profilePicture,
		},
	})
}
