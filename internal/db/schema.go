package db

import (
	"context"
	"fmt"
)

// Analytics counters live in plain integer columns so increments stay
// single-statement atomic; nested document fields (packages, add-ons,
// deliverables, attachments) live in JSONB columns.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		user_type TEXT NOT NULL CHECK (user_type IN ('seller','buyer')),
		profile JSONB NOT NULL DEFAULT '{}'::jsonb,
		seller_profile JSONB NOT NULL DEFAULT '{"level":1,"success_score":0,"rating":0,"response_rate":0,"earnings":0,"is_available":true}'::jsonb,
		subscription_status TEXT NOT NULL DEFAULT 'free',
		subscription_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS gigs (
		id TEXT PRIMARY KEY,
		seller_id TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		sub_category TEXT NOT NULL DEFAULT '',
		packages JSONB NOT NULL,
		add_ons JSONB NOT NULL DEFAULT '[]'::jsonb,
		faqs JSONB NOT NULL DEFAULT '[]'::jsonb,
		images JSONB NOT NULL DEFAULT '[]'::jsonb,
		videos JSONB NOT NULL DEFAULT '[]'::jsonb,
		pdfs JSONB NOT NULL DEFAULT '[]'::jsonb,
		tags TEXT[] NOT NULL DEFAULT '{}',
		search_keywords TEXT[] NOT NULL DEFAULT '{}',
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
		requirements JSONB NOT NULL DEFAULT '[]'::jsonb,
		price NUMERIC NOT NULL,
		delivery_time INTEGER NOT NULL DEFAULT 3,
		features TEXT[] NOT NULL DEFAULT '{}',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft','active','paused','denied')),
		impressions BIGINT NOT NULL DEFAULT 0,
		clicks BIGINT NOT NULL DEFAULT 0,
		orders_count BIGINT NOT NULL DEFAULT 0,
		saves BIGINT NOT NULL DEFAULT 0,
		conversion_rate TEXT NOT NULL DEFAULT '0.00',
		clicks_search BIGINT NOT NULL DEFAULT 0,
		clicks_profile BIGINT NOT NULL DEFAULT 0,
		clicks_direct BIGINT NOT NULL DEFAULT 0,
		clicks_other BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_gigs_seller ON gigs (seller_id, is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_gigs_category ON gigs (category, is_active)`,

	`CREATE TABLE IF NOT EXISTS gig_views (
		gig_id TEXT NOT NULL REFERENCES gigs(id),
		view_date DATE NOT NULL,
		count BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (gig_id, view_date)
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		order_id TEXT PRIMARY KEY,
		gig_id TEXT NOT NULL,
		gig_title TEXT NOT NULL,
		seller_id TEXT NOT NULL,
		seller_username TEXT NOT NULL DEFAULT '',
		buyer_id TEXT NOT NULL,
		buyer_username TEXT NOT NULL DEFAULT '',
		package TEXT NOT NULL CHECK (package IN ('basic','standard','premium')),
		price NUMERIC NOT NULL,
		delivery_time INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		requirements TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','in_revision','completed','cancelled')),
		deliverables JSONB NOT NULL DEFAULT '[]'::jsonb,
		revision_requests JSONB NOT NULL DEFAULT '[]'::jsonb,
		due_date TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		cancelled_at TIMESTAMPTZ,
		cancellation_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders (seller_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders (buyer_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		sender_id TEXT NOT NULL,
		sender_username TEXT NOT NULL,
		receiver_id TEXT NOT NULL,
		receiver_username TEXT NOT NULL,
		message TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		attachments JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages (conversation_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages (receiver_id) WHERE NOT is_read`,

	`CREATE TABLE IF NOT EXISTS subscriptions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		plan TEXT NOT NULL DEFAULT 'essential' CHECK (plan IN ('essential','premium')),
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','cancelled','expired')),
		price NUMERIC NOT NULL,
		billing_cycle TEXT NOT NULL DEFAULT 'yearly' CHECK (billing_cycle IN ('monthly','yearly')),
		start_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		end_date TIMESTAMPTZ NOT NULL,
		auto_renew BOOLEAN NOT NULL DEFAULT TRUE,
		payment_method TEXT NOT NULL CHECK (payment_method IN ('easypaisa','jazzcash','card')),
		annual_orders_value NUMERIC NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		subscription_id TEXT,
		amount NUMERIC NOT NULL,
		payment_method TEXT NOT NULL DEFAULT '',
		transaction_id TEXT NOT NULL UNIQUE,
		promo_code TEXT,
		discount NUMERIC NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','completed','failed')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_user ON payments (user_id, created_at DESC)`,
}

func ensureSchema() error {
	ctx := context.Background()
	for _, stmt := range schemaStatements {
		if _, err := Conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema setup: %w", err)
		}
	}
	return nil
}
