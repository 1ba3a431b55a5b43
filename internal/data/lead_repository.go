package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLLeadRepository stores demo requests using sqlx.
type SQLLeadRepository struct {
	db *sqlx.DB
}

// NewSQLLeadRepository creates a new SQLLeadRepository.
func NewSQLLeadRepository(db *sqlx.DB) *SQLLeadRepository {
	return &SQLLeadRepository{db: db}
}

// CreateLead inserts a new lead. The caller assigns the ID and timestamp.
func (r *SQLLeadRepository) CreateLead(ctx context.Context, lead *Lead) error {
	query := `INSERT INTO leads (id, name, email, company, phone, outlets, message, locale,
		utm_source, utm_medium, utm_campaign, referrer, landing_path, created_at)
		VALUES (:id, :name, :email, :company, :phone, :outlets, :message, :locale,
		:utm_source, :utm_medium, :utm_campaign, :referrer, :landing_path, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lead); err != nil {
		return fmt.Errorf("failed to execute create lead query: %w", err)
	}
	return nil
}

// ListLeads returns the most recent leads, newest first.
func (r *SQLLeadRepository) ListLeads(ctx context.Context, limit int) ([]*Lead, error) {
	var leads []*Lead
	query := `SELECT id, name, email, company, phone, outlets, message, locale,
		utm_source, utm_medium, utm_campaign, referrer, landing_path, created_at
		FROM leads ORDER BY created_at DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &leads, r.db.Rebind(query), limit); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// CountLeads returns the total number of stored leads.
func (r *SQLLeadRepository) CountLeads(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM leads`); err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return n, nil
}
