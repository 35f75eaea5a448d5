package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohammadpnp/lead-import/internal/domain/lead"
)

// LeadRepository talks straight to the CRM's leads table through pgx. Dedupe
// lookups are batched with = ANY so an import issues one query per field, not
// one per row.
type LeadRepository struct {
	pool *pgxpool.Pool
}

func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

const leadColumns = `id, full_name, email, COALESCE(phone, ''), source, status, COALESCE(assigned_to, ''), created_by`

func (r *LeadRepository) FindByEmails(ctx context.Context, emails []string) ([]lead.Lead, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+leadColumns+`
FROM leads
WHERE LOWER(email) = ANY($1)
`, lowered(emails))
	if err != nil {
		return nil, fmt.Errorf("find leads by email: %w", err)
	}
	defer rows.Close()
	return scanLeads(rows)
}

func (r *LeadRepository) FindByPhones(ctx context.Context, phones []string) ([]lead.Lead, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+leadColumns+`
FROM leads
WHERE phone = ANY($1)
`, phones)
	if err != nil {
		return nil, fmt.Errorf("find leads by phone: %w", err)
	}
	defer rows.Close()
	return scanLeads(rows)
}

// ListRecent bounds the smart-match candidate pool to the newest leads.
func (r *LeadRepository) ListRecent(ctx context.Context, limit int) ([]lead.Lead, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+leadColumns+`
FROM leads
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent leads: %w", err)
	}
	defer rows.Close()
	return scanLeads(rows)
}

func (r *LeadRepository) Insert(ctx context.Context, l lead.Lead) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO leads (full_name, email, phone, source, status, assigned_to, created_by, created_at, updated_at)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, NOW(), NOW())
RETURNING id
`, l.FullName, l.Email, l.Phone, string(l.Source), string(l.Status), l.AssignedTo, l.CreatedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert lead: %w", err)
	}
	return id, nil
}

// UpdateContact patches only the contact fields of a matched lead; pipeline
// status and assignment are left alone.
func (r *LeadRepository) UpdateContact(ctx context.Context, id int64, fullName, email, phone string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE leads
SET full_name = $2,
    email = $3,
    phone = NULLIF($4, ''),
    updated_at = NOW()
WHERE id = $1
`, id, fullName, email, phone)
	if err != nil {
		return fmt.Errorf("update lead contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update lead contact: lead %d not found", id)
	}
	return nil
}

func scanLeads(rows pgx.Rows) ([]lead.Lead, error) {
	leads := make([]lead.Lead, 0)
	for rows.Next() {
		var l lead.Lead
		var source, status string
		if err := rows.Scan(&l.ID, &l.FullName, &l.Email, &l.Phone, &source, &status, &l.AssignedTo, &l.CreatedBy); err != nil {
			return nil, err
		}
		l.Source = lead.Source(source)
		l.Status = lead.Status(status)
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leads, nil
}

func lowered(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	return out
}
