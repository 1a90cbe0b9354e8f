package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobradar/internal/domain"
)

// Registry serves company identifiers from the companies table. Rows come
// back in insertion order so a family's fetch order is stable.
type Registry struct {
	db *sql.DB
}

func NewRegistry(d *DB) *Registry {
	return &Registry{db: d.Pool}
}

func (r *Registry) Companies(ctx context.Context, family string) ([]domain.Company, error) {
	return r.list(ctx, family, true)
}

// All lists every row of family, disabled ones included.
func (r *Registry) All(ctx context.Context, family string) ([]domain.Company, error) {
	return r.list(ctx, family, false)
}

func (r *Registry) list(ctx context.Context, family string, enabledOnly bool) ([]domain.Company, error) {
	family = strings.ToLower(strings.TrimSpace(family))

	q := `
SELECT ats_type, slug, name, url, role, location
FROM companies
WHERE ats_type = ?`
	if enabledOnly {
		q += ` AND enabled = 1`
	}
	q += ` ORDER BY id ASC;`

	rows, err := r.db.QueryContext(ctx, q, family)
	if err != nil {
		return nil, fmt.Errorf("list %s companies: %w", family, err)
	}
	defer rows.Close()

	var out []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ATSType, &c.Slug, &c.Name, &c.URL, &c.Role, &c.Location); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Upsert adds c, or updates name/role/location and re-enables an existing row
// with the same (ats_type, slug, url).
func (r *Registry) Upsert(ctx context.Context, c domain.Company) error {
	c = normalizeCompany(c)
	if c.ATSType == "" {
		return errors.New("company ats type is empty")
	}
	if c.Slug == "" && c.URL == "" {
		return errors.New("company needs a slug or a url")
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO companies(ats_type, slug, name, url, role, location, enabled, added_at)
VALUES(?,?,?,?,?,?,1,?)
ON CONFLICT(ats_type, slug, url) DO UPDATE SET
  name = excluded.name,
  role = excluded.role,
  location = excluded.location,
  enabled = 1;
`, c.ATSType, c.Slug, c.Name, c.URL, c.Role, c.Location, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert company %s/%s: %w", c.ATSType, c.ID(), err)
	}
	return nil
}

// SetEnabled toggles the row matching family and slug-or-url. It reports
// whether a row matched.
func (r *Registry) SetEnabled(ctx context.Context, family, id string, enabled bool) (bool, error) {
	family = strings.ToLower(strings.TrimSpace(family))
	id = strings.TrimSpace(id)

	v := 0
	if enabled {
		v = 1
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE companies SET enabled = ?
WHERE ats_type = ? AND (slug = ? OR url = ?);
`, v, family, id, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func normalizeCompany(c domain.Company) domain.Company {
	c.ATSType = strings.ToLower(strings.TrimSpace(c.ATSType))
	c.Slug = strings.TrimSpace(c.Slug)
	c.Name = strings.TrimSpace(c.Name)
	c.URL = strings.TrimSpace(c.URL)
	c.Role = strings.TrimSpace(c.Role)
	c.Location = strings.TrimSpace(c.Location)
	return c
}
