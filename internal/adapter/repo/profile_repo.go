package repo

import (
	"context"
	"fmt"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/infra"
	"tailorpreview/internal/sqlinline"
)

// ProfileRepositoryPG implements domain.ProfileRepository backed by PostgreSQL.
type ProfileRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewProfileRepository creates a new ProfileRepositoryPG.
func NewProfileRepository(sql infra.SQLExecutor) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{sql: sql}
}

// RoleByID returns the stored role of a profile. A missing row maps to
// domain.ErrNotFound and an unrecognized value is an error.
func (r *ProfileRepositoryPG) RoleByID(ctx context.Context, id string) (domain.Role, error) {
	var raw string
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectProfileRole, id).Scan(&raw); err != nil {
		if infra.IsNoRows(err) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	role, ok := domain.ParseRole(raw)
	if !ok {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// SetRole creates or updates a profile with the given role.
func (r *ProfileRepositoryPG) SetRole(ctx context.Context, id string, role domain.Role) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertProfileRole, id, string(role))
	return err
}

// List returns all profiles, newest first.
func (r *ProfileRepositoryPG) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListProfiles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var (
			p    domain.Profile
			role string
		)
		if err := rows.Scan(&p.ID, &role, &p.ShopName, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Role = domain.Role(role)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

var _ domain.ProfileRepository = (*ProfileRepositoryPG)(nil)
