package service

import (
	"context"
	"fmt"
	"strings"

	"tailorpreview/internal/domain"
)

type ProfileService struct {
	repo domain.ProfileRepository
}

func NewProfileService(repo domain.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// List returns every profile newest-first with per-role counts.
func (s *ProfileService) List(ctx context.Context) ([]domain.Profile, domain.ProfileCounts, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.ProfileCounts{}, loadErr("list profiles", err)
	}
	return profiles, domain.CountProfiles(profiles), nil
}

func (s *ProfileService) SetRole(ctx context.Context, id, role string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: profile id is required", domain.ErrValidation)
	}
	parsed, ok := domain.ParseRole(role)
	if !ok {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}
	if err := s.repo.SetRole(ctx, strings.TrimSpace(id), parsed); err != nil {
		return persistenceErr("set role", err)
	}
	return nil
}
