package service

import (
	"context"
	"fmt"
	"strings"

	"culture-explorer/internal/models"
)

// AdminService contains the moderation logic for the admin console.
type AdminService struct {
	repo AdminRepository
}

// AdminRepository interface for dependency injection.
type AdminRepository interface {
	ListByStatus(ctx context.Context, statuses []string) ([]models.Entry, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// NewAdminService creates a new admin service.
func NewAdminService(repo AdminRepository) *AdminService {
	return &AdminService{repo: repo}
}

// Pending returns entries awaiting moderation, newest first.
func (s *AdminService) Pending(ctx context.Context) ([]models.Entry, error) {
	entries, err := s.repo.ListByStatus(ctx, []string{models.StatusPending})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list pending entries: %w", err)
	}
	return entries, nil
}

// List returns entries matching the comma-separated status filter. An empty
// filter defaults to the moderation queue: pending and rejected.
func (s *AdminService) List(ctx context.Context, statusFilter string) ([]models.Entry, error) {
	statuses := parseStatuses(statusFilter)
	entries, err := s.repo.ListByStatus(ctx, statuses)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list entries: %w", err)
	}
	return entries, nil
}

// Approve publishes a pending entry to the map.
func (s *AdminService) Approve(ctx context.Context, id int64) error {
	if err := s.repo.UpdateStatus(ctx, id, models.StatusApproved); err != nil {
		return fmt.Errorf("service: failed to approve entry: %w", err)
	}
	return nil
}

// Reject marks an entry as rejected without deleting it.
func (s *AdminService) Reject(ctx context.Context, id int64) error {
	if err := s.repo.UpdateStatus(ctx, id, models.StatusRejected); err != nil {
		return fmt.Errorf("service: failed to reject entry: %w", err)
	}
	return nil
}

// Delete removes an entry permanently.
func (s *AdminService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: failed to delete entry: %w", err)
	}
	return nil
}

func parseStatuses(filter string) []string {
	if strings.TrimSpace(filter) == "" {
		return []string{models.StatusPending, models.StatusRejected}
	}
	var statuses []string
	for _, s := range strings.Split(filter, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			statuses = append(statuses, s)
		}
	}
	return statuses
}
