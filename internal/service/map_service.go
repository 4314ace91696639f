package service

import (
	"context"
	"fmt"
	"time"

	"culture-explorer/internal/models"

	"github.com/rs/zerolog"
)

// MapService produces the marker set for the map view and keeps the shared
// entry list fresh. It only ever reads the list; all mutation happens inside
// the enrichment coordinator.
type MapService struct {
	repo            MapRepository
	coord           Coordinator
	refreshInterval time.Duration
	logger          zerolog.Logger
}

// MapRepository interface for dependency injection.
type MapRepository interface {
	ListByStatus(ctx context.Context, statuses []string) ([]models.Entry, error)
}

// Coordinator is the slice of the enrichment coordinator the map view needs.
type Coordinator interface {
	Snapshot() []models.Entry
	Replace(entries []models.Entry)
	Stale(maxAge time.Duration) bool
	Geocoding() bool
	Trigger(ctx context.Context) bool
}

// NewMapService creates a new map service.
func NewMapService(repo MapRepository, coord Coordinator, refreshInterval time.Duration, logger zerolog.Logger) *MapService {
	return &MapService{repo: repo, coord: coord, refreshInterval: refreshInterval, logger: logger}
}

// MapView is the rendered state of the map for one request.
type MapView struct {
	Markers []models.MarkerView `json:"markers"`
	Total   int                 `json:"total"`
	Loading bool                `json:"loading"`
}

// Markers returns the render-eligible entries passing the type and keyword
// filters. When the filtered set still contains unresolved entries, an
// enrichment pass is kicked off in the background, subject to the
// coordinator's throttle.
func (s *MapService) Markers(ctx context.Context, typeFilter, search string) (MapView, error) {
	entries, err := s.currentEntries(ctx)
	if err != nil {
		return MapView{}, err
	}

	filtered := models.FilterEntries(entries, typeFilter, search)

	markers := make([]models.MarkerView, 0, len(filtered))
	unresolved := false
	for _, e := range filtered {
		if e.HasCoordinates() {
			markers = append(markers, e.Marker())
		} else {
			unresolved = true
		}
	}

	if unresolved {
		go s.coord.Trigger(context.WithoutCancel(ctx))
	}

	loading := (len(entries) > 0 && len(markers) == 0) || s.coord.Geocoding()

	return MapView{Markers: markers, Total: len(entries), Loading: loading}, nil
}

// currentEntries serves the shared snapshot, reloading it from the store when
// it has gone stale. A reload failure with a usable snapshot in hand is
// logged and tolerated.
func (s *MapService) currentEntries(ctx context.Context) ([]models.Entry, error) {
	snapshot := s.coord.Snapshot()
	if len(snapshot) > 0 && !s.coord.Stale(s.refreshInterval) {
		return snapshot, nil
	}

	fresh, err := s.repo.ListByStatus(ctx, []string{models.StatusApproved})
	if err != nil {
		if len(snapshot) > 0 {
			s.logger.Warn().Err(err).Msg("entry reload failed, serving previous snapshot")
			return snapshot, nil
		}
		return nil, fmt.Errorf("service: failed to load entries: %w", err)
	}

	s.coord.Replace(fresh)
	return fresh, nil
}
