package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"culture-explorer/internal/models"
)

// EntryService contains the business logic for public entry operations.
type EntryService struct {
	repo   EntryRepository
	photos PhotoStore
}

// EntryRepository interface for dependency injection.
type EntryRepository interface {
	ListByStatus(ctx context.Context, statuses []string) ([]models.Entry, error)
	GetByID(ctx context.Context, id int64) (*models.Entry, error)
	Insert(ctx context.Context, e models.Entry) (int64, error)
}

// PhotoStore uploads a submission photo and returns its public URL.
type PhotoStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// NewEntryService creates a new entry service.
func NewEntryService(repo EntryRepository, photos PhotoStore) *EntryService {
	return &EntryService{repo: repo, photos: photos}
}

// ListApproved returns approved entries, newest first, optionally narrowed by
// a keyword search.
func (s *EntryService) ListApproved(ctx context.Context, search string) ([]models.Entry, error) {
	entries, err := s.repo.ListByStatus(ctx, []string{models.StatusApproved})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list entries: %w", err)
	}
	return models.FilterEntries(entries, "", search), nil
}

// Get returns a single entry, or nil when it does not exist.
func (s *EntryService) Get(ctx context.Context, id int64) (*models.Entry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get entry: %w", err)
	}
	return entry, nil
}

// Submission is a new entry as received from the public form, with the photo
// still attached as an upload.
type Submission struct {
	Type         string
	Title        string
	Description  string
	Country      string
	City         string
	Zipcode      string
	Address      string
	Community    string
	Link         string
	ConsentStore bool
	ConsentShare bool

	PhotoFilename    string
	PhotoContentType string
	Photo            io.Reader
}

// ValidationError marks a submission the caller can fix.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Submit validates the submission, uploads its photo, and stores the entry as
// pending moderation. Coordinates start unset; a later enrichment pass
// resolves them.
func (s *EntryService) Submit(ctx context.Context, sub Submission) (int64, error) {
	if err := validateSubmission(sub); err != nil {
		return 0, err
	}

	photoURL, err := s.photos.Upload(ctx, sub.PhotoFilename, sub.PhotoContentType, sub.Photo)
	if err != nil {
		return 0, fmt.Errorf("service: failed to upload photo: %w", err)
	}

	id, err := s.repo.Insert(ctx, models.Entry{
		Type:         sub.Type,
		Title:        strings.TrimSpace(sub.Title),
		Description:  strings.TrimSpace(sub.Description),
		Country:      strings.TrimSpace(sub.Country),
		City:         strings.TrimSpace(sub.City),
		Zipcode:      strings.TrimSpace(sub.Zipcode),
		Address:      strings.TrimSpace(sub.Address),
		Community:    strings.TrimSpace(sub.Community),
		Link:         strings.TrimSpace(sub.Link),
		PhotoURL:     photoURL,
		Status:       models.StatusPending,
		ConsentStore: sub.ConsentStore,
		ConsentShare: sub.ConsentShare,
	})
	if err != nil {
		return 0, fmt.Errorf("service: failed to insert entry: %w", err)
	}

	return id, nil
}

func validateSubmission(sub Submission) error {
	if !models.ValidType(sub.Type) {
		return validationErrorf("invalid entry type %q", sub.Type)
	}
	for _, f := range []struct{ name, value string }{
		{"title", sub.Title},
		{"description", sub.Description},
		{"country", sub.Country},
		{"city", sub.City},
		{"zipcode", sub.Zipcode},
	} {
		if strings.TrimSpace(f.value) == "" {
			return validationErrorf("missing required field %q", f.name)
		}
	}
	// Cultural spaces need a street address to geocode precisely.
	if sub.Type == models.TypeSpace && strings.TrimSpace(sub.Address) == "" {
		return validationErrorf("address is required for cultural spaces")
	}
	if sub.Photo == nil {
		return validationErrorf("a photo is required")
	}
	if !sub.ConsentStore {
		return validationErrorf("storage consent is required")
	}
	return nil
}
