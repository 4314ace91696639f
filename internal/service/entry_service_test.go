package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"culture-explorer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEntryRepository is a mock implementation of the EntryRepository interface.
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) ListByStatus(ctx context.Context, statuses []string) ([]models.Entry, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]models.Entry), args.Error(1)
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id int64) (*models.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entry), args.Error(1)
}

func (m *MockEntryRepository) Insert(ctx context.Context, e models.Entry) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

// MockPhotoStore is a mock implementation of the PhotoStore interface.
type MockPhotoStore struct {
	mock.Mock
}

func (m *MockPhotoStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, filename, contentType, body)
	return args.String(0), args.Error(1)
}

func validSubmission() Submission {
	return Submission{
		Type:             models.TypeArtist,
		Title:            "Painter",
		Description:      "murals around town",
		Country:          "Germany",
		City:             "Berlin",
		Zipcode:          "10115",
		ConsentStore:     true,
		PhotoFilename:    "photo.jpg",
		PhotoContentType: "image/jpeg",
		Photo:            strings.NewReader("jpeg-bytes"),
	}
}

func TestEntryService_Submit(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Submission)
		expectErr string
	}{
		{name: "valid submission"},
		{
			name:      "invalid type",
			mutate:    func(s *Submission) { s.Type = "museum" },
			expectErr: "invalid entry type",
		},
		{
			name:      "missing title",
			mutate:    func(s *Submission) { s.Title = "  " },
			expectErr: `missing required field "title"`,
		},
		{
			name:      "missing zipcode",
			mutate:    func(s *Submission) { s.Zipcode = "" },
			expectErr: `missing required field "zipcode"`,
		},
		{
			name: "space without address",
			mutate: func(s *Submission) {
				s.Type = models.TypeSpace
				s.Address = ""
			},
			expectErr: "address is required",
		},
		{
			name:      "missing photo",
			mutate:    func(s *Submission) { s.Photo = nil },
			expectErr: "photo is required",
		},
		{
			name:      "missing storage consent",
			mutate:    func(s *Submission) { s.ConsentStore = false },
			expectErr: "storage consent is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			if tt.mutate != nil {
				tt.mutate(&sub)
			}

			repo := new(MockEntryRepository)
			photos := new(MockPhotoStore)
			svc := NewEntryService(repo, photos)

			if tt.expectErr == "" {
				photos.On("Upload", mock.Anything, "photo.jpg", "image/jpeg", mock.Anything).
					Return("https://photos.example/photo.jpg", nil)
				repo.On("Insert", mock.Anything, mock.MatchedBy(func(e models.Entry) bool {
					return e.Status == models.StatusPending &&
						e.PhotoURL == "https://photos.example/photo.jpg" &&
						e.Lat == nil && e.Lon == nil
				})).Return(int64(42), nil)
			}

			id, err := svc.Submit(context.Background(), sub)

			if tt.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectErr)
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(42), id)
			repo.AssertExpectations(t)
			photos.AssertExpectations(t)
		})
	}
}

func TestEntryService_Submit_UploadFailure(t *testing.T) {
	repo := new(MockEntryRepository)
	photos := new(MockPhotoStore)
	photos.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", assert.AnError)

	svc := NewEntryService(repo, photos)

	_, err := svc.Submit(context.Background(), validSubmission())
	require.Error(t, err)
	var ve *ValidationError
	assert.NotErrorAs(t, err, &ve)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestEntryService_ListApproved(t *testing.T) {
	repo := new(MockEntryRepository)
	repo.On("ListByStatus", mock.Anything, []string{models.StatusApproved}).Return([]models.Entry{
		{ID: 2, Type: models.TypeArtist, Title: "Gallery painter"},
		{ID: 1, Type: models.TypeSpace, Title: "Warehouse"},
	}, nil)

	svc := NewEntryService(repo, new(MockPhotoStore))

	all, err := svc.ListApproved(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.ListApproved(context.Background(), "gallery")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(2), filtered[0].ID)
}

func TestEntryService_Get(t *testing.T) {
	repo := new(MockEntryRepository)
	repo.On("GetByID", mock.Anything, int64(7)).Return(&models.Entry{ID: 7, Title: "Mural"}, nil)
	repo.On("GetByID", mock.Anything, int64(8)).Return(nil, nil)

	svc := NewEntryService(repo, new(MockPhotoStore))

	entry, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Mural", entry.Title)

	missing, err := svc.Get(context.Background(), 8)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
