package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"culture-explorer/internal/models"
	"culture-explorer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEntryService is a mock implementation of the EntryService interface.
type MockEntryService struct {
	mock.Mock
}

func (m *MockEntryService) ListApproved(ctx context.Context, search string) ([]models.Entry, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]models.Entry), args.Error(1)
}

func (m *MockEntryService) Get(ctx context.Context, id int64) (*models.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entry), args.Error(1)
}

func (m *MockEntryService) Submit(ctx context.Context, sub service.Submission) (int64, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(int64), args.Error(1)
}

func entryRouter(h *EntryHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/entries", h.List)
	r.GET("/entries/:id", h.Get)
	r.POST("/entries", h.Submit)
	return r
}

func TestEntryHandler_List(t *testing.T) {
	mockSvc := new(MockEntryService)
	mockSvc.On("ListApproved", mock.Anything, "gallery").Return([]models.Entry{
		{ID: 1, Title: "Gallery painter", Status: models.StatusApproved},
	}, nil)

	r := entryRouter(NewEntryHandler(mockSvc))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/entries?q=gallery", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Entries []models.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "Gallery painter", body.Entries[0].Title)
	mockSvc.AssertExpectations(t)
}

func TestEntryHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		mockID         int64
		mockEntry      *models.Entry
		mockError      error
		skipMock       bool
		expectedStatus int
	}{
		{
			name:           "found",
			url:            "/entries/7",
			mockID:         7,
			mockEntry:      &models.Entry{ID: 7, Title: "Mural"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found",
			url:            "/entries/8",
			mockID:         8,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid id",
			url:            "/entries/abc",
			skipMock:       true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "service error",
			url:            "/entries/9",
			mockID:         9,
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockEntryService)
			if !tt.skipMock {
				mockSvc.On("Get", mock.Anything, tt.mockID).Return(tt.mockEntry, tt.mockError)
			}

			r := entryRouter(NewEntryHandler(mockSvc))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}

func multipartSubmission(t *testing.T, withPhoto bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	fields := map[string]string{
		"type": "artist", "title": "Painter", "description": "murals",
		"country": "Germany", "city": "Berlin", "zipcode": "10115",
		"consent_store": "true",
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withPhoto {
		fw, err := mw.CreateFormFile("photo", "photo.jpg")
		require.NoError(t, err)
		_, err = fw.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestEntryHandler_Submit(t *testing.T) {
	mockSvc := new(MockEntryService)
	mockSvc.On("Submit", mock.Anything, mock.MatchedBy(func(sub service.Submission) bool {
		return sub.Type == "artist" && sub.Title == "Painter" &&
			sub.ConsentStore && sub.Photo != nil && sub.PhotoFilename == "photo.jpg"
	})).Return(int64(42), nil)

	body, contentType := multipartSubmission(t, true)
	req := httptest.NewRequest(http.MethodPost, "/entries", body)
	req.Header.Set("Content-Type", contentType)

	r := entryRouter(NewEntryHandler(mockSvc))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(42), resp["id"])
	assert.Equal(t, models.StatusPending, resp["status"])
	mockSvc.AssertExpectations(t)
}

func TestEntryHandler_Submit_ValidationError(t *testing.T) {
	mockSvc := new(MockEntryService)
	mockSvc.On("Submit", mock.Anything, mock.Anything).
		Return(int64(0), &service.ValidationError{})

	body, contentType := multipartSubmission(t, false)
	req := httptest.NewRequest(http.MethodPost, "/entries", body)
	req.Header.Set("Content-Type", contentType)

	r := entryRouter(NewEntryHandler(mockSvc))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
