package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/auth"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/popover"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/service"
)

type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) Create(ctx context.Context, userID int64, req *models.CardCreate) (*models.Card, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) Get(ctx context.Context, userID, cardID int64) (*models.Card, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) Update(ctx context.Context, userID, cardID int64, req *models.CardUpdate) (*models.Card, error) {
	args := m.Called(ctx, userID, cardID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) Review(ctx context.Context, userID int64, req *models.ModerationReviewCreate) (*models.ModerationReview, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModerationReview), args.Error(1)
}

type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) ViewCollection(ctx context.Context, userID int64, collectionID *int64) (*models.Collection, error) {
	args := m.Called(ctx, userID, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

type MockTableService struct {
	mock.Mock
}

func (m *MockTableService) Popover(ctx context.Context, rawID string, overrides popover.Options) (*models.TablePopover, error) {
	args := m.Called(ctx, rawID, overrides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TablePopover), args.Error(1)
}

type MockTimelineService struct {
	mock.Mock
}

func (m *MockTimelineService) CreateTimeline(ctx context.Context, userID int64, req *models.TimelineCreate) (*models.Timeline, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Timeline), args.Error(1)
}

func (m *MockTimelineService) GetTimeline(ctx context.Context, userID, timelineID int64, includeEvents bool, q service.EventQuery) (*models.Timeline, error) {
	args := m.Called(ctx, userID, timelineID, includeEvents, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Timeline), args.Error(1)
}

func (m *MockTimelineService) UpdateTimeline(ctx context.Context, userID, timelineID int64, req *models.TimelineUpdate) (*models.Timeline, error) {
	args := m.Called(ctx, userID, timelineID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Timeline), args.Error(1)
}

func (m *MockTimelineService) CollectionTimelines(ctx context.Context, userID int64, collectionID *int64, includeEvents bool, q service.EventQuery) ([]*models.Timeline, error) {
	args := m.Called(ctx, userID, collectionID, includeEvents, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Timeline), args.Error(1)
}

func (m *MockTimelineService) CardTimelines(ctx context.Context, userID, cardID int64, q service.EventQuery) (*models.TimelineView, error) {
	args := m.Called(ctx, userID, cardID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimelineView), args.Error(1)
}

func (m *MockTimelineService) CreateEvent(ctx context.Context, userID int64, req *models.TimelineEventCreate) (*models.TimelineEvent, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimelineEvent), args.Error(1)
}

func (m *MockTimelineService) GetEvent(ctx context.Context, userID, eventID int64) (*models.TimelineEvent, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimelineEvent), args.Error(1)
}

func (m *MockTimelineService) UpdateEvent(ctx context.Context, userID, eventID int64, req *models.TimelineEventUpdate) (*models.TimelineEvent, error) {
	args := m.Called(ctx, userID, eventID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimelineEvent), args.Error(1)
}

func (m *MockTimelineService) ArchiveEvent(ctx context.Context, userID, eventID int64) (*models.ArchiveResult, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArchiveResult), args.Error(1)
}

func (m *MockTimelineService) UndoArchive(ctx context.Context, userID int64, token string) (*models.TimelineEvent, error) {
	args := m.Called(ctx, userID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimelineEvent), args.Error(1)
}

// newRequest builds a request as the router would hand it over: with the
// authenticated user and chi URL parameters in its context. A userID of 0
// leaves the request unauthenticated.
func newRequest(t *testing.T, method, target string, body interface{}, userID int64, params map[string]string) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != 0 {
		ctx = auth.WithUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Count int `json:"count"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}
