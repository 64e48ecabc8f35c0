package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/Freeeeeet/slot_board/internal/repository"
	"github.com/Freeeeeet/slot_board/internal/repository/memory"
	"github.com/Freeeeeet/slot_board/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, time.August, 20, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	server  *Server
	store   *memory.Store
	members []*model.Member
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()
	return newTestServerWithStore(t, memory.NewStore())
}

func newTestServerWithStore(t *testing.T, store *memory.Store) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	ctx := context.Background()

	members := service.NewMemberService(store, logger)
	require.NoError(t, members.Seed(ctx, service.DefaultMembers))
	list, err := members.List(ctx)
	require.NoError(t, err)

	hub := NewHub(logger)
	services := Services{
		Members:       members,
		Bookings:      service.NewBookingService(store, store, hub, logger),
		Activities:    service.NewActivityService(store),
		Comments:      service.NewCommentService(store, store, logger),
		Participation: service.NewParticipationService(store, store),
		Window:        service.NewWindowService(store, store),
	}

	srv := NewServer(services, store, hub, Options{
		StoreTimeout: time.Second,
		Location:     time.UTC,
		Now:          func() time.Time { return fixedNow },
	}, logger)

	return &testEnv{server: srv, store: store, members: list}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")

	resp, err := e.server.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestHealth(t *testing.T) {
	env := newTestServer(t)

	resp, body := env.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[map[string]string](t, body)
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, "memory", got["storage"])
}

func TestListMembers(t *testing.T) {
	env := newTestServer(t)

	resp, body := env.do(t, http.MethodGet, "/api/members", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	members := decode[[]model.Member](t, body)
	require.Len(t, members, len(service.DefaultMembers))
	assert.Equal(t, "Ashish", members[0].Name)
	assert.Equal(t, "green", members[0].AvatarColor)
	assert.Contains(t, string(body), `"avatarColor"`)
}

func TestBookAndCancelFlow(t *testing.T) {
	env := newTestServer(t)
	m := env.members[0]

	resp, body := env.do(t, http.MethodPost, "/api/bookings", map[string]string{
		"memberId": m.ID, "memberName": m.Name, "date": "2025-08-20",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	booking := decode[model.Booking](t, body)
	assert.Equal(t, m.ID, booking.MemberID)
	assert.Equal(t, "2025-08-20", booking.Date)

	resp, body = env.do(t, http.MethodGet, "/api/bookings/2025-08-20", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Booking](t, body), 1)

	resp, body = env.do(t, http.MethodGet, "/api/members/"+m.ID+"/bookings", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Booking](t, body), 1)

	resp, body = env.do(t, http.MethodPost, "/api/bookings", map[string]string{
		"memberId": m.ID, "memberName": m.Name, "date": "2025-08-20",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Member already has a booking for this date", decode[ErrorResponse](t, body).Message)

	resp, body = env.do(t, http.MethodDelete, "/api/bookings/"+m.ID+"/2025-08-20", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Booking cancelled successfully", decode[ErrorResponse](t, body).Message)

	resp, body = env.do(t, http.MethodGet, "/api/activities", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	activities := decode[[]model.Activity](t, body)
	require.Len(t, activities, 2)
	assert.Equal(t, model.ActivityActionCancelled, activities[0].Action)
	assert.Equal(t, "Windows Device - Chrome", activities[0].DeviceInfo)

	resp, body = env.do(t, http.MethodGet, "/api/activities/2025-08-20", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Activity](t, body), 2)
}

func TestBookSlotErrors(t *testing.T) {
	env := newTestServer(t)
	m := env.members[0]

	resp, body := env.do(t, http.MethodPost, "/api/bookings", map[string]string{
		"memberId": m.ID, "memberName": m.Name, "date": "2025-08-23",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Bookings are only allowed on weekdays (Monday-Friday)", decode[ErrorResponse](t, body).Message)

	resp, body = env.do(t, http.MethodPost, "/api/bookings", map[string]string{
		"memberId": m.ID, "memberName": m.Name, "date": "2025-13-40",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, `Invalid date "2025-13-40", expected YYYY-MM-DD`, decode[ErrorResponse](t, body).Message)

	resp, body = env.do(t, http.MethodPost, "/api/bookings", map[string]string{"date": "2025-08-20"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errResp := decode[ErrorResponse](t, body)
	assert.Equal(t, "Invalid request data", errResp.Message)
	assert.Contains(t, errResp.Errors, "memberId is required")

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	raw, err := env.server.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestBookSlotCapacityOverHTTP(t *testing.T) {
	env := newTestServer(t)

	for _, m := range env.members[:model.MaxSlotsPerDay] {
		resp, body := env.do(t, http.MethodPost, "/api/bookings", map[string]string{
			"memberId": m.ID, "memberName": m.Name, "date": "2025-08-21",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	}

	late := env.members[model.MaxSlotsPerDay]
	resp, body := env.do(t, http.MethodPost, "/api/bookings", map[string]string{
		"memberId": late.ID, "memberName": late.Name, "date": "2025-08-21",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "This date is fully booked (6/6 slots)", decode[ErrorResponse](t, body).Message)
}

func TestCancelNotFound(t *testing.T) {
	env := newTestServer(t)

	resp, body := env.do(t, http.MethodDelete, "/api/bookings/nobody/2025-08-20", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Booking not found", decode[ErrorResponse](t, body).Message)

	_, body = env.do(t, http.MethodGet, "/api/activities", nil)
	assert.Empty(t, decode[[]model.Activity](t, body))
}

func TestComments(t *testing.T) {
	env := newTestServer(t)
	m := env.members[1]

	resp, body := env.do(t, http.MethodPost, "/api/comments", map[string]string{
		"memberId": m.ID, "memberName": m.Name, "date": "2025-08-20", "comment": "running late",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	comment := decode[model.Comment](t, body)
	assert.Equal(t, "running late", comment.Comment)

	resp, body = env.do(t, http.MethodGet, "/api/comments/2025-08-20", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Comment](t, body), 1)

	resp, body = env.do(t, http.MethodGet, "/api/comments", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Comment](t, body), 1)

	resp, body = env.do(t, http.MethodPost, "/api/comments", map[string]string{
		"memberId": m.ID, "date": "2025-08-20", "comment": strings.Repeat("x", 1001),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[ErrorResponse](t, body).Errors, "comment must be at most 1000 characters")

	resp, _ = env.do(t, http.MethodPost, "/api/comments", map[string]string{
		"memberId": m.ID, "date": "2025-08-20", "comment": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWindow(t *testing.T) {
	env := newTestServer(t)
	m := env.members[0]

	resp, _ := env.do(t, http.MethodPost, "/api/bookings", map[string]string{
		"memberId": m.ID, "memberName": m.Name, "date": "2025-08-26",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/window", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	overview := decode[service.WindowOverview](t, body)
	require.Len(t, overview.Week1, 5)
	require.Len(t, overview.Week2, 5)
	assert.Equal(t, "2025-08-18", overview.Week1[0].Date)
	assert.True(t, overview.Week1[2].IsToday)
	assert.Equal(t, 1, overview.Week2[1].Booked)
	assert.Equal(t, model.SlotTime, overview.SlotTime)
}

func TestWindowImage(t *testing.T) {
	env := newTestServer(t)

	resp, body := env.do(t, http.MethodGet, "/api/window.png", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	_, err := png.Decode(bytes.NewReader(body))
	assert.NoError(t, err)
}

func TestParticipation(t *testing.T) {
	env := newTestServer(t)
	m := env.members[2]

	for _, date := range []string{"2025-08-01", "2025-08-04", "2025-08-05", "2025-08-06", "2025-08-07", "2025-08-08", "2025-08-11"} {
		resp, body := env.do(t, http.MethodPost, "/api/bookings", map[string]string{
			"memberId": m.ID, "memberName": m.Name, "date": date,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	}

	resp, body := env.do(t, http.MethodGet, "/api/participation", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decode[[]model.MemberStats](t, body)
	require.Len(t, stats, len(service.DefaultMembers))
	assert.Equal(t, m.Name, stats[0].Member.Name)
	assert.Equal(t, 33, stats[0].ParticipationRate)
	assert.Equal(t, model.MemberStatusMedium, stats[0].Status)

	resp, body = env.do(t, http.MethodGet, "/api/participation?year=2025&month=8&sort=name&order=asc", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats = decode[[]model.MemberStats](t, body)
	assert.Equal(t, "Anjali", stats[0].Member.Name)

	resp, _ = env.do(t, http.MethodGet, "/api/participation?sort=height", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/participation?month=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebsocketRequiresUpgrade(t *testing.T) {
	env := newTestServer(t)

	resp, _ := env.do(t, http.MethodGet, "/api/activities/ws", nil)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
	assert.Zero(t, env.server.hub.Clients())
}

func TestUnknownRoute(t *testing.T) {
	env := newTestServer(t)

	resp, body := env.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, decode[ErrorResponse](t, body).Message)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", model.ErrInvalidDate, http.StatusBadRequest, "Bookings are only allowed on weekdays (Monday-Friday)"},
		{"conflict", model.ErrCapacityExceeded, http.StatusBadRequest, "This date is fully booked (6/6 slots)"},
		{"not found", failed("Failed to cancel booking", model.ErrBookingNotFound), http.StatusNotFound, "Booking not found"},
		{"unavailable", failed("Failed to fetch members", model.Unavailable(errors.New("dial tcp: refused"))), http.StatusInternalServerError, "Failed to fetch members"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, body.Message)
		})
	}
}

// failingStore хранилище, у которого отвалилось соединение
type failingStore struct {
	*memory.Store
}

func (f failingStore) Ping(context.Context) error {
	return model.Unavailable(errors.New("connection refused"))
}

func (f failingStore) ListBookings(context.Context) ([]*model.Booking, error) {
	return nil, model.Unavailable(errors.New("connection refused"))
}

var _ repository.Store = failingStore{}

func TestStorageUnavailable(t *testing.T) {
	logger := zap.NewNop()
	store := failingStore{Store: memory.NewStore()}

	srv := NewServer(Services{
		Bookings: service.NewBookingService(store, store, nil, logger),
	}, store, nil, Options{}, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Failed to fetch bookings", body.Message)

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp, err = srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
