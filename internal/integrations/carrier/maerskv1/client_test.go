package maerskv1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/BearBump/CargoDesk/internal/integrations/carrier"
	"github.com/BearBump/CargoDesk/internal/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const tokenPath = "/customer-identity/oauth/v2/access_token"

func newTestServer(t *testing.T, events http.HandlerFunc) (*httptest.Server, *int64) {
	t.Helper()
	var authCalls int64
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&authCalls, 1)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		require.Equal(t, "cid", r.PostForm.Get("client_id"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/track/v2/", events)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &authCalls
}

func TestClient_TrackFlow(t *testing.T) {
	srv, authCalls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.Equal(t, "cid", r.Header.Get("Consumer-Key"))
		require.Equal(t, "/track/v2/containers/MSKU1234567/events", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"vesselName":             "Emma Maersk",
			"voyageNumber":           "123W",
			"estimatedTimeOfArrival": "2026-02-01T10:00:00Z",
			"events": []map[string]any{
				{
					"eventDateTime": "2026-01-10T08:00:00Z",
					"activity":      "GATE-IN",
					"location":      map[string]string{"city": "Shanghai", "country": "China"},
				},
				{
					"eventDateTime": "2026-01-12T20:00:00Z",
					"activity":      "DEPARTURE",
					"location":      map[string]string{"city": "Shanghai", "country": "China"},
				},
			},
		})
	})

	c := New(carrier.Credentials{BaseURL: srv.URL, ClientID: "cid", ClientSecret: "cs"})
	ctx := context.Background()

	require.NoError(t, c.Authenticate(ctx))

	st, err := c.GetContainerStatus(ctx, "MSKU1234567")
	require.NoError(t, err)

	// Статус — по последнему событию.
	require.Equal(t, models.StatusDeparted, st.Status)
	require.Equal(t, "DEPARTURE", st.StatusRaw)
	require.Len(t, st.Events, 2)
	require.Equal(t, models.StatusAtOrigin, st.Events[0].Status)
	require.NotNil(t, st.Location)
	require.Equal(t, "Shanghai, China", *st.Location)
	require.NotNil(t, st.Vessel)
	require.Equal(t, "Emma Maersk", *st.Vessel)
	require.NotNil(t, st.EstimatedArrival)

	// Токен переиспользован, а не запрошен заново.
	require.EqualValues(t, 1, atomic.LoadInt64(authCalls))
}

func TestClient_NotAuthenticated(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("track endpoint must not be hit without a session")
	})

	c := New(carrier.Credentials{BaseURL: srv.URL, ClientID: "cid", ClientSecret: "cs"})

	_, err := c.GetContainerStatus(context.Background(), "MSKU1234567")
	require.True(t, errors.Is(err, carrier.ErrNotAuthenticated))
}

func TestClient_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := New(carrier.Credentials{BaseURL: srv.URL, ClientID: "cid", ClientSecret: "cs"})
	ctx := context.Background()
	require.NoError(t, c.Authenticate(ctx))

	_, err := c.GetContainerStatus(ctx, "MSKU0000000")
	require.True(t, errors.Is(err, carrier.ErrNoEventsFound))
}

func TestClient_EmptyEvents(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"events": []any{}})
	})

	c := New(carrier.Credentials{BaseURL: srv.URL, ClientID: "cid", ClientSecret: "cs"})
	ctx := context.Background()
	require.NoError(t, c.Authenticate(ctx))

	_, err := c.GetContainerStatus(ctx, "MSKU1234567")
	require.True(t, errors.Is(err, carrier.ErrNoEventsFound))
}

func TestClient_UnauthorizedInvalidatesSession(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c := New(carrier.Credentials{BaseURL: srv.URL, ClientID: "cid", ClientSecret: "cs"})
	ctx := context.Background()
	require.NoError(t, c.Authenticate(ctx))

	_, err := c.GetContainerStatus(ctx, "MSKU1234567")
	require.True(t, errors.Is(err, carrier.ErrAuthenticationFailed))

	// Сессия сброшена — следующий вызов без повторной аутентификации.
	_, err = c.GetContainerStatus(ctx, "MSKU1234567")
	require.True(t, errors.Is(err, carrier.ErrNotAuthenticated))
}

func TestClient_BookingPath(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/track/v2/bookings/ABC123456/events", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"events": []map[string]any{
				{"eventDateTime": "2026-01-10T08:00:00Z", "activity": "LOAD"},
			},
		})
	})

	c := New(carrier.Credentials{BaseURL: srv.URL, ClientID: "cid", ClientSecret: "cs"})
	ctx := context.Background()
	require.NoError(t, c.Authenticate(ctx))

	st, err := c.GetBookingStatus(ctx, "ABC123456")
	require.NoError(t, err)
	require.Equal(t, "LOAD", st.StatusRaw)
}
