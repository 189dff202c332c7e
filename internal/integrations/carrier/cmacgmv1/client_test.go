package cmacgmv1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BearBump/CargoDesk/internal/integrations/carrier"
	"github.com/BearBump/CargoDesk/internal/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, events http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "user", u)
		require.Equal(t, "pass", p)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "cma-tok",
			"expires_in":   1800,
		})
	})
	mux.HandleFunc("/tracking/v1/", events)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_TrackFlow(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer cma-tok", r.Header.Get("Authorization"))
		require.Equal(t, "/tracking/v1/containers/CMAU7654321/events", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"vesselName":           "CMA CGM Marco Polo",
			"voyageReference":      "0FL4RW1MA",
			"estimatedArrivalDate": "2026-03-05T06:00:00Z",
			"events": []map[string]string{
				{"date": "2026-02-01T10:00:00Z", "status": "LOADED ON BOARD", "location": "Le Havre"},
				{"date": "2026-02-10 19:16:00", "status": "TRANSHIPMENT", "location": "Tanger Med"},
			},
		})
	})

	c := New(carrier.Credentials{BaseURL: srv.URL, Username: "user", Password: "pass"})
	ctx := context.Background()
	require.NoError(t, c.Authenticate(ctx))

	st, err := c.GetContainerStatus(ctx, "CMAU7654321")
	require.NoError(t, err)
	require.Equal(t, models.StatusInTransit, st.Status)
	require.Equal(t, "TRANSHIPMENT", st.StatusRaw)
	require.Len(t, st.Events, 2)
	require.Equal(t, models.StatusDeparted, st.Events[0].Status)

	// Дата без зоны парсится как UTC.
	require.Equal(t, time.Date(2026, 2, 10, 19, 16, 0, 0, time.UTC), st.Events[1].EventTime)
	require.NotNil(t, st.EstimatedArrival)
}

func TestClient_NotAuthenticated(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("track endpoint must not be hit without a session")
	})

	c := New(carrier.Credentials{BaseURL: srv.URL, Username: "user", Password: "pass"})

	_, err := c.GetBookingStatus(context.Background(), "NBO1234567")
	require.True(t, errors.Is(err, carrier.ErrNotAuthenticated))
}

func TestClient_NotFound(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := New(carrier.Credentials{BaseURL: srv.URL, Username: "user", Password: "pass"})
	ctx := context.Background()
	require.NoError(t, c.Authenticate(ctx))

	_, err := c.GetContainerStatus(ctx, "CMAU0000000")
	require.True(t, errors.Is(err, carrier.ErrNoEventsFound))
}
