package cmacgmv1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/BearBump/CargoDesk/internal/integrations/carrier"
	"github.com/BearBump/CargoDesk/internal/models"
	"github.com/BearBump/CargoDesk/internal/normalize"
	"github.com/pkg/errors"
)

// Адаптер CMA CGM: basic-auth пара обменивается на короткоживущий
// токен, дальше тот же контракт, что у остальных адаптеров.
type Client struct {
	baseURL  string
	username string
	password string
	session  *carrier.AuthSession
	httpc    *http.Client
}

func New(creds carrier.Credentials) *Client {
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = "https://apis.cma-cgm.net"
	}
	return &Client{
		baseURL:  baseURL,
		username: creds.Username,
		password: creds.Password,
		session:  carrier.NewAuthSession(),
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Authenticate(ctx context.Context) error {
	if _, err := c.session.Token(ctx, c.refreshToken); err != nil {
		return errors.Wrapf(carrier.ErrAuthenticationFailed, "cma-cgm: %v", err)
	}
	return nil
}

func (c *Client) refreshToken(ctx context.Context) (string, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token?grant_type=client_credentials", nil)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "new request")
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", time.Time{}, fmt.Errorf("cma-cgm oauth http %d", resp.StatusCode)
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", time.Time{}, errors.Wrap(err, "decode token")
	}
	if tr.AccessToken == "" {
		return "", time.Time{}, errors.New("cma-cgm oauth: empty access_token")
	}
	return tr.AccessToken, time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second), nil
}

type trackResp struct {
	VesselName string `json:"vesselName"`
	Voyage     string `json:"voyageReference"`
	ETA        string `json:"estimatedArrivalDate"`
	Events     []struct {
		Date     string `json:"date"`
		Status   string `json:"status"`
		Location string `json:"location"`
	} `json:"events"`
}

func (c *Client) GetContainerStatus(ctx context.Context, containerNumber string) (carrier.ContainerStatus, error) {
	return c.track(ctx, "/tracking/v1/containers/"+url.PathEscape(containerNumber)+"/events")
}

func (c *Client) GetBookingStatus(ctx context.Context, bookingReference string) (carrier.ContainerStatus, error) {
	return c.track(ctx, "/tracking/v1/bookings/"+url.PathEscape(bookingReference)+"/events")
}

func (c *Client) track(ctx context.Context, path string) (carrier.ContainerStatus, error) {
	if !c.session.Valid() {
		return carrier.ContainerStatus{}, carrier.ErrNotAuthenticated
	}
	tok, err := c.session.Token(ctx, c.refreshToken)
	if err != nil {
		return carrier.ContainerStatus{}, errors.Wrapf(carrier.ErrAuthenticationFailed, "cma-cgm: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return carrier.ContainerStatus{}, errors.Wrap(err, "new request")
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return carrier.ContainerStatus{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.session.Invalidate()
		return carrier.ContainerStatus{}, errors.Wrap(carrier.ErrAuthenticationFailed, "cma-cgm http 401")
	case resp.StatusCode == http.StatusNotFound:
		return carrier.ContainerStatus{}, errors.Wrap(carrier.ErrNoEventsFound, "cma-cgm http 404")
	case resp.StatusCode/100 != 2:
		return carrier.ContainerStatus{}, fmt.Errorf("cma-cgm http %d", resp.StatusCode)
	}

	var tr trackResp
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return carrier.ContainerStatus{}, errors.Wrap(err, "decode")
	}
	if len(tr.Events) == 0 {
		return carrier.ContainerStatus{}, carrier.ErrNoEventsFound
	}

	events := make([]*models.TrackingEvent, 0, len(tr.Events))
	for _, e := range tr.Events {
		events = append(events, &models.TrackingEvent{
			Status:    normalize.FromCMACGM(e.Status),
			StatusRaw: e.Status,
			EventTime: parseTime(e.Date),
			Location:  strPtr(e.Location),
		})
	}

	last := events[len(events)-1]
	st := carrier.ContainerStatus{
		Status:    last.Status,
		StatusRaw: last.StatusRaw,
		Location:  last.Location,
		Vessel:    strPtr(tr.VesselName),
		Voyage:    strPtr(tr.Voyage),
		Events:    events,
	}
	if eta := parseTime(tr.ETA); !eta.IsZero() {
		st.EstimatedArrival = &eta
	}
	return st, nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	// CMA встречается и без зоны: "2024-07-02 19:16:00".
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
