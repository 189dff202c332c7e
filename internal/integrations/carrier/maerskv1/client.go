package maerskv1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BearBump/CargoDesk/internal/integrations/carrier"
	"github.com/BearBump/CargoDesk/internal/models"
	"github.com/BearBump/CargoDesk/internal/normalize"
	"github.com/pkg/errors"
)

// Адаптер трекинг-API Maersk: OAuth2 client credentials, токен живёт в
// AuthSession до истечения.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	session      *carrier.AuthSession
	httpc        *http.Client
}

func New(creds carrier.Credentials) *Client {
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = "https://api.maersk.com"
	}
	return &Client{
		baseURL:      baseURL,
		clientID:     creds.ClientID,
		clientSecret: creds.ClientSecret,
		session:      carrier.NewAuthSession(),
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (c *Client) Authenticate(ctx context.Context) error {
	if _, err := c.session.Token(ctx, c.refreshToken); err != nil {
		return errors.Wrapf(carrier.ErrAuthenticationFailed, "maersk: %v", err)
	}
	return nil
}

func (c *Client) refreshToken(ctx context.Context) (string, time.Time, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/customer-identity/oauth/v2/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "new request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", time.Time{}, fmt.Errorf("maersk oauth http %d", resp.StatusCode)
	}

	var tr tokenResp
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", time.Time{}, errors.Wrap(err, "decode token")
	}
	if tr.AccessToken == "" {
		return "", time.Time{}, errors.New("maersk oauth: empty access_token")
	}
	return tr.AccessToken, time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second), nil
}

type trackResp struct {
	VesselName             string `json:"vesselName"`
	VoyageNumber           string `json:"voyageNumber"`
	EstimatedTimeOfArrival string `json:"estimatedTimeOfArrival"`
	Events                 []struct {
		EventDateTime string `json:"eventDateTime"`
		Activity      string `json:"activity"`
		Location      struct {
			City    string `json:"city"`
			Country string `json:"country"`
		} `json:"location"`
	} `json:"events"`
}

func (c *Client) GetContainerStatus(ctx context.Context, containerNumber string) (carrier.ContainerStatus, error) {
	return c.track(ctx, "/track/v2/containers/"+url.PathEscape(containerNumber)+"/events")
}

func (c *Client) GetBookingStatus(ctx context.Context, bookingReference string) (carrier.ContainerStatus, error) {
	return c.track(ctx, "/track/v2/bookings/"+url.PathEscape(bookingReference)+"/events")
}

func (c *Client) track(ctx context.Context, path string) (carrier.ContainerStatus, error) {
	if !c.session.Valid() {
		return carrier.ContainerStatus{}, carrier.ErrNotAuthenticated
	}
	tok, err := c.session.Token(ctx, c.refreshToken)
	if err != nil {
		return carrier.ContainerStatus{}, errors.Wrapf(carrier.ErrAuthenticationFailed, "maersk: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return carrier.ContainerStatus{}, errors.Wrap(err, "new request")
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Consumer-Key", c.clientID)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return carrier.ContainerStatus{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// Токен отозван раньше заявленного expiry — сбрасываем.
		c.session.Invalidate()
		return carrier.ContainerStatus{}, errors.Wrap(carrier.ErrAuthenticationFailed, "maersk http 401")
	case resp.StatusCode == http.StatusNotFound:
		return carrier.ContainerStatus{}, errors.Wrap(carrier.ErrNoEventsFound, "maersk http 404")
	case resp.StatusCode/100 != 2:
		return carrier.ContainerStatus{}, fmt.Errorf("maersk http %d", resp.StatusCode)
	}

	var tr trackResp
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return carrier.ContainerStatus{}, errors.Wrap(err, "decode")
	}
	if len(tr.Events) == 0 {
		return carrier.ContainerStatus{}, carrier.ErrNoEventsFound
	}

	// Maersk отдаёт события хронологически; порядок сохраняем как есть.
	events := make([]*models.TrackingEvent, 0, len(tr.Events))
	for _, e := range tr.Events {
		ev := &models.TrackingEvent{
			Status:    normalize.FromMaersk(e.Activity),
			StatusRaw: e.Activity,
			EventTime: parseTime(e.EventDateTime),
			Location:  locPtr(e.Location.City, e.Location.Country),
		}
		events = append(events, ev)
	}

	last := events[len(events)-1]
	st := carrier.ContainerStatus{
		Status:    last.Status,
		StatusRaw: last.StatusRaw,
		Location:  last.Location,
		Vessel:    strPtr(tr.VesselName),
		Voyage:    strPtr(tr.VoyageNumber),
		Events:    events,
	}
	if eta := parseTime(tr.EstimatedTimeOfArrival); !eta.IsZero() {
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
	return time.Time{}
}

func locPtr(city, country string) *string {
	switch {
	case city == "" && country == "":
		return nil
	case country == "":
		return &city
	case city == "":
		return &country
	}
	s := city + ", " + country
	return &s
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
