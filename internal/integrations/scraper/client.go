package scraper

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

// Клиент scrape-провайдера: внешний сервис с headless-браузерами,
// который ходит на сайты перевозчиков. Для нас — чёрный ящик с тем же
// выходным контрактом, что у адаптеров. Ответы медленные (десятки
// секунд), поэтому таймаут клиента заметно больше, чем у API-адаптеров.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:9100"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc: &http.Client{
			Timeout: timeout,
		},
	}
}

type scrapeResp struct {
	Carrier string `json:"carrier"`
	Number  string `json:"number"`
	Status  string `json:"status"`
	Vessel  string `json:"vessel,omitempty"`
	ETA     string `json:"eta,omitempty"`
	Events  []struct {
		Time        string `json:"time"`
		Status      string `json:"status"`
		Location    string `json:"location,omitempty"`
		Description string `json:"description,omitempty"`
	} `json:"events"`
}

// Get запрашивает скрейп по (перевозчик, чистый номер).
func (c *Client) Get(ctx context.Context, carrierCode, cleanNumber string) (carrier.ContainerStatus, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return carrier.ContainerStatus{}, errors.Wrap(err, "parse base url")
	}
	u.Path = fmt.Sprintf("/v1/scrape/%s/%s", url.PathEscape(carrierCode), url.PathEscape(cleanNumber))
	q := u.Query()
	if c.apiKey != "" {
		q.Set("apiKey", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return carrier.ContainerStatus{}, errors.Wrap(err, "new request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return carrier.ContainerStatus{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return carrier.ContainerStatus{}, errors.Wrap(carrier.ErrNoEventsFound, "scraper http 404")
	case resp.StatusCode == http.StatusTooManyRequests:
		return carrier.ContainerStatus{}, fmt.Errorf("scraper rate limit (429)")
	case resp.StatusCode/100 != 2:
		return carrier.ContainerStatus{}, fmt.Errorf("scraper http %d", resp.StatusCode)
	}

	var r scrapeResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return carrier.ContainerStatus{}, errors.Wrap(err, "decode")
	}
	if len(r.Events) == 0 {
		return carrier.ContainerStatus{}, carrier.ErrNoEventsFound
	}

	events := make([]*models.TrackingEvent, 0, len(r.Events))
	for _, e := range r.Events {
		raw := e.Status
		if raw == "" {
			raw = e.Description
		}
		events = append(events, &models.TrackingEvent{
			Status:    normalize.FromScrape(raw),
			StatusRaw: raw,
			EventTime: parseTime(e.Time),
			Location:  strPtr(e.Location),
		})
	}

	last := events[len(events)-1]
	st := carrier.ContainerStatus{
		Status:    normalize.FromScrape(r.Status),
		StatusRaw: r.Status,
		Location:  last.Location,
		Vessel:    strPtr(r.Vessel),
		Events:    events,
	}
	if r.Status == "" {
		st.Status = last.Status
		st.StatusRaw = last.StatusRaw
	}
	if eta := parseTime(r.ETA); !eta.IsZero() {
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

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
