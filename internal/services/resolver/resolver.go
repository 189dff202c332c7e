package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BearBump/CargoDesk/internal/classify"
	"github.com/BearBump/CargoDesk/internal/integrations/carrier"
	"github.com/BearBump/CargoDesk/internal/models"
	"github.com/BearBump/CargoDesk/internal/registry"
	"github.com/pkg/errors"
)

type Factory interface {
	HasValidCredentials(code string) bool
	Credentials(code string) (carrier.Credentials, error)
	Client(code string, creds carrier.Credentials) (carrier.Client, error)
}

type ScrapeProvider interface {
	Get(ctx context.Context, carrierCode, cleanNumber string) (carrier.ContainerStatus, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

// Resolver — оркестратор резолва трекинг-номера: классификация, опрос
// источников по порядку, первый успех выигрывает, на полном провале —
// синтез fallback-ссылок.
//
// Источники опрашиваются строго последовательно, не параллельно:
// ранний успех должен отсечь расходы на поздние источники (скрейп
// дорог и лимитирован). Каждый источник пробуется не более одного
// раза за вызов; повтор — это новый вызов Resolve.
type Resolver struct {
	reg        *registry.Registry
	classifier *classify.Classifier
	factory    Factory
	scraper    ScrapeProvider
	rl         RateLimiter

	apiTimeout          time.Duration
	scrapeTimeout       time.Duration
	scrapeRatePerMinute int64

	startedAtUnixNano  int64
	totalResolved      atomic.Int64
	totalSucceeded     atomic.Int64
	totalExhausted     atomic.Int64
	totalInvalidFormat atomic.Int64
	directHits         atomic.Int64
	scrapeHits         atomic.Int64
	inFlight           atomic.Int64
	lastErrorMu        sync.Mutex
	lastError          string
}

func New(reg *registry.Registry, factory Factory, scraper ScrapeProvider) *Resolver {
	return &Resolver{
		reg:               reg,
		classifier:        classify.New(reg),
		factory:           factory,
		scraper:           scraper,
		apiTimeout:        5 * time.Second,
		scrapeTimeout:     45 * time.Second,
		startedAtUnixNano: time.Now().UTC().UnixNano(),
	}
}

func (r *Resolver) WithTimeouts(api, scrape time.Duration) *Resolver {
	if api > 0 {
		r.apiTimeout = api
	}
	if scrape > 0 {
		r.scrapeTimeout = scrape
	}
	return r
}

// WithScrapeRateLimit включает пер-перевозчичный лимит обращений к
// scrape-провайдеру (окно минута). Отклонённое окно — обычный отказ
// источника, цепочка идёт дальше.
func (r *Resolver) WithScrapeRateLimit(rl RateLimiter, perMinute int64) *Resolver {
	r.rl = rl
	if perMinute > 0 {
		r.scrapeRatePerMinute = perMinute
	}
	return r
}

// Classify — классификация без опроса источников (для проверки форм).
func (r *Resolver) Classify(rawInput string) models.TrackingIdentifier {
	return r.classifier.Classify(rawInput)
}

// Resolve прогоняет полный цикл. Ошибка возвращается только при отмене
// контекста; все доменные отказы живут внутри Outcome.
func (r *Resolver) Resolve(ctx context.Context, rawInput string, opts Options) (*Outcome, error) {
	r.totalResolved.Add(1)
	r.inFlight.Add(1)
	defer r.inFlight.Add(-1)

	id := r.classifier.Classify(rawInput)

	// Невалидный формат — fail fast, ни одного сетевого вызова и никаких
	// fallback-ссылок: "мы не узнали номер" и "мы всё попробовали" для
	// пользователя принципиально разные исходы.
	if !id.IsValidFormat {
		r.totalInvalidFormat.Add(1)
		return &Outcome{
			Identifier: id,
			ErrorKind:  ErrKindInvalidFormat,
		}, nil
	}

	carrierCode := effectiveCarrier(id, opts, r.reg)
	sources, probeErrs := r.buildSources(carrierCode, opts)

	if len(sources) == 0 && len(probeErrs) == 0 {
		// Перевозчик не определён или у него нет ни адаптера, ни скрейпа.
		probeErrs = append(probeErrs, SourceError{
			Kind:    ErrKindUnsupportedCarrier,
			Carrier: carrierCode,
			Message: "no programmatic source for this identifier",
		})
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			// Отмена снаружи обрывает цепочку, не переходя к следующему
			// источнику.
			return nil, err
		}

		result, err := r.probe(ctx, src, id)
		if err == nil {
			// Первый успех закрывает вызов: остальные источники не
			// опрашиваются, даже если дали бы больше данных.
			r.totalSucceeded.Add(1)
			if src.Kind == SourceDirectAPI {
				r.directHits.Add(1)
			} else {
				r.scrapeHits.Add(1)
			}
			return &Outcome{Identifier: id, Success: true, Result: result}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		se := SourceError{
			Source:  src.Kind,
			Carrier: src.Carrier,
			Kind:    errKind(err),
			Message: err.Error(),
		}
		probeErrs = append(probeErrs, se)
		r.noteError(se)
		slog.Warn("source probe failed",
			"source", src.Kind, "carrier", src.Carrier, "kind", se.Kind, "error", err.Error())
	}

	r.totalExhausted.Add(1)
	return &Outcome{
		Identifier: id,
		ErrorKind:  ErrKindAllSourcesExhausted,
		Errors:     probeErrs,
		Fallbacks:  r.fallbackOptions(id, carrierCode),
	}, nil
}

// probe опрашивает один источник под собственным дедлайном. Таймаут —
// обычный отказ источника, не фатальная ошибка вызова.
func (r *Resolver) probe(ctx context.Context, src Source, id models.TrackingIdentifier) (*models.CanonicalTrackingResult, error) {
	switch src.Kind {
	case SourceDirectAPI:
		return r.probeDirectAPI(ctx, src.Carrier, id)
	case SourceScrapeProvider:
		return r.probeScrape(ctx, src.Carrier, id)
	}
	return nil, errors.Errorf("unknown source kind %q", src.Kind)
}

func (r *Resolver) probeDirectAPI(ctx context.Context, code string, id models.TrackingIdentifier) (*models.CanonicalTrackingResult, error) {
	creds, err := r.factory.Credentials(code)
	if err != nil {
		return nil, err
	}
	client, err := r.factory.Client(code, creds)
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, r.apiTimeout)
	defer cancel()

	if err := client.Authenticate(cctx); err != nil {
		return nil, err
	}

	var st carrier.ContainerStatus
	if id.Kind == models.KindContainer {
		st, err = client.GetContainerStatus(cctx, id.CleanNumber)
	} else {
		st, err = client.GetBookingStatus(cctx, id.CleanNumber)
	}
	if err != nil {
		return nil, err
	}
	return toResult(id, st, strings.ToLower(code)+"_api"), nil
}

func (r *Resolver) probeScrape(ctx context.Context, code string, id models.TrackingIdentifier) (*models.CanonicalTrackingResult, error) {
	if r.rl != nil && r.scrapeRatePerMinute > 0 {
		key := fmt.Sprintf("rl:scrape:%s:%s", code, time.Now().UTC().Format("200601021504"))
		allowed, n, err := r.rl.Allow(ctx, key, r.scrapeRatePerMinute, 70*time.Second)
		if err == nil && !allowed {
			return nil, errors.Wrapf(errScrapeRateLimited, "carrier %s, count %d", code, n)
		}
		// Ошибка самого лимитера не блокирует попытку.
	}

	cctx, cancel := context.WithTimeout(ctx, r.scrapeTimeout)
	defer cancel()

	st, err := r.scraper.Get(cctx, code, id.CleanNumber)
	if err != nil {
		return nil, err
	}
	return toResult(id, st, "scrape_provider"), nil
}

// fallbackOptions: официальная ссылка перевозчика (если он определён)
// плюс один-два универсальных трекера. Выдаётся только при полном
// провале, в успешный результат никогда не подмешивается.
func (r *Resolver) fallbackOptions(id models.TrackingIdentifier, carrierCode string) []models.FallbackOption {
	var out []models.FallbackOption
	if carrierCode != "" {
		if p, ok := r.reg.LookupByCode(carrierCode); ok && p.TrackingURLTemplate != "" {
			out = append(out, models.FallbackOption{
				CarrierDisplayName: p.DisplayName,
				PublicURL:          registry.TrackingURL(p.TrackingURLTemplate, id.CleanNumber),
				Kind:               models.FallbackWebsite,
			})
		}
	}
	for _, g := range r.reg.GenericTrackers() {
		out = append(out, models.FallbackOption{
			CarrierDisplayName: g.DisplayName,
			PublicURL:          registry.TrackingURL(g.URLTemplate, id.CleanNumber),
			Kind:               models.FallbackGenericTracker,
		})
	}
	return out
}

func toResult(id models.TrackingIdentifier, st carrier.ContainerStatus, sourceName string) *models.CanonicalTrackingResult {
	status := st.Status
	if status == "" {
		status = models.StatusUnknown
	}
	return &models.CanonicalTrackingResult{
		Identifier:       id,
		Status:           status,
		Location:         st.Location,
		Vessel:           st.Vessel,
		Voyage:           st.Voyage,
		EstimatedArrival: st.EstimatedArrival,
		Timeline:         st.Events,
		SourceName:       sourceName,
		IsLiveData:       true,
		RetrievedAt:      time.Now().UTC(),
	}
}

// effectiveCarrier: явная подсказка вызывающего важнее угаданного при
// классификации кода, но только если такой перевозчик вообще известен.
func effectiveCarrier(id models.TrackingIdentifier, opts Options, reg *registry.Registry) string {
	if opts.CarrierHint != "" {
		if p, ok := reg.LookupByCode(opts.CarrierHint); ok {
			return p.Code
		}
	}
	if id.CarrierCode != nil {
		return *id.CarrierCode
	}
	return ""
}

func errKind(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrKindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return ErrKindTimeout
	case errors.Is(err, carrier.ErrNotAuthenticated), errors.Is(err, carrier.ErrAuthenticationFailed):
		return ErrKindAuthFailed
	case errors.Is(err, carrier.ErrNoEventsFound):
		return ErrKindNoEvents
	case errors.Is(err, carrier.ErrMissingCredentials):
		return ErrKindMissingCredentials
	case errors.Is(err, carrier.ErrUnsupportedCarrier):
		return ErrKindUnsupportedCarrier
	case errors.Is(err, errScrapeRateLimited):
		return ErrKindRateLimited
	}
	return ErrKindNetwork
}

var errScrapeRateLimited = errors.New("scrape provider rate limited")

type Stats struct {
	StartedAt          time.Time `json:"startedAt"`
	TotalResolved      int64     `json:"totalResolved"`
	TotalSucceeded     int64     `json:"totalSucceeded"`
	TotalExhausted     int64     `json:"totalExhausted"`
	TotalInvalidFormat int64     `json:"totalInvalidFormat"`
	DirectHits         int64     `json:"directHits"`
	ScrapeHits         int64     `json:"scrapeHits"`
	InFlight           int64     `json:"inFlight"`
	LastError          string    `json:"lastError,omitempty"`
}

func (r *Resolver) Stats() Stats {
	st := Stats{
		StartedAt:          time.Unix(0, r.startedAtUnixNano).UTC(),
		TotalResolved:      r.totalResolved.Load(),
		TotalSucceeded:     r.totalSucceeded.Load(),
		TotalExhausted:     r.totalExhausted.Load(),
		TotalInvalidFormat: r.totalInvalidFormat.Load(),
		DirectHits:         r.directHits.Load(),
		ScrapeHits:         r.scrapeHits.Load(),
		InFlight:           r.inFlight.Load(),
	}
	r.lastErrorMu.Lock()
	st.LastError = r.lastError
	r.lastErrorMu.Unlock()
	return st
}

func (r *Resolver) noteError(se SourceError) {
	r.lastErrorMu.Lock()
	r.lastError = fmt.Sprintf("%s/%s: %s", se.Source, se.Carrier, se.Message)
	r.lastErrorMu.Unlock()
}
