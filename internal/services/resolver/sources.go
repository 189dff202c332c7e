package resolver

import (
	"github.com/BearBump/CargoDesk/internal/models"
)

// Виды источников. Порядок их опроса — явная структура данных
// (срез Source), а не порядок веток в коде.
const (
	SourceDirectAPI      = "DIRECT_API"
	SourceScrapeProvider = "SCRAPE_PROVIDER"
)

// Виды отказов, видимые вызывающей стороне.
const (
	ErrKindInvalidFormat       = "INVALID_FORMAT"
	ErrKindUnsupportedCarrier  = "UNSUPPORTED_CARRIER"
	ErrKindMissingCredentials  = "MISSING_CREDENTIALS"
	ErrKindAuthFailed          = "AUTHENTICATION_FAILED"
	ErrKindNoEvents            = "NO_EVENTS_FOUND"
	ErrKindTimeout             = "TIMEOUT"
	ErrKindNetwork             = "NETWORK_ERROR"
	ErrKindRateLimited         = "RATE_LIMITED"
	ErrKindAllSourcesExhausted = "ALL_SOURCES_EXHAUSTED"
)

// Source — один кандидат на получение живых данных.
type Source struct {
	Kind    string `json:"kind"`
	Carrier string `json:"carrier"`
}

// Options — опции вызова resolve.
type Options struct {
	PreferScraping bool   `json:"preferScraping,omitempty"`
	CarrierHint    string `json:"carrierHint,omitempty"`
}

// SourceError — один зафиксированный отказ источника. Отказы
// накапливаются и целиком отдаются в исходе, сырыми наружу не летят.
type SourceError struct {
	Source  string `json:"source"`
	Carrier string `json:"carrier,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Outcome — исход резолва: ровно одна из двух форм. Либо Success=true
// и заполнен Result, либо Success=false с ErrorKind, накопленными
// отказами и (для ALL_SOURCES_EXHAUSTED) fallback-ссылками. Смешанной
// формы не бывает.
type Outcome struct {
	Identifier models.TrackingIdentifier       `json:"identifier"`
	Success    bool                            `json:"success"`
	Result     *models.CanonicalTrackingResult `json:"result,omitempty"`
	ErrorKind  string                          `json:"errorKind,omitempty"`
	Errors     []SourceError                   `json:"errors,omitempty"`
	Fallbacks  []models.FallbackOption         `json:"fallbacks,omitempty"`
}

// buildSources строит упорядоченный список кандидатов для перевозчика.
// По умолчанию прямой API раньше скрейпа; preferScraping или явный
// carrierHint переставляют скрейп вперёд. Прямой API попадает в список
// только при валидных секретах — пропуск фиксируется вызывающим кодом
// как MISSING_CREDENTIALS, без сетевого вызова.
func (r *Resolver) buildSources(carrierCode string, opts Options) (sources []Source, skipped []SourceError) {
	if carrierCode == "" {
		return nil, nil
	}

	var direct, scrape *Source
	if r.factory != nil && adapterExists(r.factory, carrierCode) {
		if r.factory.HasValidCredentials(carrierCode) {
			direct = &Source{Kind: SourceDirectAPI, Carrier: carrierCode}
		} else {
			skipped = append(skipped, SourceError{
				Source:  SourceDirectAPI,
				Carrier: carrierCode,
				Kind:    ErrKindMissingCredentials,
				Message: "credentials absent or placeholder",
			})
		}
	}
	if r.scraper != nil {
		if p, ok := r.reg.LookupByCode(carrierCode); ok && p.ScrapeProviderAvailable {
			scrape = &Source{Kind: SourceScrapeProvider, Carrier: carrierCode}
		}
	}

	if opts.PreferScraping || opts.CarrierHint != "" {
		sources = appendSource(sources, scrape, direct)
	} else {
		sources = appendSource(sources, direct, scrape)
	}
	return sources, skipped
}

func appendSource(dst []Source, ss ...*Source) []Source {
	for _, s := range ss {
		if s != nil {
			dst = append(dst, *s)
		}
	}
	return dst
}

// adapterExists: есть ли у перевозчика программный адаптер в принципе
// (независимо от секретов).
func adapterExists(f Factory, code string) bool {
	_, err := f.Credentials(code)
	return err == nil
}
