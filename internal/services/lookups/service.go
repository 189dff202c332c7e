package lookups

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/BearBump/CargoDesk/internal/broker/messages"
	"github.com/BearBump/CargoDesk/internal/cache"
	"github.com/BearBump/CargoDesk/internal/models"
	"github.com/BearBump/CargoDesk/internal/services/resolver"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Resolver interface {
	Resolve(ctx context.Context, rawInput string, opts resolver.Options) (*resolver.Outcome, error)
	Classify(rawInput string) models.TrackingIdentifier
}

type Repository interface {
	RecordLookup(ctx context.Context, rec *models.LookupRecord) error
	ListRecent(ctx context.Context, limit, offset int) ([]*models.LookupRecord, error)
}

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Options — опции одного лукапа: опции резолвера плюс forceRefresh,
// который выкидывает закэшированный результат перед резолвом.
type Options struct {
	resolver.Options
	ForceRefresh bool `json:"forceRefresh,omitempty"`
}

// Service — бэкофисная обёртка вокруг резолвера: кэш успешных
// результатов, история лукапов в БД и аудит-событие в кафку. Сам
// резолвер персистентных ресурсов не трогает; вся обвязка здесь и вся
// она best-effort — ответ резолвера авторитетен, отказ обвязки только
// логируется.
type Service struct {
	resolver Resolver
	cache    cache.BytesCache
	repo     Repository
	producer Producer
	topic    string
	ttl      time.Duration
}

func New(r Resolver, c cache.BytesCache, repo Repository, producer Producer, topic string, ttl time.Duration) *Service {
	return &Service{resolver: r, cache: c, repo: repo, producer: producer, topic: topic, ttl: ttl}
}

func (s *Service) Classify(rawInput string) models.TrackingIdentifier {
	return s.resolver.Classify(rawInput)
}

func (s *Service) Lookup(ctx context.Context, rawInput string, opts Options) (*resolver.Outcome, error) {
	if rawInput == "" {
		return nil, errors.New("identifier is required")
	}

	id := s.resolver.Classify(rawInput)

	// Кэшируем только дефолтный порядок источников: preferScraping и
	// carrierHint меняют вероятный ответ, такое не переиспользуем.
	cacheable := s.cache != nil && s.ttl > 0 && id.IsValidFormat &&
		!opts.PreferScraping && opts.CarrierHint == ""
	key := cacheKey(id.CleanNumber)

	if cacheable && opts.ForceRefresh {
		if err := s.cache.Del(ctx, key); err != nil {
			slog.Warn("lookup cache del", "key", key, "error", err.Error())
		}
	}
	if cacheable && !opts.ForceRefresh {
		if b, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var out resolver.Outcome
			if json.Unmarshal(b, &out) == nil && out.Success {
				// Попадание в кэш — тоже лукап: история и аудит пишутся
				// на каждый вызов, а не только на живой резолв.
				s.record(ctx, rawInput, &out)
				return &out, nil
			}
		}
	}

	out, err := s.resolver.Resolve(ctx, rawInput, opts.Options)
	if err != nil {
		return nil, err
	}

	if cacheable && out.Success {
		if b, err := json.Marshal(out); err == nil {
			_ = s.cache.Set(ctx, key, b, s.ttl)
		}
	}

	s.record(ctx, rawInput, out)
	return out, nil
}

func (s *Service) RecentLookups(ctx context.Context, limit, offset int) ([]*models.LookupRecord, error) {
	if s.repo == nil {
		return []*models.LookupRecord{}, nil
	}
	return s.repo.ListRecent(ctx, limit, offset)
}

// record пишет историю и публикует аудит-событие. Обе операции
// best-effort.
func (s *Service) record(ctx context.Context, rawInput string, out *resolver.Outcome) {
	rec := &models.LookupRecord{
		PublicID:    uuid.New(),
		RawInput:    rawInput,
		CleanNumber: out.Identifier.CleanNumber,
		Kind:        out.Identifier.Kind,
		CarrierCode: out.Identifier.CarrierCode,
		Success:     out.Success,
		ErrorCount:  int32(len(out.Errors)),
		CreatedAt:   time.Now().UTC(),
	}
	if out.Result != nil {
		rec.Status = &out.Result.Status
		rec.SourceName = &out.Result.SourceName
	}
	if out.ErrorKind != "" {
		rec.ErrorKind = &out.ErrorKind
	}

	if s.repo != nil {
		if err := s.repo.RecordLookup(ctx, rec); err != nil {
			slog.Warn("record lookup", "error", err.Error())
		}
	}

	if s.producer != nil && s.topic != "" {
		msg := messages.LookupResolved{
			LookupID:    rec.PublicID.String(),
			RawInput:    rawInput,
			CleanNumber: rec.CleanNumber,
			Kind:        rec.Kind,
			CarrierCode: rec.CarrierCode,
			Success:     rec.Success,
			ErrorCount:  len(out.Errors),
			ResolvedAt:  rec.CreatedAt,
		}
		if rec.Status != nil {
			msg.Status = *rec.Status
		}
		if rec.SourceName != nil {
			msg.SourceName = *rec.SourceName
		}
		if rec.ErrorKind != nil {
			msg.ErrorKind = *rec.ErrorKind
		}
		b, err := json.Marshal(msg)
		if err == nil {
			err = s.producer.Publish(ctx, s.topic, []byte(rec.CleanNumber), b)
		}
		if err != nil {
			slog.Warn("publish lookup.resolved", "error", err.Error())
		}
	}
}

func cacheKey(cleanNumber string) string {
	return fmt.Sprintf("lookup:%s:result", cleanNumber)
}
