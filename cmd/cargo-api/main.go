package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BearBump/CargoDesk/config"
	"github.com/BearBump/CargoDesk/internal/api/resolveapi"
	"github.com/BearBump/CargoDesk/internal/broker/kafka"
	"github.com/BearBump/CargoDesk/internal/cache/rediscache"
	"github.com/BearBump/CargoDesk/internal/integrations/carrier"
	"github.com/BearBump/CargoDesk/internal/integrations/carrier/factory"
	"github.com/BearBump/CargoDesk/internal/integrations/scraper"
	"github.com/BearBump/CargoDesk/internal/registry"
	"github.com/BearBump/CargoDesk/internal/services/lookups"
	"github.com/BearBump/CargoDesk/internal/services/resolver"
	"github.com/BearBump/CargoDesk/internal/storage/pglookups"
	"github.com/joho/godotenv"
)

func main() {
	// .env удобен локально; в проде секреты приходят обычным окружением.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	httpAddr := cfg.CargoDesk.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	topic := cfg.Kafka.LookupResolvedTopicName
	if topic == "" {
		topic = "lookup.resolved"
	}
	resultTTL := time.Duration(cfg.CargoDesk.ResultTTLSeconds) * time.Second
	if resultTTL <= 0 {
		resultTTL = 10 * time.Minute
	}
	apiTimeout := time.Duration(cfg.CargoDesk.APITimeoutSeconds) * time.Second
	if apiTimeout <= 0 {
		apiTimeout = 5 * time.Second
	}
	scrapeTimeout := time.Duration(cfg.CargoDesk.ScrapeTimeoutSeconds) * time.Second
	if scrapeTimeout <= 0 {
		scrapeTimeout = 45 * time.Second
	}
	scrapeRate := int64(cfg.CargoDesk.ScrapeRateLimitPerMinute)
	if scrapeRate <= 0 {
		scrapeRate = 10
	}

	sslMode := cfg.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, sslMode)
	st := mustOpenPostgresWithRetry(connString, 60*time.Second)
	defer st.Close()

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	rc := rediscache.New(redisAddr)
	rl := rediscache.NewRateLimiter(redisAddr)

	brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
	producer := kafka.NewProducer(brokers)
	defer func() { _ = producer.Close() }()

	reg := registry.Default()

	creds := make(map[string]carrier.Credentials, len(cfg.Carriers))
	for code, cs := range cfg.Carriers {
		creds[strings.ToUpper(code)] = carrier.Credentials{
			BaseURL:      cs.BaseURL,
			ClientID:     cs.ClientID,
			ClientSecret: cs.ClientSecret,
			Username:     cs.Username,
			Password:     cs.Password,
		}
	}
	f := factory.New(creds, cfg.CargoDesk.CarrierFakeMode)

	// Таймаут http-клиента скрейпера чуть больше дедлайна опроса, чтобы
	// отсечкой всегда был контекст резолвера.
	sc := scraper.New(cfg.CargoDesk.ScraperBaseURL, cfg.CargoDesk.ScraperAPIKey, scrapeTimeout+15*time.Second)

	res := resolver.New(reg, f, sc).
		WithTimeouts(apiTimeout, scrapeTimeout).
		WithScrapeRateLimit(rl, scrapeRate)

	svc := lookups.New(res, rc, st, producer, topic, resultTTL)
	api := resolveapi.New(svc, reg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runAPIServer(ctx, apiServerOpts{
		httpAddr: httpAddr,
		api:      api,
		stats:    res.Stats,
	}); err != nil && err != context.Canceled {
		panic(err)
	}
}

func mustOpenPostgresWithRetry(connString string, wait time.Duration) *pglookups.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pglookups.New(connString)
		if err == nil {
			return st
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}
