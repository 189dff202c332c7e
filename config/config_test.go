package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
database:
  host: "localhost"
  port: 5432
  username: "u"
  password: "p"
  name: "db"
kafka:
  host: "localhost"
  port: 9092
  lookup_resolved_topic_name: "lookup.resolved"
redis:
  host: "localhost"
  port: 6379
cargodesk:
  http_addr: ":8080"
  result_ttl_seconds: 600
  api_timeout_seconds: 5
  scrape_timeout_seconds: 45
  scrape_rate_limit_per_minute: 10
  scraper_base_url: "http://localhost:9100"
  carrier_fake_mode: true
carriers:
  MAERSK:
    client_id: "cid"
    client_secret: "cs"
  CMA_CGM:
    username: "u"
    password: "p"
`), 0o600))

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, "u", cfg.Database.Username)
	require.Equal(t, "lookup.resolved", cfg.Kafka.LookupResolvedTopicName)
	require.Equal(t, 6379, cfg.Redis.Port)
	require.Equal(t, ":8080", cfg.CargoDesk.HTTPAddr)
	require.Equal(t, 45, cfg.CargoDesk.ScrapeTimeoutSeconds)
	require.True(t, cfg.CargoDesk.CarrierFakeMode)
	require.Equal(t, "cid", cfg.Carriers["MAERSK"].ClientID)
	require.Equal(t, "p", cfg.Carriers["CMA_CGM"].Password)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
