package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Database  DatabaseConfig            `yaml:"database"`
	Kafka     KafkaConfig               `yaml:"kafka"`
	Redis     RedisConfig               `yaml:"redis"`
	CargoDesk CargoDeskConfig           `yaml:"cargodesk"`
	Carriers  map[string]CarrierSecrets `yaml:"carriers"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                    string `yaml:"host"`
	Port                    int    `yaml:"port"`
	LookupResolvedTopicName string `yaml:"lookup_resolved_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type CargoDeskConfig struct {
	HTTPAddr         string `yaml:"http_addr"`
	ResultTTLSeconds int    `yaml:"result_ttl_seconds"`

	// Таймауты на один опрос источника. API-адаптеры отвечают за
	// секунды, scrape-провайдер — за десятки секунд.
	APITimeoutSeconds    int `yaml:"api_timeout_seconds"`
	ScrapeTimeoutSeconds int `yaml:"scrape_timeout_seconds"`

	ScrapeRateLimitPerMinute int `yaml:"scrape_rate_limit_per_minute"`

	ScraperBaseURL string `yaml:"scraper_base_url"`
	ScraperAPIKey  string `yaml:"scraper_api_key"`

	// dev-режим: все адаптеры подменяются детерминированной заглушкой.
	CarrierFakeMode bool `yaml:"carrier_fake_mode"`
}

// CarrierSecrets — секреты одного перевозчика в yaml (ключ секции —
// код перевозчика). Любое поле можно переопределить env-переменной
// CARGODESK_<CODE>_<FIELD>.
type CarrierSecrets struct {
	BaseURL      string `yaml:"base_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}
