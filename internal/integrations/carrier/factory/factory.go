package factory

import (
	"os"
	"strings"
	"sync"

	"github.com/BearBump/CargoDesk/internal/integrations/carrier"
	"github.com/BearBump/CargoDesk/internal/integrations/carrier/cmacgmv1"
	"github.com/BearBump/CargoDesk/internal/integrations/carrier/fake"
	"github.com/BearBump/CargoDesk/internal/integrations/carrier/maerskv1"
)

// Factory собирает адаптер по коду перевозчика. Инстансы адаптеров
// мемоизируются: у адаптера живёт кэш auth-токена, поэтому все вызовы
// по одному перевозчику должны делить один инстанс, иначе токен
// выбрасывается после каждого резолва.
type Factory struct {
	creds   map[string]carrier.Credentials
	useFake bool

	mu    sync.Mutex
	cache map[string]cachedClient
}

// cachedClient помнит секреты, с которыми адаптер был собран: при их
// смене (env-переопределение, перечитанный конфиг) старый инстанс
// вместе с его сессией сбрасывается.
type cachedClient struct {
	creds  carrier.Credentials
	client carrier.Client
}

// New принимает секреты из конфига (ключ — код перевозчика). useFake
// подменяет все адаптеры детерминированной заглушкой (dev-стенд).
func New(creds map[string]carrier.Credentials, useFake bool) *Factory {
	if creds == nil {
		creds = map[string]carrier.Credentials{}
	}
	return &Factory{
		creds:   creds,
		useFake: useFake,
		cache:   map[string]cachedClient{},
	}
}

// Обязательные поля секретов по перевозчику. Код без записи здесь —
// перевозчик без программного адаптера.
var requiredFields = map[string][]string{
	"MAERSK":  {"ClientID", "ClientSecret"},
	"CMA_CGM": {"Username", "Password"},
}

// HasValidCredentials: true, только если каждый обязательный секрет
// присутствует и не является заглушкой из примера конфига.
func (f *Factory) HasValidCredentials(code string) bool {
	code = strings.ToUpper(code)
	fields, ok := requiredFields[code]
	if !ok {
		return false
	}
	if f.useFake {
		return true
	}
	creds := f.credentialsFor(code)
	for _, field := range fields {
		if isPlaceholder(credField(creds, field)) {
			return false
		}
	}
	return true
}

// Credentials возвращает секреты перевозчика (с env-переопределениями).
// Для кода без адаптера — ErrUnsupportedCarrier.
func (f *Factory) Credentials(code string) (carrier.Credentials, error) {
	code = strings.ToUpper(code)
	if _, ok := requiredFields[code]; !ok {
		return carrier.Credentials{}, carrier.ErrUnsupportedCarrier
	}
	return f.credentialsFor(code), nil
}

// Client возвращает адаптер под код перевозчика. Повторный вызов с
// теми же секретами отдаёт тот же инстанс, чтобы его сессия
// переживала резолвы.
func (f *Factory) Client(code string, creds carrier.Credentials) (carrier.Client, error) {
	code = strings.ToUpper(code)
	if _, ok := requiredFields[code]; !ok {
		return nil, carrier.ErrUnsupportedCarrier
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if e, ok := f.cache[code]; ok && e.creds == creds {
		return e.client, nil
	}

	var c carrier.Client
	switch {
	case f.useFake:
		c = fake.New()
	case code == "MAERSK":
		c = maerskv1.New(creds)
	case code == "CMA_CGM":
		c = cmacgmv1.New(creds)
	default:
		return nil, carrier.ErrUnsupportedCarrier
	}

	f.cache[code] = cachedClient{creds: creds, client: c}
	return c, nil
}

// credentialsFor накладывает env-переменные поверх конфига, чтобы
// секреты можно было не класть в yaml: CARGODESK_MAERSK_CLIENT_SECRET
// и т.п.
func (f *Factory) credentialsFor(code string) carrier.Credentials {
	c := f.creds[code]
	if v := envOverride(code, "BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := envOverride(code, "CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	if v := envOverride(code, "CLIENT_SECRET"); v != "" {
		c.ClientSecret = v
	}
	if v := envOverride(code, "USERNAME"); v != "" {
		c.Username = v
	}
	if v := envOverride(code, "PASSWORD"); v != "" {
		c.Password = v
	}
	return c
}

func envOverride(code, field string) string {
	return os.Getenv("CARGODESK_" + code + "_" + field)
}

func credField(c carrier.Credentials, field string) string {
	switch field {
	case "ClientID":
		return c.ClientID
	case "ClientSecret":
		return c.ClientSecret
	case "Username":
		return c.Username
	case "Password":
		return c.Password
	}
	return ""
}

// Заглушки из примеров конфига считаются отсутствующим секретом.
var placeholderValues = map[string]struct{}{
	"CHANGEME":    {},
	"CHANGE_ME":   {},
	"TODO":        {},
	"PLACEHOLDER": {},
	"XXX":         {},
}

func isPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	up := strings.ToUpper(v)
	if _, ok := placeholderValues[up]; ok {
		return true
	}
	return strings.HasPrefix(up, "YOUR_") || strings.HasPrefix(up, "YOUR-")
}
