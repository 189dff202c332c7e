package carrier

import (
	"context"
	"time"

	"github.com/BearBump/CargoDesk/internal/models"
	"github.com/pkg/errors"
)

// Ошибки контракта адаптера. Проверяются через errors.Is, наружу из
// оркестратора не выходят — попадают в накопленный список отказов.
var (
	ErrUnsupportedCarrier   = errors.New("unsupported carrier")
	ErrMissingCredentials   = errors.New("missing credentials")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNoEventsFound        = errors.New("no tracking events found")
)

// ContainerStatus — нормализованный ответ адаптера: последний статус
// плюс полная хронология событий (старые первыми).
type ContainerStatus struct {
	Status           string
	StatusRaw        string
	Location         *string
	Vessel           *string
	Voyage           *string
	EstimatedArrival *time.Time
	Events           []*models.TrackingEvent
}

// Client — единый контракт программной интеграции с перевозчиком.
//
// Authenticate идемпотентен: безопасно звать перед каждым запросом,
// токен кэшируется внутри адаптера до истечения и обновляется только
// по факту истечения. GetContainerStatus/GetBookingStatus возвращают
// ErrNotAuthenticated до первой успешной аутентификации и
// ErrNoEventsFound, если источник ответил без единого события.
type Client interface {
	Authenticate(ctx context.Context) error
	GetContainerStatus(ctx context.Context, containerNumber string) (ContainerStatus, error)
	GetBookingStatus(ctx context.Context, bookingReference string) (ContainerStatus, error)
}

// Credentials — секреты одного перевозчика. Владелец — конфиг;
// фабрика и адаптеры только читают.
type Credentials struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}
