package fake

import (
	"context"
	"hash/fnv"
	"sync/atomic"
	"time"

	"github.com/BearBump/CargoDesk/internal/integrations/carrier"
	"github.com/BearBump/CargoDesk/internal/models"
)

// FakeClient — детерминированная заглушка адаптера для dev-стенда и
// wiring-тестов: статус выводится из хэша номера, часть номеров
// оказывается доставленной. Инстанс делится конкурентными вызовами,
// как настоящие адаптеры.
type FakeClient struct {
	authenticated atomic.Bool
}

func New() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Authenticate(ctx context.Context) error {
	f.authenticated.Store(true)
	return nil
}

func (f *FakeClient) GetContainerStatus(ctx context.Context, containerNumber string) (carrier.ContainerStatus, error) {
	return f.status(containerNumber)
}

func (f *FakeClient) GetBookingStatus(ctx context.Context, bookingReference string) (carrier.ContainerStatus, error) {
	return f.status(bookingReference)
}

func (f *FakeClient) status(number string) (carrier.ContainerStatus, error) {
	if !f.authenticated.Load() {
		return carrier.ContainerStatus{}, carrier.ErrNotAuthenticated
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(number))
	v := h.Sum32()

	// 20% номеров считаем доставленными, у остальных груз в пути.
	status := models.StatusInTransit
	if v%5 == 0 {
		status = models.StatusDelivered
	}

	now := time.Now().UTC()
	loc := "Rotterdam, NL"
	ev := &models.TrackingEvent{
		Status:    status,
		StatusRaw: status,
		EventTime: now,
		Location:  &loc,
	}

	return carrier.ContainerStatus{
		Status:    status,
		StatusRaw: status,
		Location:  &loc,
		Events:    []*models.TrackingEvent{ev},
	}, nil
}
