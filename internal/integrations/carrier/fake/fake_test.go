package fake

import (
	"context"
	"sync"
	"testing"

	"github.com/BearBump/CargoDesk/internal/integrations/carrier"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestFakeClient_RequiresAuth(t *testing.T) {
	c := New()

	_, err := c.GetContainerStatus(context.Background(), "MSKU1234567")
	require.True(t, errors.Is(err, carrier.ErrNotAuthenticated))

	require.NoError(t, c.Authenticate(context.Background()))

	_, err = c.GetContainerStatus(context.Background(), "MSKU1234567")
	require.NoError(t, err)
}

// Один инстанс делится конкурентными вызовами, как настоящий адаптер
// из мемоизирующей фабрики.
func TestFakeClient_ConcurrentUse(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, c.Authenticate(context.Background()))
			_, err := c.GetContainerStatus(context.Background(), "MSKU1234567")
			require.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestFakeClient_Deterministic(t *testing.T) {
	c := New()
	require.NoError(t, c.Authenticate(context.Background()))

	a, err := c.GetContainerStatus(context.Background(), "MSKU1234567")
	require.NoError(t, err)
	b, err := c.GetBookingStatus(context.Background(), "MSKU1234567")
	require.NoError(t, err)

	// Один номер — один статус, независимо от типа запроса.
	require.Equal(t, a.Status, b.Status)
	require.NotEmpty(t, a.Status)
	require.Len(t, a.Events, 1)
	require.NotNil(t, a.Location)
}
