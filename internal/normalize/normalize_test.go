package normalize

import (
	"testing"

	"github.com/BearBump/CargoDesk/internal/models"
	"github.com/stretchr/testify/require"
)

func TestStatus_KnownMappings(t *testing.T) {
	require.Equal(t, models.StatusAtOrigin, FromMaersk("GATE-IN"))
	require.Equal(t, models.StatusDeparted, FromMaersk("LOAD"))
	require.Equal(t, models.StatusDelivered, FromMaersk("DELIVERED"))

	require.Equal(t, models.StatusDeparted, FromCMACGM("LOADED ON BOARD"))
	require.Equal(t, models.StatusDelivered, FromCMACGM("CONTAINER TO CONSIGNEE"))

	require.Equal(t, models.StatusAtDestination, FromScrape("Discharged"))
	require.Equal(t, models.StatusDelivered, FromScrape("delivered"))
}

func TestStatus_CaseAndSpacesInsensitive(t *testing.T) {
	require.Equal(t, models.StatusDeparted, FromMaersk("  load "))
	require.Equal(t, models.StatusInTransit, FromScrape("In Transit"))
}

func TestStatus_UnknownDefaultsToInTransit(t *testing.T) {
	// Незнакомый, но непустой статус от живого источника — IN_TRANSIT,
	// не UNKNOWN: раз источник ответил, груз где-то едет.
	require.Equal(t, models.StatusInTransit, FromMaersk("SOME NEW ACTIVITY CODE"))
	require.Equal(t, models.StatusInTransit, FromCMACGM("MYSTERY STATE"))
	require.Equal(t, models.StatusInTransit, FromScrape("???"))
}

func TestStatus_EmptyIsUnknown(t *testing.T) {
	// UNKNOWN зарезервирован за полным отсутствием данных.
	require.Equal(t, models.StatusUnknown, FromMaersk(""))
	require.Equal(t, models.StatusUnknown, FromScrape("   "))
}
