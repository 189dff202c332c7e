package classify

import (
	"testing"

	"github.com/BearBump/CargoDesk/internal/models"
	"github.com/BearBump/CargoDesk/internal/registry"
	"github.com/stretchr/testify/require"
)

func newClassifier() *Classifier {
	return New(registry.Default())
}

func TestClassify_Container(t *testing.T) {
	c := newClassifier()

	id := c.Classify("MAEU1234567")
	require.Equal(t, models.KindContainer, id.Kind)
	require.True(t, id.IsValidFormat)
	require.NotNil(t, id.CarrierCode)
	require.Equal(t, "MAERSK", *id.CarrierCode)
	require.Equal(t, "MAEU1234567", id.CleanNumber)
}

func TestClassify_AirWaybill(t *testing.T) {
	c := newClassifier()

	id := c.Classify("071-12345678")
	require.Equal(t, models.KindAirWaybill, id.Kind)
	require.True(t, id.IsValidFormat)
	require.NotNil(t, id.CarrierCode)
	require.Equal(t, "ETHIOPIAN_AIRLINES", *id.CarrierCode)
	require.Equal(t, "07112345678", id.CleanNumber)

	// Без дефиса — то же самое.
	require.Equal(t, id.Kind, c.Classify("07112345678").Kind)
}

func TestClassify_NormalizationIdempotence(t *testing.T) {
	// Пробелы, дефисы и регистр не влияют на результат.
	c := newClassifier()

	base := c.Classify("MAEU1234567")
	for _, v := range []string{"maeu1234567", "MAEU 1234567", "MAEU-1234567", "  maeu 123-4567  "} {
		got := c.Classify(v)
		require.Equal(t, base.Kind, got.Kind, v)
		require.Equal(t, base.CleanNumber, got.CleanNumber, v)
		require.Equal(t, base.CarrierCode, got.CarrierCode, v)
		require.Equal(t, base.IsValidFormat, got.IsValidFormat, v)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := newClassifier()
	for _, s := range []string{"MAEU1234567", "071-12345678", "garbage!!!", "BOOK123456"} {
		require.Equal(t, c.Classify(s), c.Classify(s), s)
	}
}

func TestClassify_BillOfLading(t *testing.T) {
	c := newClassifier()

	// Известный океанский префикс, длина в пределах 8..20, но не форма
	// контейнера — BL.
	id := c.Classify("MAEU123456789")
	require.Equal(t, models.KindBillOfLading, id.Kind)
	require.True(t, id.IsValidFormat)
	require.Equal(t, "MAERSK", *id.CarrierCode)
}

func TestClassify_BookingFallback(t *testing.T) {
	c := newClassifier()

	// Алфанумерик без известного префикса — generic booking без
	// перевозчика.
	id := c.Classify("BK99182736")
	require.Equal(t, models.KindBooking, id.Kind)
	require.True(t, id.IsValidFormat)
	require.Nil(t, id.CarrierCode)
}

func TestClassify_ContainerShape_UnknownPrefix(t *testing.T) {
	c := newClassifier()

	// Форма ISO 6346, но префикс не из таблицы: шаг контейнера не
	// срабатывает, строка уходит в generic booking.
	id := c.Classify("XXXU1234567")
	require.Equal(t, models.KindBooking, id.Kind)
	require.True(t, id.IsValidFormat)
	require.Nil(t, id.CarrierCode)
}

func TestClassify_CheckDigitNotValidated(t *testing.T) {
	// Контрольную цифру ISO 6346 сознательно не проверяем: обе строки
	// валидны с точки зрения классификатора.
	c := newClassifier()
	require.True(t, c.Classify("MAEU1234567").IsValidFormat)
	require.True(t, c.Classify("MAEU1234568").IsValidFormat)
}

func TestClassify_AWBBeforeContainer(t *testing.T) {
	// 11 цифр всегда проверяются как AWB раньше остальных правил.
	c := newClassifier()
	id := c.Classify("176-87654321")
	require.Equal(t, models.KindAirWaybill, id.Kind)
	require.Equal(t, "EMIRATES_SKYCARGO", *id.CarrierCode)
}

func TestClassify_AWB_UnknownAirlinePrefix(t *testing.T) {
	// 11 цифр с неизвестным IATA-префиксом — не AWB; по длине подходит
	// под generic booking.
	c := newClassifier()
	id := c.Classify("999-12345678")
	require.Equal(t, models.KindBooking, id.Kind)
	require.True(t, id.IsValidFormat)
}

func TestClassify_Invalid(t *testing.T) {
	c := newClassifier()

	for _, s := range []string{"", "   ", "not-a-tracking-number!", "ab", "x", "слишком странно"} {
		id := c.Classify(s)
		require.Equal(t, models.KindUnknown, id.Kind, s)
		require.False(t, id.IsValidFormat, s)
	}
}

func TestClassify_NoExceptionsOnGarbage(t *testing.T) {
	c := newClassifier()
	// Классификация всегда возвращает значение, даже на мусоре.
	for _, s := range []string{"\x00\x01", "🚢🚢🚢", "-", "--------", "a b c d e f"} {
		id := c.Classify(s)
		require.Equal(t, s, id.RawInput)
	}
}

func TestCleanNumber(t *testing.T) {
	require.Equal(t, "MAEU1234567", cleanNumber("  maeu 123-4567 "))
	require.Equal(t, "", cleanNumber("   "))
	require.Equal(t, "ABC", cleanNumber("a-b-c"))
}
