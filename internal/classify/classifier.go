package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/BearBump/CargoDesk/internal/models"
	"github.com/BearBump/CargoDesk/internal/registry"
)

// Classifier разбирает произвольную строку трекинг-номера в типизированный
// идентификатор. Чистая функция: без I/O, без скрытого состояния, один и
// тот же вход всегда даёт один и тот же результат.
//
// Правила применяются в фиксированном порядке, первый матч выигрывает:
//  1. AWB: 3 цифры [+ дефис] + 8 цифр, префикс ищется среди AIR-перевозчиков;
//  2. контейнер: 4 буквы + 7 цифр (ISO 6346 по форме; контрольную цифру
//     сознательно не проверяем — слишком много реальных номеров с опечатками
//     в последней цифре, которые сайты перевозчиков всё равно принимают);
//  3. эвристика BL/букинга: известный океанский префикс + длина 8..20;
//  4. generic booking: любой алфанумерик 6..25 символов;
//  5. иначе Unknown, isValidFormat=false.
//
// Порядок сам по себе разрешает пересечения между шаблонами, поэтому
// менять его нельзя без пересмотра тестов.
type Classifier struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Classifier {
	return &Classifier{reg: reg}
}

var (
	awbRe       = regexp.MustCompile(`^\d{11}$`)
	containerRe = regexp.MustCompile(`^[A-Z]{4}\d{7}$`)
	alnumRe     = regexp.MustCompile(`^[A-Z0-9]+$`)
)

func (c *Classifier) Classify(rawInput string) models.TrackingIdentifier {
	clean := cleanNumber(rawInput)

	id := models.TrackingIdentifier{
		RawInput:    rawInput,
		CleanNumber: clean,
		Kind:        models.KindUnknown,
	}
	if clean == "" {
		return id
	}

	// 1. Air Waybill: после чистки ровно 11 цифр, IATA-префикс — первые три.
	if awbRe.MatchString(clean) {
		if p, ok := c.reg.LookupByPrefix(clean[:3], models.ModeAir); ok {
			id.Kind = models.KindAirWaybill
			id.CarrierCode = strPtr(p.Code)
			id.IsValidFormat = true
			return id
		}
	}

	// 2. Контейнер: форма ISO 6346, владельческий префикс — первые 4 буквы.
	if containerRe.MatchString(clean) {
		if p, ok := c.reg.LookupByPrefix(clean[:4], models.ModeOcean, models.ModeLCL); ok {
			id.Kind = models.KindContainer
			id.CarrierCode = strPtr(p.Code)
			id.IsValidFormat = true
			return id
		}
	}

	// 3. BL/букинг у известного океанского перевозчика.
	if len(clean) >= 8 && len(clean) <= 20 {
		if p, ok := c.reg.LookupByPrefix(prefix4(clean), models.ModeOcean, models.ModeLCL); ok {
			id.Kind = models.KindBillOfLading
			id.CarrierCode = strPtr(p.Code)
			id.IsValidFormat = true
			return id
		}
	}

	// 4. Generic booking: перевозчик остаётся пустым, если нет даже слабого
	// совпадения по префиксу (без ограничения по режиму).
	if len(clean) >= 6 && len(clean) <= 25 && alnumRe.MatchString(clean) {
		id.Kind = models.KindBooking
		id.IsValidFormat = true
		if p, ok := c.reg.LookupByPrefix(prefix4(clean)); ok {
			id.CarrierCode = strPtr(p.Code)
		}
		return id
	}

	return id
}

// cleanNumber: trim, верхний регистр, убираем пробелы и дефисы.
// "MAEU 1234567", "maeu-1234567" и "MAEU1234567" дают одну строку.
func cleanNumber(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func prefix4(s string) string {
	if len(s) < 4 {
		return s
	}
	return s[:4]
}

func strPtr(s string) *string { return &s }
