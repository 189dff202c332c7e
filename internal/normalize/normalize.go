package normalize

import (
	"strings"

	"github.com/BearBump/CargoDesk/internal/models"
)

// У каждого источника свой словарь статусов; здесь они сводятся к
// каноническому. Незнакомый, но непустой статус считаем IN_TRANSIT:
// раз источник что-то прислал, груз "где-то между" — это полезнее
// пользователю, чем тупиковый UNKNOWN. UNKNOWN зарезервирован за
// "данных нет вообще".
func Status(vocab map[string]string, raw string) string {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if key == "" {
		return models.StatusUnknown
	}
	if s, ok := vocab[key]; ok {
		return s
	}
	return models.StatusInTransit
}

// Словарь событий Maersk (activity-коды трекинг-API).
var MaerskVocab = map[string]string{
	"GATE-IN":          models.StatusAtOrigin,
	"STUFFING":         models.StatusAtOrigin,
	"LOAD":             models.StatusDeparted,
	"DEPARTURE":        models.StatusDeparted,
	"VESSEL DEPARTURE": models.StatusDeparted,
	"TRANSSHIPMENT":    models.StatusInTransit,
	"ARRIVAL":          models.StatusAtDestination,
	"DISCHARGE":        models.StatusAtDestination,
	"GATE-OUT":         models.StatusAtDestination,
	"DELIVER":          models.StatusDelivered,
	"DELIVERED":        models.StatusDelivered,
	"EMPTY RETURN":     models.StatusDelivered,
}

// Словарь статусов CMA CGM.
var CMACGMVocab = map[string]string{
	"READY TO BE LOADED":     models.StatusAtOrigin,
	"POSITIONED IN TERMINAL": models.StatusAtOrigin,
	"LOADED ON BOARD":        models.StatusDeparted,
	"VESSEL DEPARTURE":       models.StatusDeparted,
	"ON BOARD":               models.StatusInTransit,
	"TRANSHIPMENT":           models.StatusInTransit,
	"VESSEL ARRIVAL":         models.StatusAtDestination,
	"DISCHARGED":             models.StatusAtDestination,
	"CONTAINER TO CONSIGNEE": models.StatusDelivered,
	"EMPTY IN DEPOT":         models.StatusDelivered,
}

// Scrape-провайдер уже отдаёт человекочитаемые статусы с сайтов,
// словарь общий для всех перевозчиков.
var ScrapeVocab = map[string]string{
	"AT ORIGIN":      models.StatusAtOrigin,
	"BOOKED":         models.StatusAtOrigin,
	"GATE IN":        models.StatusAtOrigin,
	"DEPARTED":       models.StatusDeparted,
	"SAILED":         models.StatusDeparted,
	"IN TRANSIT":     models.StatusInTransit,
	"ON WATER":       models.StatusInTransit,
	"ARRIVED":        models.StatusAtDestination,
	"DISCHARGED":     models.StatusAtDestination,
	"GATE OUT":       models.StatusAtDestination,
	"DELIVERED":      models.StatusDelivered,
	"EMPTY RETURNED": models.StatusDelivered,
}

func FromMaersk(raw string) string { return Status(MaerskVocab, raw) }

func FromCMACGM(raw string) string { return Status(CMACGMVocab, raw) }

func FromScrape(raw string) string { return Status(ScrapeVocab, raw) }
