package models

import "time"

// Канонические статусы отгрузки — единый словарь, на который
// отображаются словари всех источников (можно расширять).
const (
	StatusAtOrigin      = "AT_ORIGIN"
	StatusDeparted      = "DEPARTED"
	StatusInTransit     = "IN_TRANSIT"
	StatusAtDestination = "AT_DESTINATION"
	StatusDelivered     = "DELIVERED"
	StatusUnknown       = "UNKNOWN"
)

// Типы трекинг-идентификаторов.
const (
	KindContainer    = "CONTAINER"
	KindBillOfLading = "BILL_OF_LADING"
	KindAirWaybill   = "AIR_WAYBILL"
	KindBooking      = "BOOKING"
	KindUnknown      = "UNKNOWN"
)

// Режимы перевозки.
const (
	ModeOcean  = "OCEAN"
	ModeAir    = "AIR"
	ModeParcel = "PARCEL"
	ModeLCL    = "LCL"
)

// Виды fallback-ссылок.
const (
	FallbackWebsite        = "WEBSITE"
	FallbackGenericTracker = "GENERIC_TRACKER"
)

// TrackingIdentifier — результат классификации пользовательского ввода.
// Значение создаётся один раз и дальше не мутируется.
type TrackingIdentifier struct {
	RawInput      string  `json:"rawInput"`
	CleanNumber   string  `json:"cleanNumber"`
	Kind          string  `json:"kind"`
	CarrierCode   *string `json:"carrierCode,omitempty"`
	IsValidFormat bool    `json:"isValidFormat"`
}

type TrackingEvent struct {
	EventTime time.Time `json:"eventTime"`
	Location  *string   `json:"location,omitempty"`
	Status    string    `json:"status"`
	StatusRaw string    `json:"statusRaw"`
}

// CanonicalTrackingResult — единая форма успешного ответа независимо
// от того, какой источник его дал. Timeline хронологический, старые
// события первыми; нормализатор порядок не меняет.
type CanonicalTrackingResult struct {
	Identifier       TrackingIdentifier `json:"identifier"`
	Status           string             `json:"status"`
	Location         *string            `json:"location,omitempty"`
	Vessel           *string            `json:"vessel,omitempty"`
	Voyage           *string            `json:"voyage,omitempty"`
	EstimatedArrival *time.Time         `json:"estimatedArrival,omitempty"`
	Timeline         []*TrackingEvent   `json:"timeline,omitempty"`
	SourceName       string             `json:"sourceName"`
	IsLiveData       bool               `json:"isLiveData"`
	RetrievedAt      time.Time          `json:"retrievedAt"`
}

// FallbackOption строится только когда все источники отказали.
type FallbackOption struct {
	CarrierDisplayName string `json:"carrierDisplayName"`
	PublicURL          string `json:"publicUrl"`
	Kind               string `json:"kind"`
}
