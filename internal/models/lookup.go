package models

import (
	"time"

	"github.com/google/uuid"
)

// LookupRecord — строка истории резолвов: что спросил пользователь и
// чем закончилось. Пишется best-effort после каждого вызова.
type LookupRecord struct {
	ID          uint64    `json:"-"`
	PublicID    uuid.UUID `json:"id"`
	RawInput    string    `json:"rawInput"`
	CleanNumber string    `json:"cleanNumber"`
	Kind        string    `json:"kind"`
	CarrierCode *string   `json:"carrierCode,omitempty"`
	Success     bool      `json:"success"`
	Status      *string   `json:"status,omitempty"`
	SourceName  *string   `json:"sourceName,omitempty"`
	ErrorKind   *string   `json:"errorKind,omitempty"`
	ErrorCount  int32     `json:"errorCount"`
	CreatedAt   time.Time `json:"createdAt"`
}
