package messages

import "time"

// LookupResolved — аудит-событие одного резолва (топик lookup.resolved).
type LookupResolved struct {
	LookupID    string    `json:"lookup_id"`
	RawInput    string    `json:"raw_input"`
	CleanNumber string    `json:"clean_number"`
	Kind        string    `json:"kind"`
	CarrierCode *string   `json:"carrier_code,omitempty"`
	Success     bool      `json:"success"`
	Status      string    `json:"status,omitempty"`
	SourceName  string    `json:"source_name,omitempty"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	ErrorCount  int       `json:"error_count,omitempty"`
	ResolvedAt  time.Time `json:"resolved_at"`
}
