package resolveapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/BearBump/CargoDesk/internal/models"
	"github.com/BearBump/CargoDesk/internal/registry"
	"github.com/BearBump/CargoDesk/internal/services/lookups"
	"github.com/BearBump/CargoDesk/internal/services/resolver"
	"github.com/go-chi/chi/v5"
)

type Service interface {
	Lookup(ctx context.Context, rawInput string, opts lookups.Options) (*resolver.Outcome, error)
	Classify(rawInput string) models.TrackingIdentifier
	RecentLookups(ctx context.Context, limit, offset int) ([]*models.LookupRecord, error)
}

// API — JSON-хендлеры резолва для UI бэкофиса.
type API struct {
	svc Service
	reg *registry.Registry
}

func New(svc Service, reg *registry.Registry) *API {
	return &API{svc: svc, reg: reg}
}

func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/resolve", a.handleResolve)
	r.Get("/classify", a.handleClassify)
	r.Get("/carriers", a.handleCarriers)
	r.Get("/lookups/recent", a.handleRecentLookups)
	return r
}

type resolveRequest struct {
	Number         string `json:"number"`
	PreferScraping bool   `json:"preferScraping,omitempty"`
	CarrierHint    string `json:"carrierHint,omitempty"`
	ForceRefresh   bool   `json:"forceRefresh,omitempty"`
}

func (a *API) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Number == "" {
		writeError(w, http.StatusBadRequest, "number is required")
		return
	}

	out, err := a.svc.Lookup(r.Context(), req.Number, lookups.Options{
		Options: resolver.Options{
			PreferScraping: req.PreferScraping,
			CarrierHint:    req.CarrierHint,
		},
		ForceRefresh: req.ForceRefresh,
	})
	if err != nil {
		if r.Context().Err() != nil {
			writeError(w, http.StatusGatewayTimeout, "request cancelled")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Невалидный формат — это ошибка ввода пользователя, а не "ничего не
	// нашли": отдаём 422, чтобы UI показал "проверьте номер", без ссылок.
	if out.ErrorKind == resolver.ErrKindInvalidFormat {
		writeJSON(w, http.StatusUnprocessableEntity, out)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleClassify(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("number")
	if number == "" {
		writeError(w, http.StatusBadRequest, "number query param is required")
		return
	}
	writeJSON(w, http.StatusOK, a.svc.Classify(number))
}

type carrierInfo struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
	Mode        string `json:"mode"`
}

func (a *API) handleCarriers(w http.ResponseWriter, r *http.Request) {
	profiles := a.reg.Profiles()
	out := make([]carrierInfo, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, carrierInfo{Code: p.Code, DisplayName: p.DisplayName, Mode: p.Mode})
	}
	writeJSON(w, http.StatusOK, map[string]any{"carriers": out})
}

func (a *API) handleRecentLookups(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	recs, err := a.svc.RecentLookups(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []*models.LookupRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"lookups": recs})
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
