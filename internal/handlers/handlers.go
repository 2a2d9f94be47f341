// Package handlers exposes the DisasterService over HTTP with JSON bodies.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"disaster_response/internal/models"
	"disaster_response/internal/repositories"
	"disaster_response/internal/services"
)

type Handler struct {
	svc *services.DisasterService
	log *slog.Logger
}

type routeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type travelTimeRequest struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Minutes float64 `json:"travel_time_minutes"`
}

type locationRequest struct {
	Location models.Location `json:"location"`
	Routes   []models.Route  `json:"routes"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Locations(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) listLocations(w http.ResponseWriter, r *http.Request) {
	var types []models.LocationType
	if raw := r.URL.Query().Get("type"); raw != "" {
		ft, ok := models.ParseLocationType(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown location type "+strconv.Quote(raw))
			return
		}
		types = append(types, ft)
	}
	locs, err := h.svc.Locations(r.Context(), types...)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locs)
}

func (h *Handler) route(w http.ResponseWriter, r *http.Request) {
	from, to, ok := requireParams(w, r, "from", "to")
	if !ok {
		return
	}
	res, err := h.svc.Route(r.Context(), from, to)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) nearest(w http.ResponseWriter, r *http.Request) {
	from, raw, ok := requireParams(w, r, "from", "type")
	if !ok {
		return
	}
	ft, ok := models.ParseLocationType(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown location type "+strconv.Quote(raw))
		return
	}
	res, err := h.svc.Nearest(r.Context(), from, ft)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) reachable(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	if from == "" {
		writeError(w, http.StatusBadRequest, "'from' is required")
		return
	}
	res, err := h.svc.Reachable(r.Context(), from)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) within(w http.ResponseWriter, r *http.Request) {
	from, rawMinutes, ok := requireParams(w, r, "from", "minutes")
	if !ok {
		return
	}
	minutes, err := strconv.ParseFloat(rawMinutes, 64)
	if err != nil || minutes < 0 {
		writeError(w, http.StatusBadRequest, "'minutes' must be a non-negative number")
		return
	}
	var ft models.LocationType
	if raw := r.URL.Query().Get("type"); raw != "" {
		if ft, ok = models.ParseLocationType(raw); !ok {
			writeError(w, http.StatusBadRequest, "unknown location type "+strconv.Quote(raw))
			return
		}
	}
	paths, err := h.svc.Within(r.Context(), from, minutes, ft)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"from": from, "minutes": minutes, "routes": paths})
}

func (h *Handler) distribution(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Distribute(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) allocations(w http.ResponseWriter, r *http.Request) {
	bySeverity := strings.EqualFold(r.URL.Query().Get("order"), "severity")
	rep, err := h.svc.AllocateTeams(r.Context(), bySeverity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) allocationForZone(w http.ResponseWriter, r *http.Request) {
	zone := mux.Vars(r)["zone"]
	alloc, ok, err := h.svc.AllocateForZone(r.Context(), zone)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"zone_id": zone, "found": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"zone_id": zone, "found": true, "allocation": alloc})
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	zone := mux.Vars(r)["zone"]
	rep, ok, err := h.svc.Dispatch(r.Context(), zone)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no demand recorded for zone "+strconv.Quote(zone))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reload(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "network reloaded"})
}

func (h *Handler) closeRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if !decodeRoute(w, r, &req) {
		return
	}
	if err := h.svc.CloseRoute(r.Context(), req.From, req.To); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "route " + req.From + "-" + req.To + " closed"})
}

func (h *Handler) openRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if !decodeRoute(w, r, &req) {
		return
	}
	if err := h.svc.OpenRoute(r.Context(), req.From, req.To); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "route " + req.From + "-" + req.To + " opened"})
}

func (h *Handler) updateTravelTime(w http.ResponseWriter, r *http.Request) {
	var req travelTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.From == "" || req.To == "" || req.Minutes <= 0 {
		writeError(w, http.StatusBadRequest, "'from', 'to' and a positive 'travel_time_minutes' are required")
		return
	}
	if err := h.svc.UpdateTravelTime(r.Context(), req.From, req.To, req.Minutes); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"from": req.From, "to": req.To, "travel_time_minutes": req.Minutes})
}

func (h *Handler) addLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Location.ID == "" || req.Location.Name == "" || req.Location.Type == "" {
		writeError(w, http.StatusBadRequest, "'id', 'name' and 'type' of the location are required")
		return
	}
	if err := h.svc.AddLocation(r.Context(), req.Location, req.Routes); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req.Location)
}

func decodeRoute(w http.ResponseWriter, r *http.Request, req *routeRequest) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if req.From == "" || req.To == "" {
		writeError(w, http.StatusBadRequest, "'from' and 'to' are required")
		return false
	}
	return true
}

func requireParams(w http.ResponseWriter, r *http.Request, a, b string) (string, string, bool) {
	q := r.URL.Query()
	va, vb := strings.TrimSpace(q.Get(a)), strings.TrimSpace(q.Get(b))
	if va == "" || vb == "" {
		writeError(w, http.StatusBadRequest, "'"+a+"' and '"+b+"' are required")
		return "", "", false
	}
	return va, vb, true
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, services.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrReadOnly):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnknownLocation), errors.Is(err, repositories.ErrRouteNotFound):
		return http.StatusNotFound
	case models.IsDataError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request_failed", "path", r.URL.Path, "status", status, "err", err)
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
