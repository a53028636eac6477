package handlers

import (
	"fmt"
	"net/http"
	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"strings"

	"go.uber.org/zap"
)

// StopHandler lists and replaces the stored delivery stops.
type StopHandler struct {
	Repo ports.StopRepository
}

func (h *StopHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet, http.MethodPut) {
		return
	}

	if r.Method == http.MethodPut {
		h.replace(w, r)
		return
	}
	h.list(w, r)
}

func (h *StopHandler) list(w http.ResponseWriter, r *http.Request) {
	stops, err := h.Repo.ListStops(r.Context())
	if err != nil {
		obs.Logger(r.Context()).Error("list stops failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toListStopsResponse(stops))
}

func (h *StopHandler) replace(w http.ResponseWriter, r *http.Request) {
	var req dto.ReplaceStopsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stops, err := toDomainStops(req.Stops)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Repo.ReplaceStops(r.Context(), stops); err != nil {
		obs.Logger(r.Context()).Error("replace stops failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toListStopsResponse(stops))
}

func toDomainStops(in []dto.StopRequest) ([]*domain.Stop, error) {
	seen := make(map[int]struct{}, len(in))
	out := make([]*domain.Stop, 0, len(in))

	for _, s := range in {
		if _, ok := seen[s.Position]; ok {
			return nil, fmt.Errorf("duplicate position %d", s.Position)
		}
		seen[s.Position] = struct{}{}

		address := strings.TrimSpace(s.Address)
		if address == "" {
			return nil, fmt.Errorf("stop at position %d: address must be non-empty", s.Position)
		}

		stop := &domain.Stop{
			Position: s.Position,
			Address:  address,
			Window:   domain.TimeWindow{Earliest: s.Earliest, Latest: s.Latest},
		}
		if err := stop.Window.Validate(); err != nil {
			return nil, fmt.Errorf("stop at position %d: %w", s.Position, err)
		}
		out = append(out, stop)
	}

	return out, nil
}

func toListStopsResponse(stops []*domain.Stop) dto.ListStopsResponse {
	res := dto.ListStopsResponse{Stops: make([]dto.StopResponse, 0, len(stops))}
	for _, s := range stops {
		res.Stops = append(res.Stops, dto.StopResponse{
			Position: s.Position,
			Address:  s.Address,
			Earliest: s.Window.Earliest,
			Latest:   s.Window.Latest,
		})
	}
	return res
}
