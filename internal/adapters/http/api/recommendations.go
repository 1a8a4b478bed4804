// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	service "github.com/ishraqsadik/touchgrass/internal/app"
)

// recommendationsRequest mirrors the request body for POST /recommendations.
type recommendationsRequest struct {
	UserID    string   `json:"userId"`
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
	Radius    float64  `json:"radius"`
}

func (r recommendationsRequest) validate(maxRadius float64) error {
	switch {
	case strings.TrimSpace(r.UserID) == "":
		return errors.New("missing userId")
	case r.Longitude == nil:
		return errors.New("missing longitude")
	case r.Latitude == nil:
		return errors.New("missing latitude")
	case *r.Longitude < -180 || *r.Longitude > 180:
		return errors.New("longitude out of range")
	case *r.Latitude < -90 || *r.Latitude > 90:
		return errors.New("latitude out of range")
	case r.Radius < 0:
		return errors.New("radius must not be negative")
	case r.Radius > maxRadius:
		return fmt.Errorf("radius exceeds maximum of %.0f meters", maxRadius)
	}
	return nil
}

// recommendationsResponse mirrors the original success envelope.
type recommendationsResponse struct {
	Success         bool        `json:"success"`
	Message         string      `json:"message"`
	Recommendations interface{} `json:"recommendations"`
	Metadata        interface{} `json:"metadata"`
}

// RecommendationsHandler handles recommendation requests.
type RecommendationsHandler struct {
	deps   Dependencies
	limits Limits
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps Dependencies, limits Limits) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps, limits: limits}
}

// HandlePostRecommendations handles POST /recommendations requests.
func (h *RecommendationsHandler) HandlePostRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req recommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(h.limits.MaxRadiusMeters); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	radius := req.Radius
	if radius == 0 {
		radius = h.limits.DefaultRadiusMeters
	}

	result, err := h.deps.GetRecommendations(r.Context(), service.Request{
		UserID:       req.UserID,
		Longitude:    *req.Longitude,
		Latitude:     *req.Latitude,
		RadiusMeters: radius,
	}, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", service.ErrUserNotFound)
			return
		}
		// The cause stays in the logs; clients get the generic kind only.
		writeError(w, http.StatusInternalServerError, "internal_error", service.ErrInternal)
		return
	}

	writeJSON(w, http.StatusOK, recommendationsResponse{
		Success:         true,
		Message:         "Recommended events retrieved successfully",
		Recommendations: result.Recommendations,
		Metadata:        result.Metadata,
	})
}
