package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tlebon/ccb-dashboard/internal/cache"
	"github.com/tlebon/ccb-dashboard/internal/lineup"
	"github.com/tlebon/ccb-dashboard/internal/publisher"
	"github.com/tlebon/ccb-dashboard/internal/service"
	"github.com/tlebon/ccb-dashboard/internal/store"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db               *store.Database
	showService      *service.ShowService
	performerService *service.PerformerService
	teamService      *service.TeamService
}

// NewHandler creates a new handler
func NewHandler(db *store.Database, rc *cache.RedisCache, pub *publisher.RedisStreamPublisher) *Handler {
	return &Handler{
		db:               db,
		showService:      service.NewShowService(db, rc, pub),
		performerService: service.NewPerformerService(db),
		teamService:      service.NewTeamService(db),
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "ccb-dashboard",
		"version": "1.0.0",
	})
}

// GetUpcomingShows returns upcoming shows across all sources
func (h *Handler) GetUpcomingShows(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit := 50 // default
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}

	shows, err := h.showService.GetUpcomingShows(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch upcoming shows", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"shows": shows,
		"count": len(shows),
	})
}

// GetShowsByDate returns all shows on a specific date
func (h *Handler) GetShowsByDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		dateStr = time.Now().Format("2006-01-02")
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	shows, err := h.showService.GetShowsByDate(r.Context(), date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch shows", err)
		return
	}

	respondJSON(w, http.StatusOK, shows)
}

// GetShow returns a specific show with its lineup
func (h *Handler) GetShow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	showID, err := strconv.Atoi(vars["showID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid show ID", err)
		return
	}

	detail, err := h.showService.GetShowDetail(r.Context(), showID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Show not found", err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// MergeShows runs deduplication over a date window (default: the next
// 60 days)
func (h *Handler) MergeShows(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 0, 60)

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
		from = parsed
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
			return
		}
		to = parsed
	}

	report, err := h.showService.MergeWindow(r.Context(), from, to)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Merge failed", err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetPerformers returns all active performers
func (h *Handler) GetPerformers(w http.ResponseWriter, r *http.Request) {
	performers, err := h.performerService.GetAllPerformers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch performers", err)
		return
	}

	respondJSON(w, http.StatusOK, performers)
}

// SearchPerformers finds performers by name fragment
func (h *Handler) SearchPerformers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "Missing query parameter 'q'", nil)
		return
	}

	limit := 25
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	performers, err := h.performerService.SearchPerformers(r.Context(), query, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Search failed", err)
		return
	}

	respondJSON(w, http.StatusOK, performers)
}

// GetPerformer returns a performer by slug
func (h *Handler) GetPerformer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	performer, err := h.performerService.GetPerformer(r.Context(), vars["slug"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Performer not found", err)
		return
	}

	respondJSON(w, http.StatusOK, performer)
}

// GetTeams returns all active teams
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.GetAllTeams(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch teams", err)
		return
	}

	respondJSON(w, http.StatusOK, teams)
}

// GetTeam returns a team with its members
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	team, members, err := h.teamService.GetTeam(r.Context(), vars["slug"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Team not found", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":    team,
		"members": members,
	})
}

// GetTeamsOnDate resolves the house-team rotation for a date
func (h *Handler) GetTeamsOnDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		dateStr = time.Now().Format("2006-01-02")
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	teams, err := h.teamService.GetTeamsOnDate(r.Context(), date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to resolve rotation", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":  dateStr,
		"teams": teams,
	})
}

// PreviewLineup parses posted event-page HTML and resolves the
// extracted names against the performer registry, without storing
// anything
func (h *Handler) PreviewLineup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HTML string `json:"html"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.HTML == "" {
		respondError(w, http.StatusBadRequest, "Missing 'html' field", nil)
		return
	}

	result := lineup.ParseLineup(req.HTML)

	registry, err := h.performerService.GetAllPerformers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load performer registry", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"lineup":  result,
		"matches": lineup.ResolveNames(result.Performers, registry),
	})
}

// ImportSchedule parses posted schedule text and stores its shows
func (h *Handler) ImportSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text    string `json:"text"`
		Dialect string `json:"dialect"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "Missing 'text' field", nil)
		return
	}

	report, err := h.showService.ImportSchedule(r.Context(), req.Text, req.Dialect)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Import failed", err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
