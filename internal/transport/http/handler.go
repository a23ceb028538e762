// Package http exposes the ranking core through a thin JSON shim and a
// websocket leaderboard feed.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"tekno-rank-service/internal/adaptive"
	"tekno-rank-service/internal/domain"
	"tekno-rank-service/internal/ranking"
)

// InsightsStore is the slice of the performance store the transport needs.
type InsightsStore interface {
	TopicInsights(ctx context.Context, studentID string, minAttempts int) (weak, strong []domain.TopicInsight, err error)
}

// Handler wires the produced operations onto HTTP routes.
type Handler struct {
	adaptive *adaptive.Service
	ranking  *ranking.Engine
	insights InsightsStore
}

// NewHandler builds the handler. insights may be nil when no performance
// store is configured; the insights route then 404s.
func NewHandler(adaptiveSvc *adaptive.Service, rankingEngine *ranking.Engine, insights InsightsStore) *Handler {
	return &Handler{adaptive: adaptiveSvc, ranking: rankingEngine, insights: insights}
}

// Register mounts all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/adaptive-question", h.handleAdaptiveQuestion)
	mux.HandleFunc("/api/leaderboard", h.handleLeaderboard)
	mux.HandleFunc("/api/leaderboard/around-me", h.handleAroundMe)
	mux.HandleFunc("/api/contest/score", h.handleContestScore)
	if h.insights != nil {
		mux.HandleFunc("/api/topic-insights", h.handleTopicInsights)
	}
}

type adaptiveRequest struct {
	StudentID          string   `json:"studentId"`
	TopicID            string   `json:"topicId"`
	SubjectCode        string   `json:"subjectCode"`
	Grade              int      `json:"grade"`
	ConsecutiveCorrect int      `json:"consecutiveCorrect"`
	ConsecutiveWrong   int      `json:"consecutiveWrong"`
	CurrentDifficulty  string   `json:"currentDifficulty"`
	ExcludeQuestionIDs []string `json:"excludeQuestionIds"`
}

func (h *Handler) handleAdaptiveQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	var req adaptiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current := domain.Medium
	if req.CurrentDifficulty != "" {
		parsed, err := domain.ParseDifficulty(req.CurrentDifficulty)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown difficulty")
			return
		}
		current = parsed
	}

	signal := domain.PerformanceSignal{
		ConsecutiveCorrect: req.ConsecutiveCorrect,
		ConsecutiveWrong:   req.ConsecutiveWrong,
		CurrentDifficulty:  current,
	}
	if len(req.ExcludeQuestionIDs) > 0 {
		signal.ExcludedItemIDs = make(map[string]struct{}, len(req.ExcludeQuestionIDs))
		for _, id := range req.ExcludeQuestionIDs {
			signal.ExcludedItemIDs[id] = struct{}{}
		}
	}

	pick, err := h.adaptive.SelectQuestion(r.Context(), adaptive.Request{
		StudentID:   req.StudentID,
		TopicID:     req.TopicID,
		SubjectCode: req.SubjectCode,
		Grade:       req.Grade,
		Signal:      signal,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pick)
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	params := leaderboardParams(r)
	entries, err := h.ranking.Leaderboard(r.Context(), params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": entries})
}

func (h *Handler) handleAroundMe(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "studentId required")
		return
	}
	rng := intParam(r, "range", 3)

	entries, err := h.ranking.AroundMe(r.Context(), studentID, leaderboardParams(r), rng)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// An empty board means the student has no ranked presence in scope.
	writeJSON(w, http.StatusOK, map[string]any{"data": entries})
}

type contestRequest struct {
	Items      []domain.BayesianSubject `json:"items"`
	MinSamples int                      `json:"minSamples"`
}

func (h *Handler) handleContestScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req contestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": ranking.ScoreContest(req.Items, req.MinSamples)})
}

func (h *Handler) handleTopicInsights(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "studentId required")
		return
	}
	weak, strong, err := h.insights.TopicInsights(r.Context(), studentID, 5)
	if err != nil {
		log.Printf("error: topic insights for %s: %v", studentID, err)
		writeError(w, http.StatusServiceUnavailable, "insights temporarily unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"weakTopics": weak, "strongTopics": strong})
}

func leaderboardParams(r *http.Request) ranking.Params {
	q := r.URL.Query()
	scope := ranking.Scope(q.Get("scope"))
	if scope == "" {
		scope = ranking.ScopeTurkey
	}
	return ranking.Params{
		Scope:    scope,
		ScopeKey: q.Get("scopeKey"),
		Grade:    intParam(r, "grade", 0),
		Subject:  q.Get("subject"),
		Limit:    intParam(r, "limit", 0),
	}
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	return fallback
}

// writeDomainError maps the error taxonomy to status codes and degraded
// messages; backend detail never reaches clients.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidScopeKey):
		writeError(w, http.StatusBadRequest, "scope requires a key")
	case errors.Is(err, domain.ErrNoEligibleItems):
		writeError(w, http.StatusNotFound, "no eligible questions, try a broader set")
	case errors.Is(err, domain.ErrBackendUnavailable):
		writeError(w, http.StatusServiceUnavailable, "rankings temporarily unavailable")
	default:
		log.Printf("error: unhandled request failure: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("error: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
