package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"lexidrill/internal/models"
	"lexidrill/internal/service"
)

// StudyHandler handles study queue and review HTTP requests
type StudyHandler struct {
	studyService *service.StudyService
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

type queueRequest struct {
	Limit               int     `json:"limit"`
	ExcludeFlashcardIDs []int64 `json:"excludeFlashcardIds"`
}

type reviewRequest struct {
	FlashcardID  int64  `json:"flashcardId"`
	Result       string `json:"result"`
	Score        int    `json:"score"`
	UserInput    string `json:"userInput"`
	FeedbackText string `json:"feedbackText"`
}

// Queue handles POST /api/study/queue
func (h *StudyHandler) Queue(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	var req queueRequest
	if r.Body != nil {
		// An empty body means defaults
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
			return
		}
	}

	cards, err := h.studyService.GetQueue(userID, req.Limit, req.ExcludeFlashcardIDs)
	if err != nil {
		respondInternalError(w, "Failed to build study queue", err)
		return
	}
	if cards == nil {
		cards = []models.StudyCard{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"cards": cards})
}

// Review handles POST /api/study/review
func (h *StudyHandler) Review(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return
	}

	outcome, err := h.studyService.SubmitReview(userID, service.ReviewSubmission{
		FlashcardID:  req.FlashcardID,
		Result:       models.ReviewResult(req.Result),
		Score:        req.Score,
		UserInput:    req.UserInput,
		FeedbackText: req.FeedbackText,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidReview):
			respondError(w, http.StatusBadRequest, "INVALID_RESULT", "result must be pass or fail")
		case errors.Is(err, service.ErrFlashcardNotFound):
			respondError(w, http.StatusNotFound, "FLASHCARD_NOT_FOUND", "Flashcard not found")
		case errors.Is(err, service.ErrCardSuspended):
			respondError(w, http.StatusConflict, "CARD_SUSPENDED", "Suspended cards cannot be reviewed")
		default:
			respondInternalError(w, "Failed to submit review", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

// Stats handles GET /api/study/stats
func (h *StudyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	stats, err := h.studyService.GetStats(userID)
	if err != nil {
		respondInternalError(w, "Failed to load study stats", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// StubbornWords handles GET /api/library/stubborn-words
func (h *StudyHandler) StubbornWords(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	words, err := h.studyService.StubbornWords(userID, limit)
	if err != nil {
		respondInternalError(w, "Failed to load stubborn words", err)
		return
	}
	if words == nil {
		words = []models.StubbornWord{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"words": words})
}
