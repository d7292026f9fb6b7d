package service

import (
	"errors"
	"math"
	"time"

	"lexidrill/internal/models"
)

const (
	minEaseFactor        = 1.3
	maxEaseFactor        = 3.0
	easeFactorGainOnPass = 0.1
	easeFactorLossOnFail = 0.2

	// Interval thresholds for state promotion, in days
	maturedThresholdDays     = 21
	deepMaturedThresholdDays = 60

	defaultQueueLimit = 20
	maxQueueLimit     = 100

	stubbornMinReviews    = 5
	stubbornMasteryCutoff = 50
	stubbornCandidatePool = 200
)

var (
	ErrFlashcardNotFound = errors.New("flashcard not found")
	ErrInvalidReview     = errors.New("invalid review result")
	ErrCardSuspended     = errors.New("flashcard is suspended")
)

// ReviewSubmission is one graded answer for a flashcard
type ReviewSubmission struct {
	FlashcardID  int64
	Result       models.ReviewResult
	Score        int
	UserInput    string
	FeedbackText string
}

// ReviewOutcome reports where a card landed after a review
type ReviewOutcome struct {
	FlashcardID  int64                 `json:"flashcardId"`
	State        models.FlashcardState `json:"state"`
	DueAt        time.Time             `json:"dueAt"`
	IntervalDays int                   `json:"intervalDays"`
	EaseFactor   float64               `json:"easeFactor"`
}

// StudyStats summarizes a user's current study standing
type StudyStats struct {
	DueCount     int                           `json:"dueCount"`
	TodayReviews int                           `json:"todayReviews"`
	StateCounts  map[models.FlashcardState]int `json:"stateCounts"`
}

// StudyService handles the spaced-repetition scheduler and queue
type StudyService struct {
	cardStore FlashcardStore
	now       func() time.Time
}

// NewStudyService creates a new study service
func NewStudyService(cardStore FlashcardStore) *StudyService {
	return &StudyService{
		cardStore: cardStore,
		now:       time.Now,
	}
}

// GetQueue returns the next cards for a user to study. Pending cards
// come first, then due cards most overdue first. Cards listed in
// excludeIDs are skipped so one session does not repeat itself.
func (s *StudyService) GetQueue(userID int64, limit int, excludeIDs []int64) ([]models.StudyCard, error) {
	if limit <= 0 {
		limit = defaultQueueLimit
	}
	if limit > maxQueueLimit {
		limit = maxQueueLimit
	}
	return s.cardStore.StudyQueue(userID, s.now(), limit, excludeIDs)
}

// SubmitReview grades one flashcard and persists the review together
// with the card's new schedule
func (s *StudyService) SubmitReview(userID int64, submission ReviewSubmission) (*ReviewOutcome, error) {
	if !submission.Result.Valid() {
		return nil, ErrInvalidReview
	}

	card, err := s.cardStore.GetFlashcardForUser(submission.FlashcardID, userID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrFlashcardNotFound
	}
	if card.State == models.StateSuspended {
		return nil, ErrCardSuspended
	}

	now := s.now()
	schedule := nextSchedule(card, submission.Result, now)

	review := models.Review{
		FlashcardID:  card.ID,
		Result:       submission.Result,
		Score:        submission.Score,
		UserInput:    submission.UserInput,
		FeedbackText: submission.FeedbackText,
		ReviewedAt:   now,
	}
	if err := s.cardStore.ApplyReview(card.ID, schedule, review); err != nil {
		return nil, err
	}

	return &ReviewOutcome{
		FlashcardID:  card.ID,
		State:        schedule.State,
		DueAt:        schedule.DueAt,
		IntervalDays: schedule.IntervalDays,
		EaseFactor:   schedule.EaseFactor,
	}, nil
}

// GetStats returns the user's due count, reviews done since local
// midnight, and cards per state
func (s *StudyService) GetStats(userID int64) (*StudyStats, error) {
	now := s.now()

	dueCount, err := s.cardStore.DueCount(userID, now)
	if err != nil {
		return nil, err
	}

	year, month, day := now.Date()
	startOfDay := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	todayReviews, err := s.cardStore.ReviewCountSince(userID, startOfDay)
	if err != nil {
		return nil, err
	}

	stateCounts, err := s.cardStore.StateCounts(userID)
	if err != nil {
		return nil, err
	}

	return &StudyStats{
		DueCount:     dueCount,
		TodayReviews: todayReviews,
		StateCounts:  stateCounts,
	}, nil
}

// StubbornWords returns heavily reviewed words whose computed mastery
// stays low despite the effort
func (s *StudyService) StubbornWords(userID int64, limit int) ([]models.StubbornWord, error) {
	if limit <= 0 {
		limit = defaultQueueLimit
	}

	candidates, err := s.cardStore.StubbornCandidates(userID, stubbornMinReviews, stubbornCandidatePool)
	if err != nil {
		return nil, err
	}

	var words []models.StubbornWord
	for _, word := range candidates {
		word.Mastery = masteryScore(word.IntervalDays, word.State)
		if word.Mastery >= stubbornMasteryCutoff {
			continue
		}
		words = append(words, word)
		if len(words) >= limit {
			break
		}
	}
	return words, nil
}

// nextSchedule computes a card's next schedule from one review result.
// Pure so the scheduler math is testable without storage.
//
// On pass the ease factor inches up and the interval multiplies by it;
// long enough intervals promote the card one state step. On fail the
// card loses ease, the interval resets to zero with a one day retry,
// and matured cards demote back to memorizing. A failed pending card
// stays pending: it was never learned in the first place.
func nextSchedule(card *models.Flashcard, result models.ReviewResult, now time.Time) models.ReviewSchedule {
	if result == models.ReviewPass {
		ease := clampEase(card.EaseFactor + easeFactorGainOnPass)

		intervalDays := 1
		if card.IntervalDays > 0 {
			intervalDays = int(math.Round(float64(card.IntervalDays) * ease))
			if intervalDays < 1 {
				intervalDays = 1
			}
		}

		state := card.State
		switch {
		case state == models.StatePending:
			state = models.StateMemorizing
		case state == models.StateMemorizing && intervalDays >= maturedThresholdDays:
			state = models.StateMatured
		case state == models.StateMatured && intervalDays >= deepMaturedThresholdDays:
			state = models.StateDeepMatured
		}

		return models.ReviewSchedule{
			State:         state,
			DueAt:         now.AddDate(0, 0, intervalDays),
			IntervalDays:  intervalDays,
			EaseFactor:    ease,
			CorrectStreak: card.CorrectStreak + 1,
			LapseCount:    card.LapseCount,
		}
	}

	state := models.StateMemorizing
	if card.State == models.StatePending {
		state = models.StatePending
	}

	return models.ReviewSchedule{
		State:         state,
		DueAt:         now.AddDate(0, 0, 1),
		IntervalDays:  0,
		EaseFactor:    clampEase(card.EaseFactor - easeFactorLossOnFail),
		CorrectStreak: 0,
		LapseCount:    card.LapseCount + 1,
	}
}

func clampEase(ease float64) float64 {
	if ease < minEaseFactor {
		return minEaseFactor
	}
	if ease > maxEaseFactor {
		return maxEaseFactor
	}
	return ease
}

// masteryScore maps an interval and state onto a 0 to 100 scale. The
// interval contributes logarithmically so early growth counts more,
// and the state adds a flat bonus.
func masteryScore(intervalDays int, state models.FlashcardState) int {
	if intervalDays < 0 {
		intervalDays = 0
	}

	base := math.Log1p(float64(intervalDays)) / math.Log1p(deepMaturedThresholdDays) * 100
	score := int(math.Round(base)) + stateMasteryBonus(state)
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func stateMasteryBonus(state models.FlashcardState) int {
	switch state {
	case models.StateMemorizing:
		return 5
	case models.StateMatured:
		return 15
	case models.StateDeepMatured:
		return 25
	}
	return 0
}
