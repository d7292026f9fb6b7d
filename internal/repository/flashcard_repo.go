package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lexidrill/internal/database"
	"lexidrill/internal/models"
)

// FlashcardRepository handles database operations for flashcards,
// reviews and study statistics
type FlashcardRepository struct {
	db *database.DB
}

// NewFlashcardRepository creates a new flashcard repository
func NewFlashcardRepository(db *database.DB) *FlashcardRepository {
	return &FlashcardRepository{db: db}
}

// GetFlashcardForUser retrieves a flashcard scoped to the owner of its
// list, or nil when it does not exist or belongs to someone else
func (r *FlashcardRepository) GetFlashcardForUser(flashcardID, userID int64) (*models.Flashcard, error) {
	query := `
		SELECT f.id, f.vocab_item_id, f.state, f.due_at, f.last_reviewed_at,
		       f.interval_days, f.ease_factor, f.review_count, f.lapse_count, f.correct_streak,
		       f.created_at, f.updated_at
		FROM flashcards f
		JOIN vocab_items vi ON vi.id = f.vocab_item_id
		JOIN vocab_lists vl ON vl.id = vi.list_id
		WHERE f.id = ? AND vl.user_id = ?
	`
	card := &models.Flashcard{}
	err := r.db.QueryRow(query, flashcardID, userID).Scan(
		&card.ID,
		&card.VocabItemID,
		&card.State,
		&card.DueAt,
		&card.LastReviewedAt,
		&card.IntervalDays,
		&card.EaseFactor,
		&card.ReviewCount,
		&card.LapseCount,
		&card.CorrectStreak,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcard: %w", err)
	}
	return card, nil
}

// StudyQueue selects the next cards for a user to review. Pending cards
// come first, then due cards ordered most overdue first. Suspended
// cards are never served. Cards in excludeIDs are skipped so a client
// can page past cards already shown in the current session.
func (r *FlashcardRepository) StudyQueue(userID int64, now time.Time, limit int, excludeIDs []int64) ([]models.StudyCard, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT f.id, vi.id, vi.term, vi.part_of_speech, vi.definition, vi.example_sentence, f.state, f.due_at
		FROM flashcards f
		JOIN vocab_items vi ON vi.id = f.vocab_item_id
		JOIN vocab_lists vl ON vl.id = vi.list_id
		WHERE vl.user_id = ?
		  AND f.state != ?
		  AND (f.state = ? OR f.due_at <= ?)
	`)
	args := []interface{}{userID, string(models.StateSuspended), string(models.StatePending), now}

	if len(excludeIDs) > 0 {
		sb.WriteString(" AND f.id NOT IN (")
		for i, id := range excludeIDs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("?")
			args = append(args, id)
		}
		sb.WriteString(")")
	}

	sb.WriteString(`
		ORDER BY CASE WHEN f.state = ? THEN 0 ELSE 1 END, f.due_at ASC, f.id ASC
		LIMIT ?
	`)
	args = append(args, string(models.StatePending), limit)

	rows, err := r.db.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query study queue: %w", err)
	}
	defer rows.Close()

	var cards []models.StudyCard
	for rows.Next() {
		var card models.StudyCard
		if err := rows.Scan(
			&card.FlashcardID,
			&card.VocabItemID,
			&card.Word,
			&card.PartOfSpeech,
			&card.Definition,
			&card.Example,
			&card.State,
			&card.DueAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan study card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// ApplyReview records a review and moves its flashcard to the computed
// schedule in one transaction. The review row and the card update
// either both land or neither does.
func (r *FlashcardRepository) ApplyReview(flashcardID int64, schedule models.ReviewSchedule, review models.Review) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	reviewQuery := `
		INSERT INTO reviews (flashcard_id, result, score, user_input, feedback_text, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(reviewQuery,
		flashcardID,
		string(review.Result),
		review.Score,
		review.UserInput,
		review.FeedbackText,
		review.ReviewedAt,
	); err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	cardQuery := `
		UPDATE flashcards
		SET state = ?, due_at = ?, interval_days = ?, ease_factor = ?,
		    correct_streak = ?, lapse_count = ?,
		    review_count = review_count + 1,
		    last_reviewed_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := tx.Exec(cardQuery,
		string(schedule.State),
		schedule.DueAt,
		schedule.IntervalDays,
		schedule.EaseFactor,
		schedule.CorrectStreak,
		schedule.LapseCount,
		review.ReviewedAt,
		flashcardID,
	); err != nil {
		return fmt.Errorf("failed to update flashcard: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review: %w", err)
	}
	return nil
}

// DueCount returns how many non-suspended cards are pending or due
func (r *FlashcardRepository) DueCount(userID int64, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM flashcards f
		JOIN vocab_items vi ON vi.id = f.vocab_item_id
		JOIN vocab_lists vl ON vl.id = vi.list_id
		WHERE vl.user_id = ?
		  AND f.state != ?
		  AND (f.state = ? OR f.due_at <= ?)
	`
	var count int
	err := r.db.QueryRow(query, userID, string(models.StateSuspended), string(models.StatePending), now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count due cards: %w", err)
	}
	return count, nil
}

// ReviewCountSince returns how many reviews a user submitted at or
// after the given time
func (r *FlashcardRepository) ReviewCountSince(userID int64, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reviews rv
		JOIN flashcards f ON f.id = rv.flashcard_id
		JOIN vocab_items vi ON vi.id = f.vocab_item_id
		JOIN vocab_lists vl ON vl.id = vi.list_id
		WHERE vl.user_id = ? AND rv.reviewed_at >= ?
	`
	var count int
	err := r.db.QueryRow(query, userID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

// StateCounts returns the number of a user's cards in each state
func (r *FlashcardRepository) StateCounts(userID int64) (map[models.FlashcardState]int, error) {
	query := `
		SELECT f.state, COUNT(*)
		FROM flashcards f
		JOIN vocab_items vi ON vi.id = f.vocab_item_id
		JOIN vocab_lists vl ON vl.id = vi.list_id
		WHERE vl.user_id = ?
		GROUP BY f.state
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count card states: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.FlashcardState]int, len(models.FlashcardStates))
	for _, state := range models.FlashcardStates {
		counts[state] = 0
	}
	for rows.Next() {
		var state models.FlashcardState
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, fmt.Errorf("failed to scan state count: %w", err)
		}
		counts[state] = count
	}
	return counts, rows.Err()
}

// StubbornCandidates returns heavily reviewed cards that keep lapsing,
// for mastery scoring in the service layer
func (r *FlashcardRepository) StubbornCandidates(userID int64, minReviews, limit int) ([]models.StubbornWord, error) {
	query := `
		SELECT vi.id, vi.term, f.state, f.interval_days, f.review_count, f.lapse_count
		FROM flashcards f
		JOIN vocab_items vi ON vi.id = f.vocab_item_id
		JOIN vocab_lists vl ON vl.id = vi.list_id
		WHERE vl.user_id = ? AND f.review_count >= ?
		ORDER BY f.lapse_count DESC, f.review_count DESC, f.id ASC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, minReviews, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stubborn candidates: %w", err)
	}
	defer rows.Close()

	var words []models.StubbornWord
	for rows.Next() {
		var word models.StubbornWord
		if err := rows.Scan(
			&word.VocabItemID,
			&word.Term,
			&word.State,
			&word.IntervalDays,
			&word.ReviewCount,
			&word.LapseCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stubborn word: %w", err)
		}
		words = append(words, word)
	}
	return words, rows.Err()
}
