package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lexidrill/internal/database"
	"lexidrill/internal/models"
)

// ErrDuplicateItem is returned when an insert hits a uniqueness
// constraint, such as a normalized term already present in a list
var ErrDuplicateItem = errors.New("duplicate item")

// VocabRepository handles database operations for vocab lists and items
type VocabRepository struct {
	db *database.DB
}

// NewVocabRepository creates a new vocab repository
func NewVocabRepository(db *database.DB) *VocabRepository {
	return &VocabRepository{db: db}
}

// CreateList creates a new vocab list for a user
func (r *VocabRepository) CreateList(userID int64, name string, source models.ListSource, originalFilename string) (*models.VocabList, error) {
	query := "INSERT INTO vocab_lists (user_id, name, source, original_filename) VALUES (?, ?, ?, ?)"
	listID, err := r.db.ExecReturningID(query, userID, name, string(source), originalFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	return &models.VocabList{
		ID:               listID,
		UserID:           userID,
		Name:             name,
		Source:           source,
		OriginalFilename: originalFilename,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}, nil
}

// GetListForUser retrieves a list by ID scoped to its owner, or nil
// when it does not exist or belongs to someone else
func (r *VocabRepository) GetListForUser(listID, userID int64) (*models.VocabList, error) {
	query := `
		SELECT id, user_id, name, source, original_filename, created_at, updated_at
		FROM vocab_lists
		WHERE id = ? AND user_id = ?
	`
	list := &models.VocabList{}
	err := r.db.QueryRow(query, listID, userID).Scan(
		&list.ID,
		&list.UserID,
		&list.Name,
		&list.Source,
		&list.OriginalFilename,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return list, nil
}

// GetListsForUser retrieves all of a user's lists, newest first
func (r *VocabRepository) GetListsForUser(userID int64) ([]models.VocabList, error) {
	query := `
		SELECT id, user_id, name, source, original_filename, created_at, updated_at
		FROM vocab_lists
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var lists []models.VocabList
	for rows.Next() {
		var list models.VocabList
		if err := rows.Scan(
			&list.ID,
			&list.UserID,
			&list.Name,
			&list.Source,
			&list.OriginalFilename,
			&list.CreatedAt,
			&list.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// GetItemsForList retrieves the items of a list in insertion order
func (r *VocabRepository) GetItemsForList(listID int64) ([]models.VocabItem, error) {
	query := `
		SELECT id, list_id, term, normalized_term, part_of_speech, definition, example_sentence, created_at, updated_at
		FROM vocab_items
		WHERE list_id = ?
		ORDER BY id ASC
	`
	rows, err := r.db.Query(query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.VocabItem
	for rows.Next() {
		var item models.VocabItem
		if err := rows.Scan(
			&item.ID,
			&item.ListID,
			&item.Term,
			&item.NormalizedTerm,
			&item.PartOfSpeech,
			&item.Definition,
			&item.ExampleSentence,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountItemsForList returns the number of items in a list
func (r *VocabRepository) CountItemsForList(listID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM vocab_items WHERE list_id = ?", listID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// InsertItemWithFlashcard inserts a vocab item and its flashcard in one
// transaction. Every item gets exactly one flashcard, created in the
// pending state and immediately due. Returns ErrDuplicateItem when the
// normalized term already exists in the list.
func (r *VocabRepository) InsertItemWithFlashcard(item models.NewVocabItem) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	itemQuery := `
		INSERT INTO vocab_items (list_id, term, normalized_term, part_of_speech, definition, example_sentence)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	itemID, err := tx.ExecReturningID(itemQuery,
		item.ListID,
		item.Term,
		item.NormalizedTerm,
		item.PartOfSpeech,
		item.Definition,
		item.ExampleSentence,
	)
	if err != nil {
		if tx.GetDialect().IsUniqueViolation(err) {
			return 0, ErrDuplicateItem
		}
		return 0, fmt.Errorf("failed to insert item: %w", err)
	}

	cardQuery := "INSERT INTO flashcards (vocab_item_id, state, due_at) VALUES (?, ?, ?)"
	if _, err := tx.Exec(cardQuery, itemID, string(models.StatePending), time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("failed to insert flashcard: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit item insert: %w", err)
	}
	return itemID, nil
}

// DeleteListForUser deletes a list owned by the user. Items, flashcards
// and reviews go with it via foreign key cascades. Returns false when
// no owned list matched.
func (r *VocabRepository) DeleteListForUser(listID, userID int64) (bool, error) {
	result, err := r.db.Exec("DELETE FROM vocab_lists WHERE id = ? AND user_id = ?", listID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete list: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}
