package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"lexidrill/internal/csvimport"
	"lexidrill/internal/models"
	"lexidrill/internal/repository"
	"lexidrill/internal/validation"
)

var (
	ErrListNotFound  = errors.New("list not found")
	ErrDuplicateTerm = errors.New("term already exists in list")
)

// ListService handles vocab list and item business logic
type ListService struct {
	vocabStore VocabStore
}

// NewListService creates a new list service
func NewListService(vocabStore VocabStore) *ListService {
	return &ListService{vocabStore: vocabStore}
}

// NewItemInput carries a manually added vocab item before validation
type NewItemInput struct {
	Term            string
	PartOfSpeech    string
	Definition      string
	ExampleSentence string
}

// CreateList creates a manual vocab list for a user
func (s *ListService) CreateList(userID int64, name string) (*models.VocabList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &validation.Error{Code: "INVALID_LIST_NAME", Message: "list name is required"}
	}
	if utf8.RuneCountInString(name) > validation.MaxListNameLength {
		return nil, &validation.Error{
			Code:    "INVALID_LIST_NAME",
			Message: fmt.Sprintf("list name must be %d characters or fewer", validation.MaxListNameLength),
		}
	}
	return s.vocabStore.CreateList(userID, name, models.ListSourceManual, "")
}

// GetLists retrieves all of a user's lists
func (s *ListService) GetLists(userID int64) ([]models.VocabList, error) {
	return s.vocabStore.GetListsForUser(userID)
}

// GetListWithItems retrieves an owned list with its items
func (s *ListService) GetListWithItems(listID, userID int64) (*models.ListWithItems, error) {
	list, err := s.vocabStore.GetListForUser(listID, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrListNotFound
	}

	items, err := s.vocabStore.GetItemsForList(list.ID)
	if err != nil {
		return nil, err
	}
	return &models.ListWithItems{List: *list, Items: items}, nil
}

// AddItem validates and inserts a manually entered vocab item. The same
// field limits and term normalization apply as on the CSV import path,
// so a word dedupes identically no matter how it arrived.
func (s *ListService) AddItem(listID, userID int64, input NewItemInput) (*models.VocabItem, error) {
	list, err := s.vocabStore.GetListForUser(listID, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrListNotFound
	}

	term := strings.TrimSpace(input.Term)
	if term == "" {
		return nil, &validation.Error{Code: csvimport.CodeMissingTerm, Message: "term is required"}
	}
	if utf8.RuneCountInString(term) > csvimport.MaxTermLength {
		return nil, &validation.Error{
			Code:    csvimport.CodeTermTooLong,
			Message: fmt.Sprintf("term exceeds max length (%d)", csvimport.MaxTermLength),
		}
	}

	partOfSpeech := strings.TrimSpace(input.PartOfSpeech)
	if utf8.RuneCountInString(partOfSpeech) > csvimport.MaxPartOfSpeechLength {
		return nil, &validation.Error{
			Code:    csvimport.CodePartOfSpeechTooLong,
			Message: fmt.Sprintf("partOfSpeech exceeds max length (%d)", csvimport.MaxPartOfSpeechLength),
		}
	}
	if partOfSpeech == "" {
		partOfSpeech = csvimport.DefaultPartOfSpeech
	}

	definition := strings.TrimSpace(input.Definition)
	if utf8.RuneCountInString(definition) > csvimport.MaxTextFieldLength {
		return nil, &validation.Error{
			Code:    csvimport.CodeDefinitionTooLong,
			Message: fmt.Sprintf("definition exceeds max length (%d)", csvimport.MaxTextFieldLength),
		}
	}

	var exampleSentence *string
	if example := strings.TrimSpace(input.ExampleSentence); example != "" {
		if utf8.RuneCountInString(example) > csvimport.MaxTextFieldLength {
			return nil, &validation.Error{
				Code:    csvimport.CodeExampleSentenceTooLong,
				Message: fmt.Sprintf("exampleSentence exceeds max length (%d)", csvimport.MaxTextFieldLength),
			}
		}
		exampleSentence = &example
	}

	itemID, err := s.vocabStore.InsertItemWithFlashcard(models.NewVocabItem{
		ListID:          list.ID,
		Term:            term,
		NormalizedTerm:  csvimport.NormalizeTerm(term),
		PartOfSpeech:    partOfSpeech,
		Definition:      definition,
		ExampleSentence: exampleSentence,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateItem) {
			return nil, ErrDuplicateTerm
		}
		return nil, err
	}

	return &models.VocabItem{
		ID:              itemID,
		ListID:          list.ID,
		Term:            term,
		NormalizedTerm:  csvimport.NormalizeTerm(term),
		PartOfSpeech:    partOfSpeech,
		Definition:      definition,
		ExampleSentence: exampleSentence,
	}, nil
}

// DeleteList deletes an owned list with everything in it
func (s *ListService) DeleteList(listID, userID int64) error {
	deleted, err := s.vocabStore.DeleteListForUser(listID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrListNotFound
	}
	return nil
}
