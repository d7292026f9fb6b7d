package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"lexidrill/internal/models"
	"lexidrill/internal/service"
	"lexidrill/internal/validation"
)

// ListHandler handles vocab list HTTP requests
type ListHandler struct {
	listService *service.ListService
}

// NewListHandler creates a new list handler
func NewListHandler(listService *service.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

type createListRequest struct {
	Name string `json:"name"`
}

type addItemRequest struct {
	Term            string `json:"term"`
	PartOfSpeech    string `json:"partOfSpeech"`
	Definition      string `json:"definition"`
	ExampleSentence string `json:"exampleSentence"`
}

type listResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Source    models.ListSource `json:"source"`
	CreatedAt string            `json:"createdAt"`
}

type itemResponse struct {
	ID              int64   `json:"id"`
	Term            string  `json:"term"`
	PartOfSpeech    string  `json:"partOfSpeech"`
	Definition      string  `json:"definition"`
	ExampleSentence *string `json:"exampleSentence"`
}

func serializeList(list *models.VocabList) listResponse {
	return listResponse{
		ID:        list.ID,
		Name:      list.Name,
		Source:    list.Source,
		CreatedAt: list.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func serializeItem(item *models.VocabItem) itemResponse {
	return itemResponse{
		ID:              item.ID,
		Term:            item.Term,
		PartOfSpeech:    item.PartOfSpeech,
		Definition:      item.Definition,
		ExampleSentence: item.ExampleSentence,
	}
}

// Create handles POST /api/lists
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return
	}

	list, err := h.listService.CreateList(userID, req.Name)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Code, verr.Message)
			return
		}
		respondInternalError(w, "Failed to create list", err)
		return
	}

	respondJSON(w, http.StatusCreated, serializeList(list))
}

// List handles GET /api/lists
func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	lists, err := h.listService.GetLists(userID)
	if err != nil {
		respondInternalError(w, "Failed to load lists", err)
		return
	}

	responses := make([]listResponse, 0, len(lists))
	for i := range lists {
		responses = append(responses, serializeList(&lists[i]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"lists": responses})
}

// Get handles GET /api/lists/{id}
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	listID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_LIST_ID", "List ID must be a positive integer")
		return
	}

	listWithItems, err := h.listService.GetListWithItems(listID, userID)
	if err != nil {
		if errors.Is(err, service.ErrListNotFound) {
			respondError(w, http.StatusNotFound, "LIST_NOT_FOUND", "List not found")
			return
		}
		respondInternalError(w, "Failed to load list", err)
		return
	}

	items := make([]itemResponse, 0, len(listWithItems.Items))
	for i := range listWithItems.Items {
		items = append(items, serializeItem(&listWithItems.Items[i]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"list":  serializeList(&listWithItems.List),
		"items": items,
	})
}

// AddItem handles POST /api/lists/{id}/items
func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	listID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_LIST_ID", "List ID must be a positive integer")
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return
	}

	item, err := h.listService.AddItem(listID, userID, service.NewItemInput{
		Term:            req.Term,
		PartOfSpeech:    req.PartOfSpeech,
		Definition:      req.Definition,
		ExampleSentence: req.ExampleSentence,
	})
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Code, verr.Message)
			return
		}
		if errors.Is(err, service.ErrListNotFound) {
			respondError(w, http.StatusNotFound, "LIST_NOT_FOUND", "List not found")
			return
		}
		if errors.Is(err, service.ErrDuplicateTerm) {
			respondError(w, http.StatusConflict, "DUPLICATE_TERM", "This term is already in the list")
			return
		}
		respondInternalError(w, "Failed to add item", err)
		return
	}

	respondJSON(w, http.StatusCreated, serializeItem(item))
}

// Delete handles DELETE /api/lists/{id}
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())
	listID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_LIST_ID", "List ID must be a positive integer")
		return
	}

	if err := h.listService.DeleteList(listID, userID); err != nil {
		if errors.Is(err, service.ErrListNotFound) {
			respondError(w, http.StatusNotFound, "LIST_NOT_FOUND", "List not found")
			return
		}
		respondInternalError(w, "Failed to delete list", err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// pathID parses a positive integer path value
func pathID(r *http.Request, name string) (int64, bool) {
	value, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}
