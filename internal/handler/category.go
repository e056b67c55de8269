package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labstock/labstock/internal/handler/dto"
	"github.com/labstock/labstock/internal/service"
)

// CategoryHandler handles HTTP requests for category and item operations.
type CategoryHandler struct {
	svc    *service.InventoryService
	logger *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(svc *service.InventoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.svc.CreateCategory(r.Context(), req.Name, req.Kind); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("category_created", "name", req.Name, "kind", req.Kind)

	writeJSON(w, http.StatusCreated, dto.CategoryResponse{Name: req.Name, Kind: req.Kind})
}

// List handles GET /api/v1/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories := h.svc.ListCategories(r.Context())
	writeJSON(w, http.StatusOK, dto.ToCategoryListResponse(categories))
}

// Delete handles DELETE /api/v1/categories/{category}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")

	if err := h.svc.DeleteCategory(r.Context(), name); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("category_deleted", "name", name)

	w.WriteHeader(http.StatusNoContent)
}

// Items handles GET /api/v1/categories/{category}/items.
func (h *CategoryHandler) Items(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")

	list, err := h.svc.ListItems(r.Context(), name)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToItemListResponse(list.Kind, list.Stock, list.Antibody))
}

// InsertItem handles POST /api/v1/categories/{category}/items.
func (h *CategoryHandler) InsertItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")

	var req dto.InsertItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.ItemInput{
		Item:      req.Item,
		Notes:     req.Notes,
		Quantity:  req.Quantity,
		Code:      req.Code,
		Name:      req.Name,
		Target:    req.Target,
		Host:      req.Host,
		Conjugate: req.Conjugate,
		Brand:     req.Brand,
		Aliquots:  req.Aliquots,
		Vials:     req.Vials,
	}

	if err := h.svc.InsertItem(r.Context(), name, input, req.Actor); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	list, err := h.svc.ListItems(r.Context(), name)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("item_inserted", "category", name, "kind", string(list.Kind), "actor", req.Actor)

	writeJSON(w, http.StatusCreated, dto.ToItemListResponse(list.Kind, list.Stock, list.Antibody))
}

// DeleteItem handles DELETE /api/v1/categories/{category}/items/{id}.
// Missing ids are a no-op and still return 204.
func (h *CategoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteItem(r.Context(), name, id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("item_deleted", "category", name, "item_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// UpdateItem handles PATCH /api/v1/categories/{category}/items/{id}.
func (h *CategoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")
	id := chi.URLParam(r, "id")

	var req dto.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.svc.UpdateItem(r.Context(), name, id, req.Column, req.Value); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("item_updated", "category", name, "item_id", id, "column", req.Column)

	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/v1/categories/{category}/export.
// It streams the category's rows as a CSV attachment.
func (h *CategoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")

	export, err := h.svc.ExportCategoryCSV(r.Context(), name)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}
