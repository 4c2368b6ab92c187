package menu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cafe/internal/domain"
)

type CatalogReader interface {
	ListAll(ctx context.Context) ([]domain.MenuItem, error)
	FindByName(ctx context.Context, name string) ([]domain.MenuItem, error)
	FindByType(ctx context.Context, itemType string) ([]domain.MenuItem, error)
}

// Controller serves the read-only menu board.
type Controller struct {
	catalog CatalogReader
	logger  *zap.Logger
}

func NewController(catalog CatalogReader, logger *zap.Logger) *Controller {
	return &Controller{
		catalog: catalog,
		logger:  logger,
	}
}

func (c *Controller) HandleListMenu(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()

	var (
		items []domain.MenuItem
		err   error
	)
	if itemType := r.URL.Query().Get("type"); itemType != "" {
		items, err = c.catalog.FindByType(r.Context(), itemType)
	} else {
		items, err = c.catalog.ListAll(r.Context())
	}
	if err != nil {
		c.logger.Error("list menu failed", zap.String("traceId", traceID), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, errorResponse{
			TraceID: traceID,
			Error:   "INTERNAL_ERROR",
			Message: "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, MenuResponse{TraceID: traceID, Items: toDTOs(items)})
}

func (c *Controller) HandleGetMenuItem(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	name, err := menuItemName(r)
	if err != nil {
		c.writeJSON(w, http.StatusBadRequest, errorResponse{
			TraceID: traceID,
			Error:   "BAD_REQUEST",
			Message: "malformed menu item name",
		})
		return
	}

	items, err := c.catalog.FindByName(r.Context(), name)
	if err != nil {
		c.logger.Error("get menu item failed", zap.String("traceId", traceID), zap.String("item", name), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, errorResponse{
			TraceID: traceID,
			Error:   "INTERNAL_ERROR",
			Message: "an unexpected error occurred",
		})
		return
	}

	if len(items) == 0 {
		c.writeJSON(w, http.StatusNotFound, errorResponse{
			TraceID: traceID,
			Error:   "NOT_FOUND",
			Message: "menu item " + name + " not found",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, MenuResponse{TraceID: traceID, Items: toDTOs(items)})
}

// menuItemName returns the decoded {name} parameter. chi routes on RawPath
// when the request carries one, which leaves that parameter escaped.
func menuItemName(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

func toDTOs(items []domain.MenuItem) []MenuItemDTO {
	dtos := make([]MenuItemDTO, 0, len(items))
	for _, it := range items {
		dtos = append(dtos, MenuItemDTO{
			Name:        it.Name,
			Type:        it.Type,
			Price:       it.Price.StringFixed(2),
			Description: it.Description,
			ImageURL:    it.ImageURL,
		})
	}
	return dtos
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
