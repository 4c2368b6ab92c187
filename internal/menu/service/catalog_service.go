package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cafe/internal/domain"
	apperrors "cafe/internal/errors"
	"cafe/internal/session"
)

// Column widths of the Menu table.
const (
	maxNameLength        = 50
	maxTypeLength        = 20
	maxDescriptionLength = 400
	maxImageURLLength    = 256
)

type Repository interface {
	ListAll(ctx context.Context) ([]domain.MenuItem, error)
	FindByName(ctx context.Context, name string) ([]domain.MenuItem, error)
	FindByType(ctx context.Context, itemType string) ([]domain.MenuItem, error)
	Insert(ctx context.Context, item domain.MenuItem) error
	Update(ctx context.Context, item domain.MenuItem) error
	Delete(ctx context.Context, name string) error
}

type ManagerGate interface {
	Authorize(ctx context.Context, sess *session.Session) error
}

type CatalogService struct {
	repo   Repository
	gate   ManagerGate
	logger *zap.Logger
}

func NewCatalogService(repo Repository, gate ManagerGate, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, gate: gate, logger: logger}
}

func (s *CatalogService) ListAll(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.ListAll(ctx)
}

func (s *CatalogService) FindByName(ctx context.Context, name string) ([]domain.MenuItem, error) {
	return s.repo.FindByName(ctx, strings.TrimSpace(name))
}

func (s *CatalogService) FindByType(ctx context.Context, itemType string) ([]domain.MenuItem, error) {
	return s.repo.FindByType(ctx, strings.TrimSpace(itemType))
}

func (s *CatalogService) Add(ctx context.Context, sess *session.Session, item domain.MenuItem) error {
	if err := s.gate.Authorize(ctx, sess); err != nil {
		return err
	}

	item.Name = strings.TrimSpace(item.Name)
	item.Type = strings.TrimSpace(item.Type)
	if err := validateItem(item, true); err != nil {
		return err
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		s.logger.Error("add menu item failed", zap.String("traceId", sess.ID()), zap.String("item", item.Name), zap.Error(err))
		if _, ok := apperrors.IsStoreError(err); ok {
			return apperrors.NewStoreError("add failed", err)
		}
		return err
	}

	s.logger.Info("menu item added", zap.String("traceId", sess.ID()), zap.String("item", item.Name), zap.String("price", item.Price.StringFixed(2)))
	return nil
}

// Update replaces price, description and image of the named item.
func (s *CatalogService) Update(ctx context.Context, sess *session.Session, name string, price decimal.Decimal, description, imageURL string) error {
	if err := s.gate.Authorize(ctx, sess); err != nil {
		return err
	}

	item := domain.MenuItem{
		Name:        strings.TrimSpace(name),
		Price:       price,
		Description: description,
		ImageURL:    imageURL,
	}
	if err := validateItem(item, false); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, item); err != nil {
		s.logger.Warn("update menu item failed", zap.String("traceId", sess.ID()), zap.String("item", item.Name), zap.Error(err))
		return err
	}

	s.logger.Info("menu item updated", zap.String("traceId", sess.ID()), zap.String("item", item.Name))
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, sess *session.Session, name string) error {
	if err := s.gate.Authorize(ctx, sess); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("item name is required", apperrors.ValidationDetail{
			Field:   "itemName",
			Message: "item name is required",
		})
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		s.logger.Warn("delete menu item failed", zap.String("traceId", sess.ID()), zap.String("item", name), zap.Error(err))
		return err
	}

	s.logger.Info("menu item deleted", zap.String("traceId", sess.ID()), zap.String("item", name))
	return nil
}

func validateItem(item domain.MenuItem, requireType bool) error {
	var details []apperrors.ValidationDetail

	if item.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "itemName", Message: "item name is required"})
	}
	if requireType && item.Type == "" {
		details = append(details, apperrors.ValidationDetail{Field: "type", Message: "item type is required"})
	}
	if utf8.RuneCountInString(item.Name) > maxNameLength {
		details = append(details, apperrors.ValidationDetail{Field: "itemName", Message: fmt.Sprintf("item name must be at most %d characters", maxNameLength)})
	}
	if utf8.RuneCountInString(item.Type) > maxTypeLength {
		details = append(details, apperrors.ValidationDetail{Field: "type", Message: fmt.Sprintf("item type must be at most %d characters", maxTypeLength)})
	}
	if utf8.RuneCountInString(item.Description) > maxDescriptionLength {
		details = append(details, apperrors.ValidationDetail{Field: "description", Message: fmt.Sprintf("description must be at most %d characters", maxDescriptionLength)})
	}
	if utf8.RuneCountInString(item.ImageURL) > maxImageURLLength {
		details = append(details, apperrors.ValidationDetail{Field: "imageURL", Message: fmt.Sprintf("image URL must be at most %d characters", maxImageURLLength)})
	}
	if item.Price.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("invalid menu item", details...)
	}
	return nil
}
