package services

import (
	"context"

	"gorm.io/gorm"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/domain/policy"
	"vizinho-http-service/internal/infrastructure/config"
)

// InterfaceLostItemService defines the lost item service interface
type InterfaceLostItemService interface {
	ListItems(ctx context.Context, query models.PaginationQuery) ([]models.LostItem, models.PaginationResult, error)
	GetItem(ctx context.Context, id uint) (*models.LostItem, error)
	CreateItem(ctx context.Context, actor *models.User, input LostItemInput) (*models.LostItem, error)
	UpdateItem(ctx context.Context, actor *models.User, id uint, input LostItemInput) (*models.LostItem, error)
	DeleteItem(ctx context.Context, actor *models.User, id uint) error
	MarkFound(ctx context.Context, actor *models.User, id uint) (*models.LostItem, error)
}

type LostItemInput struct {
	Title       string
	Description string
	ImageURL    string
}

// LostItemService manages the community lost-and-found board
type LostItemService struct {
	DB     *gorm.DB
	Config *config.Config
	now    Clock
}

// NewLostItemService creates a new lost item service
func NewLostItemService(db *gorm.DB, cfg *config.Config) InterfaceLostItemService {
	return &LostItemService{
		DB:     db,
		Config: cfg,
		now:    systemClock,
	}
}

// 1 ListItems shows unfound items first, each group newest first. The board is public to residents.
func (s *LostItemService) ListItems(ctx context.Context, query models.PaginationQuery) ([]models.LostItem, models.PaginationResult, error) {
	db := s.DB.WithContext(ctx).Model(&models.LostItem{}).Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	var items []models.LostItem
	page, q := paginate(db.Order("found ASC").Order("created_at DESC").Order("id DESC"), query)
	if err := page.Preload("Owner").Find(&items).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}
	return items, models.NewPaginationResult(total, q.PageNum, q.PageSize), nil
}

// 2 GetItem loads one item
func (s *LostItemService) GetItem(ctx context.Context, id uint) (*models.LostItem, error) {
	var item models.LostItem
	if err := findByID(ctx, s.DB.Preload("Owner"), &item, id, "lost item"); err != nil {
		return nil, err
	}
	return &item, nil
}

// 3 CreateItem posts an item owned by actor
func (s *LostItemService) CreateItem(ctx context.Context, actor *models.User, input LostItemInput) (*models.LostItem, error) {
	item, err := models.NewLostItem(actor, input.Title, input.Description, input.ImageURL)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// 4 UpdateItem edits an item; owner or administrator
func (s *LostItemService) UpdateItem(ctx context.Context, actor *models.User, id uint, input LostItemInput) (*models.LostItem, error) {
	var item models.LostItem
	if err := findByID(ctx, s.DB, &item, id, "lost item"); err != nil {
		return nil, err
	}
	if !policy.CanEdit(actor, &item) {
		return nil, models.PermissionDenied("you can only edit your own items")
	}
	if err := item.UpdateDetails(input.Title, input.Description, input.ImageURL); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Model(&models.LostItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"title":       item.Title,
		"description": item.Description,
		"image_url":   item.ImageURL,
	}).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// 5 DeleteItem removes an item; owner or administrator
func (s *LostItemService) DeleteItem(ctx context.Context, actor *models.User, id uint) error {
	var item models.LostItem
	if err := findByID(ctx, s.DB, &item, id, "lost item"); err != nil {
		return err
	}
	if !policy.CanEdit(actor, &item) {
		return models.PermissionDenied("you can only delete your own items")
	}
	return s.DB.WithContext(ctx).Delete(&item).Error
}

// 6 MarkFound closes the item; owner or administrator
func (s *LostItemService) MarkFound(ctx context.Context, actor *models.User, id uint) (*models.LostItem, error) {
	var item models.LostItem
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(ctx, tx, &item, id, "lost item"); err != nil {
			return err
		}
		if !policy.CanEdit(actor, &item) {
			return models.PermissionDenied("only the owner or an administrator can mark this item as found")
		}
		if err := item.MarkFound(s.now()); err != nil {
			return err
		}
		return compareAndSet(tx, &models.LostItem{}, item.ID, "found", false, map[string]interface{}{
			"found":    true,
			"found_at": item.FoundAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}
