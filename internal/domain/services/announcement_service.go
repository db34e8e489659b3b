package services

import (
	"context"

	"gorm.io/gorm"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/domain/policy"
	"vizinho-http-service/internal/infrastructure/config"
)

// InterfaceAnnouncementService defines the announcement service interface
type InterfaceAnnouncementService interface {
	ListAnnouncements(ctx context.Context, query models.PaginationQuery) ([]models.Announcement, models.PaginationResult, error)
	GetAnnouncement(ctx context.Context, id uint) (*models.Announcement, error)
	CreateAnnouncement(ctx context.Context, actor *models.User, title, content string) (*models.Announcement, error)
	UpdateAnnouncement(ctx context.Context, actor *models.User, id uint, title, content string) (*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, actor *models.User, id uint) error
}

type AnnouncementService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(db *gorm.DB, cfg *config.Config) InterfaceAnnouncementService {
	return &AnnouncementService{
		DB:     db,
		Config: cfg,
	}
}

// 1 ListAnnouncements returns a page of announcements, newest first
func (s *AnnouncementService) ListAnnouncements(ctx context.Context, query models.PaginationQuery) ([]models.Announcement, models.PaginationResult, error) {
	db := s.DB.WithContext(ctx).Model(&models.Announcement{}).Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	var announcements []models.Announcement
	page, q := paginate(db.Order("created_at DESC").Order("id DESC"), query)
	if err := page.Preload("Author").Find(&announcements).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}
	return announcements, models.NewPaginationResult(total, q.PageNum, q.PageSize), nil
}

// 2 GetAnnouncement loads one announcement
func (s *AnnouncementService) GetAnnouncement(ctx context.Context, id uint) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := findByID(ctx, s.DB.Preload("Author"), &announcement, id, "announcement"); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// 3 CreateAnnouncement posts an announcement authored by actor
func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, actor *models.User, title, content string) (*models.Announcement, error) {
	announcement, err := models.NewAnnouncement(actor, title, content)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(announcement).Error; err != nil {
		return nil, err
	}
	return announcement, nil
}

// 4 UpdateAnnouncement edits an announcement; administrators only
func (s *AnnouncementService) UpdateAnnouncement(ctx context.Context, actor *models.User, id uint, title, content string) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := findByID(ctx, s.DB, &announcement, id, "announcement"); err != nil {
		return nil, err
	}
	if !policy.CanEdit(actor, &announcement) {
		return nil, models.PermissionDenied("only administrators can edit announcements")
	}
	if err := announcement.Update(title, content); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Model(&models.Announcement{}).Where("id = ?", announcement.ID).Updates(map[string]interface{}{
		"title":   announcement.Title,
		"content": announcement.Content,
	}).Error
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

// 5 DeleteAnnouncement removes an announcement and its comments; administrators only
func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, actor *models.User, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var announcement models.Announcement
		if err := findByID(ctx, tx, &announcement, id, "announcement"); err != nil {
			return err
		}
		if !policy.CanEdit(actor, &announcement) {
			return models.PermissionDenied("only administrators can delete announcements")
		}
		if err := tx.Where("announcement_id = ?", announcement.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&announcement).Error
	})
}
