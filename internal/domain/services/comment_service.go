package services

import (
	"context"

	"gorm.io/gorm"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/domain/policy"
	"vizinho-http-service/internal/infrastructure/config"
)

// InterfaceCommentService defines the comment service interface
type InterfaceCommentService interface {
	ListComments(ctx context.Context, actor *models.User, parent CommentParent) ([]models.Comment, error)
	CreateComment(ctx context.Context, actor *models.User, parent CommentParent, content string) (*models.Comment, error)
	EditComment(ctx context.Context, actor *models.User, id uint, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor *models.User, id uint) error
}

// CommentParent points at the report or the announcement a comment belongs to
type CommentParent struct {
	ReportID       *uint
	AnnouncementID *uint
}

// CommentService manages discussion threads on reports and announcements
type CommentService struct {
	DB     *gorm.DB
	Config *config.Config
	now    Clock
}

// NewCommentService creates a new comment service
func NewCommentService(db *gorm.DB, cfg *config.Config) InterfaceCommentService {
	return &CommentService{
		DB:     db,
		Config: cfg,
		now:    systemClock,
	}
}

// 1 ListComments returns the thread of one parent, oldest first
func (s *CommentService) ListComments(ctx context.Context, actor *models.User, parent CommentParent) ([]models.Comment, error) {
	query := s.DB.WithContext(ctx)
	switch {
	case parent.ReportID != nil && *parent.ReportID != 0:
		var report models.Report
		if err := findByID(ctx, s.DB, &report, *parent.ReportID, "report"); err != nil {
			return nil, err
		}
		if !policy.CanView(actor, &report) {
			return nil, models.PermissionDenied("you can only read comments on your own reports")
		}
		query = query.Where("report_id = ?", report.ID)
	case parent.AnnouncementID != nil && *parent.AnnouncementID != 0:
		query = query.Where("announcement_id = ?", *parent.AnnouncementID)
	default:
		return nil, models.ValidationError("report_id or announcement_id is required")
	}

	var comments []models.Comment
	if err := query.Preload("Author").Order("created_at ASC").Order("id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// 2 CreateComment attaches a comment to an existing parent
func (s *CommentService) CreateComment(ctx context.Context, actor *models.User, parent CommentParent, content string) (*models.Comment, error) {
	comment, err := models.NewComment(actor, content, parent.ReportID, parent.AnnouncementID)
	if err != nil {
		return nil, err
	}

	if comment.ReportID != nil {
		var report models.Report
		if err := findByID(ctx, s.DB, &report, *comment.ReportID, "report"); err != nil {
			return nil, err
		}
	} else {
		var announcement models.Announcement
		if err := findByID(ctx, s.DB, &announcement, *comment.AnnouncementID, "announcement"); err != nil {
			return nil, err
		}
	}

	if err := s.DB.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// 3 EditComment replaces the content; author or administrator
func (s *CommentService) EditComment(ctx context.Context, actor *models.User, id uint, content string) (*models.Comment, error) {
	var comment models.Comment
	if err := findByID(ctx, s.DB, &comment, id, "comment"); err != nil {
		return nil, err
	}
	if !policy.CanEdit(actor, &comment) {
		return nil, models.PermissionDenied("you can only edit your own comments")
	}
	if err := comment.Edit(content, s.now()); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", comment.ID).Updates(map[string]interface{}{
		"content":   comment.Content,
		"edited":    comment.Edited,
		"edited_at": comment.EditedAt,
	}).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// 4 DeleteComment removes a comment; author or administrator
func (s *CommentService) DeleteComment(ctx context.Context, actor *models.User, id uint) error {
	var comment models.Comment
	if err := findByID(ctx, s.DB, &comment, id, "comment"); err != nil {
		return err
	}
	if !policy.CanEdit(actor, &comment) {
		return models.PermissionDenied("you can only delete your own comments")
	}
	return s.DB.WithContext(ctx).Delete(&comment).Error
}
