package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/infrastructure/config"
	Logger "vizinho-http-service/pkg/logger"
)

const defaultAdminUsername = "admin"

// InterfaceUserService defines the user service interface
type InterfaceUserService interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context, actor *models.User, query models.PaginationQuery) ([]models.User, models.PaginationResult, error)
	CreateUser(ctx context.Context, actor *models.User, input CreateUserInput) (*models.User, error)
	ChangeRole(ctx context.Context, actor *models.User, id uint, role models.Role) (*models.User, error)
	GetProfile(ctx context.Context, user *models.User) (*models.Profile, error)
	UpdateProfile(ctx context.Context, user *models.User, input UpdateProfileInput) (*models.Profile, error)
	EnsureAdminExists(ctx context.Context) error
}

// CreateUserInput carries the registration fields
type CreateUserInput struct {
	Username string
	Password string
	Email    string
	Phone    string
	Role     models.Role
}

// UpdateProfileInput carries the editable profile and contact fields; nil leaves a field as is
type UpdateProfileInput struct {
	Email    *string
	Phone    *string
	PhotoURL *string
	Bio      *string
}

// UserService manages users and their profiles
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetUserByID loads a user with the profile
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFound("user %d not found", id)
		}
		return nil, err
	}
	return &user, nil
}

// 2 ListUsers returns a page of users, administrators only
func (s *UserService) ListUsers(ctx context.Context, actor *models.User, query models.PaginationQuery) ([]models.User, models.PaginationResult, error) {
	if !actor.IsAdmin() {
		return nil, models.PaginationResult{}, models.PermissionDenied("only administrators can list users")
	}

	var users []models.User
	var total int64
	db := s.DB.WithContext(ctx).Model(&models.User{}).Session(&gorm.Session{})
	if err := db.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	page, q := paginate(db.Order(order("id", query.Desc)), query)
	if err := page.Find(&users).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}
	return users, models.NewPaginationResult(total, q.PageNum, q.PageSize), nil
}

// 3 CreateUser registers a user and its empty profile in one transaction
func (s *UserService) CreateUser(ctx context.Context, actor *models.User, input CreateUserInput) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, models.PermissionDenied("only administrators can create users")
	}
	return s.createUser(ctx, input)
}

func (s *UserService) createUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if input.Role == "" {
		input.Role = models.RoleResident
	}
	user, err := models.NewUser(input.Username, input.Password, input.Email, input.Phone, input.Role)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.ValidationError("username %q is already taken", user.Username)
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile := &models.Profile{UserID: user.ID}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// 4 ChangeRole promotes or demotes a user
func (s *UserService) ChangeRole(ctx context.Context, actor *models.User, id uint, role models.Role) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, models.PermissionDenied("only administrators can change roles")
	}
	if actor.ID == id && role != models.RoleAdministrator {
		return nil, models.ValidationError("administrators cannot demote themselves")
	}

	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.SetRole(role); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(user).Update("role", string(user.Role)).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// 5 GetProfile returns the profile of user, creating it if an older account lacks one
func (s *UserService) GetProfile(ctx context.Context, user *models.User) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.WithContext(ctx).
		Where(models.Profile{UserID: user.ID}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// 6 UpdateProfile changes contact fields on the user and the profile fields
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, input UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.GetProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	userUpdates := map[string]interface{}{}
	if input.Phone != nil {
		if err := user.SetPhone(*input.Phone); err != nil {
			return nil, err
		}
		userUpdates["phone"] = user.Phone
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
		userUpdates["email"] = user.Email
	}
	if input.Bio != nil {
		if err := profile.SetBio(*input.Bio); err != nil {
			return nil, err
		}
	}
	if input.PhotoURL != nil {
		profile.PhotoURL = strings.TrimSpace(*input.PhotoURL)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(userUpdates) > 0 {
			if err := tx.Model(user).Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		return tx.Model(profile).Updates(map[string]interface{}{
			"bio":       profile.Bio,
			"photo_url": profile.PhotoURL,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// 7 EnsureAdminExists creates the default administrator when no administrator exists
func (s *UserService) EnsureAdminExists(ctx context.Context) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", string(models.RoleAdministrator)).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err := s.createUser(ctx, CreateUserInput{
		Username: defaultAdminUsername,
		Password: s.Config.DefaultAdminPassword,
		Role:     models.RoleAdministrator,
	})
	if err != nil {
		return err
	}
	Logger.Info("default administrator %q created", defaultAdminUsername)
	return nil
}
