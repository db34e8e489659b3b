package models

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role of a portal user
type Role string

const (
	RoleResident      Role = "resident"
	RoleAdministrator Role = "administrator"
)

const (
	MinPhoneLength = 8
	MaxBioLength   = 500
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleResident || r == RoleAdministrator
}

// ParseRole converts a request value into a Role, empty means resident
func ParseRole(value string) (Role, error) {
	if value == "" {
		return RoleResident, nil
	}
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", ValidationError("invalid role %q, valid options: %s, %s", value, RoleResident, RoleAdministrator)
	}
	return role, nil
}

// User represents a resident or an administrator of the community
type User struct {
	BaseModel
	Username string   `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password string   `gorm:"type:varchar(100);not null" json:"-"`
	Email    string   `gorm:"type:varchar(100)" json:"email"`
	Phone    string   `gorm:"type:varchar(20)" json:"phone"`
	Role     Role     `gorm:"type:varchar(20);not null;default:'resident'" json:"role"`
	Profile  *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// NewUser validates the registration fields. The password is hashed on insert.
func NewUser(username, password, email, phone string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ValidationError("username is required")
	}
	if utf8.RuneCountInString(username) > 50 {
		return nil, ValidationError("username cannot exceed 50 characters")
	}
	if len(password) < 6 {
		return nil, ValidationError("password must have at least 6 characters")
	}

	u := &User{Username: username, Password: password, Email: strings.TrimSpace(email)}
	if err := u.SetPhone(phone); err != nil {
		return nil, err
	}
	if err := u.SetRole(role); err != nil {
		return nil, err
	}
	return u, nil
}

// IsAdmin reports whether the user holds the administrator role. Nil is never admin.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdministrator
}

// SetPhone stores phone after checking its minimum length; empty clears it
func (u *User) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone != "" && len(phone) < MinPhoneLength {
		return ValidationError("phone must have at least %d digits", MinPhoneLength)
	}
	u.Phone = phone
	return nil
}

// SetRole changes the role after checking it is known
func (u *User) SetRole(role Role) error {
	if !role.Valid() {
		return ValidationError("invalid role %q", role)
	}
	u.Role = role
	return nil
}

// CheckPassword compares password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// BeforeCreate hashes a plain-text password
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Password != "" && !isHashed(u.Password) {
		hashed, err := HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
	}
	return nil
}

// Profile holds the optional personal details of a user
type Profile struct {
	BaseModel
	UserID   uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	PhotoURL string `gorm:"type:varchar(500)" json:"photo_url"`
	Bio      string `gorm:"type:text" json:"bio"`
}

// SetBio stores bio, rejecting anything over MaxBioLength characters
func (p *Profile) SetBio(bio string) error {
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return ValidationError("bio cannot exceed %d characters", MaxBioLength)
	}
	p.Bio = bio
	return nil
}

// HashPassword hashes password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash compares password with a bcrypt hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func isHashed(password string) bool {
	_, err := bcrypt.Cost([]byte(password))
	return err == nil
}
