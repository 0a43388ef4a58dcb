package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User roles, ordered by privilege.
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

type User struct {
	gorm.Model
	Username      string `gorm:"uniqueIndex;not null"`
	Email         string `gorm:"not null"`
	FullName      string
	Password      string `gorm:"not null"` // bcrypt hash
	Role          string `gorm:"default:user"`
	IsActive      bool   `gorm:"default:false"`
	ActivationKey string `gorm:"index"`
	ResetKey      string `gorm:"index"`
	ResetSentAt   *time.Time
	Languages     []*Language `gorm:"many2many:user_languages"`
}

func (u *User) String() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// IsStaff reports whether the user may access the admin pages.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin
}
