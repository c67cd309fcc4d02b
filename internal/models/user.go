package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// UnknownUserName is shown for reactions and comments whose user no longer exists.
const UnknownUserName = "Unknown User"

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name"`
	Email       string    `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	FirebaseUID string    `json:"firebase_uid,omitempty" gorm:"uniqueIndex;default:null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName returns the user's name, or the placeholder for a missing user.
func DisplayName(u *User) string {
	if u == nil || u.Name == "" {
		return UnknownUserName
	}
	return u.Name
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
