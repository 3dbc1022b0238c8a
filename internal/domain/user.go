package domain

import (
	"fmt"
	"strings"
	"time"
)

// User owns orders. Only Username and Email change after creation.
type User struct {
	ID           uint64    `json:"user_id" gorm:"column:user_id;primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("%w: password_hash is required", ErrValidation)
	}
	return nil
}

// UserPatch is a sparse update of a User.
type UserPatch struct {
	Username Optional[string] `json:"username,omitzero"`
	Email    Optional[string] `json:"email,omitzero"`
}

// Apply merges p into u and reports whether anything changed. u is left
// untouched when the merged result is invalid.
func (p UserPatch) Apply(u *User, mode UpdateMode) (bool, error) {
	next := *u
	if mode.takes(p.Username.Present, p.Username.Value == "") {
		next.Username = p.Username.Value
	}
	if mode.takes(p.Email.Present, p.Email.Value == "") {
		next.Email = p.Email.Value
	}
	if err := next.Validate(); err != nil {
		return false, err
	}
	changed := next != *u
	*u = next
	return changed, nil
}
