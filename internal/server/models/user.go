package models

import (
	"fmt"
	"net/mail"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophvote/internal/common"
)

const (
	MaxUsernameLength = 16
	// bcrypt ignores everything past 72 bytes, so longer passwords are refused.
	MaxPasswordBytes = 72
)

type User struct {
	ID             string
	Username       string
	Email          string
	PasswordDigest string
	Roles          []string
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	Disabled       bool
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// ValidateSignup checks the user-supplied signup fields.
func ValidateSignup(username, email, password string) error {
	if n := utf8.RuneCountInString(username); n < 1 || n > MaxUsernameLength {
		return fmt.Errorf("%w: username must be 1-%d characters", common.ErrValidation, MaxUsernameLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address", common.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password must not be empty", common.ErrValidation)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, MaxPasswordBytes)
	}
	return nil
}

// NormalizeRoles drops blanks and duplicates while keeping order.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}
