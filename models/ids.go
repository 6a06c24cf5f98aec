package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a random UUID string used as a primary key.
func NewID() string {
	return uuid.NewString()
}

// NewReferralCode returns a short, shareable uppercase code.
func NewReferralCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "FLW-" + raw[:8]
}
