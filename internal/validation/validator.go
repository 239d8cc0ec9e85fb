// Package validation checks the shape of inbound heartbeat fields before
// they reach the registry.
package validation

import (
	"regexp"

	"github.com/google/uuid"

	apperrors "github.com/Solid7731/flowclient-api/internal/errors"
)

// usernamePattern is the accepted display-name charset: word characters,
// 3 to 16 long.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,16}$`)

// canonicalUUIDPattern is the 8-4-4-4-12 hex textual form. uuid.Parse alone
// is too permissive for the wire format: it also accepts urn:, braced, and
// 32-digit compact forms.
var canonicalUUIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// HeartbeatInput is the raw, untrusted heartbeat payload.
type HeartbeatInput struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
	Client   string `json:"client"`
	Version  string `json:"version"`
}

// Validate checks a heartbeat payload and returns the parsed player id.
// Failures are validation errors; nothing invalid reaches the registry.
func Validate(in HeartbeatInput) (uuid.UUID, error) {
	if in.UUID == "" || in.Username == "" {
		return uuid.Nil, apperrors.ValidationError("uuid and username are required")
	}

	if !canonicalUUIDPattern.MatchString(in.UUID) {
		return uuid.Nil, apperrors.ValidationError("invalid uuid format").WithField("uuid", in.UUID)
	}
	id, err := uuid.Parse(in.UUID)
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid uuid format").WithField("uuid", in.UUID)
	}

	if !usernamePattern.MatchString(in.Username) {
		return uuid.Nil, apperrors.ValidationError("invalid username format").WithField("username", in.Username)
	}

	return id, nil
}
