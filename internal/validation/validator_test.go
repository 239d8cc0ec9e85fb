package validation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Solid7731/flowclient-api/internal/errors"
)

func TestValidate_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input HeartbeatInput
	}{
		{
			name:  "minimal fields",
			input: HeartbeatInput{UUID: "a1111111-1111-1111-1111-111111111111", Username: "alice"},
		},
		{
			name:  "uppercase hex uuid",
			input: HeartbeatInput{UUID: "A1111111-1111-1111-1111-111111111111", Username: "alice"},
		},
		{
			name:  "all fields",
			input: HeartbeatInput{UUID: "a1111111-1111-1111-1111-111111111111", Username: "Player_42", Client: "Lunar", Version: "1.20.4"},
		},
		{
			name:  "min length username",
			input: HeartbeatInput{UUID: "a1111111-1111-1111-1111-111111111111", Username: "abc"},
		},
		{
			name:  "max length username",
			input: HeartbeatInput{UUID: "a1111111-1111-1111-1111-111111111111", Username: "abcdefgh12345678"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Validate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, uuid.MustParse(tt.input.UUID), id)
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		input   HeartbeatInput
		message string
	}{
		{
			name:    "missing uuid",
			input:   HeartbeatInput{Username: "alice"},
			message: "uuid and username are required",
		},
		{
			name:    "missing username",
			input:   HeartbeatInput{UUID: "a1111111-1111-1111-1111-111111111111"},
			message: "uuid and username are required",
		},
		{
			name:    "malformed uuid",
			input:   HeartbeatInput{UUID: "bad", Username: "alice"},
			message: "invalid uuid format",
		},
		{
			name:    "compact uuid form rejected",
			input:   HeartbeatInput{UUID: "a1111111111111111111111111111111", Username: "alice"},
			message: "invalid uuid format",
		},
		{
			name:    "braced uuid form rejected",
			input:   HeartbeatInput{UUID: "{a1111111-1111-1111-1111-111111111111}", Username: "alice"},
			message: "invalid uuid format",
		},
		{
			name:    "username too short",
			input:   HeartbeatInput{UUID: "a1111111-1111-1111-1111-111111111111", Username: "ab"},
			message: "invalid username format",
		},
		{
			name:    "username too long",
			input:   HeartbeatInput{UUID: "a1111111-1111-1111-1111-111111111111", Username: "abcdefgh123456789"},
			message: "invalid username format",
		},
		{
			name:    "username with forbidden characters",
			input:   HeartbeatInput{UUID: "a1111111-1111-1111-1111-111111111111", Username: "al ice!"},
			message: "invalid username format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Validate(tt.input)
			require.Error(t, err)
			assert.Equal(t, uuid.Nil, id)

			var structured *apperrors.Error
			require.ErrorAs(t, err, &structured)
			assert.Equal(t, apperrors.TypeValidation, structured.Type)
			assert.Contains(t, structured.Message, tt.message)
		})
	}
}
