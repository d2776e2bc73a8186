package user

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "user-management-service/pkg/errors"
)

func ptr(s string) *string { return &s }

func requireValidationError(t *testing.T, err error, field, message string) {
	t.Helper()
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, field, verr.Field)
	assert.Equal(t, message, verr.Message)
}

func TestNew_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		email string
	}{
		{name: "simple", input: "Juan Pérez", email: "juan@example.com"},
		{name: "two chars", input: "Al", email: "al@x.io"},
		{name: "surrounding spaces kept", input: "  Bo  ", email: "bo@mail.example.org"},
		{name: "multibyte", input: "Ñu", email: "nu@example.es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := New(tt.input, tt.email)
			require.NoError(t, err)
			assert.Equal(t, tt.input, u.Name)
			assert.Equal(t, tt.email, u.Email)
			assert.NotEmpty(t, u.ID)
			assert.False(t, u.CreatedAt.IsZero())
		})
	}
}

func TestNew_NameTooShort(t *testing.T) {
	for _, name := range []string{"", " ", "J", "  J  ", "\tx\n"} {
		t.Run(name, func(t *testing.T) {
			// email is never checked once the name fails
			_, err := New(name, "not-an-email")
			requireValidationError(t, err, "name", MsgNameTooShort)
		})
	}
}

func TestNew_InvalidEmail(t *testing.T) {
	for _, email := range []string{"", "plain", "a@b", "@b.co", "a@.co", "a b@c.co", "a@b c.co", "a@b.", "a@@b.co"} {
		t.Run(email, func(t *testing.T) {
			_, err := New("John Doe", email)
			requireValidationError(t, err, "email", MsgInvalidEmail)
		})
	}
}

func TestNewWithID(t *testing.T) {
	u, err := NewWithID("fixed-id", "John Doe", "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", u.ID)

	generated, err := NewWithID("", "John Doe", "john@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, generated.ID)
	assert.NotEqual(t, "fixed-id", generated.ID)
}

func TestNew_GeneratesDistinctIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		u, err := New("John Doe", "john@example.com")
		require.NoError(t, err)
		_, dup := seen[u.ID]
		require.False(t, dup)
		seen[u.ID] = struct{}{}
	}
}

func TestWithUpdatedFields(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	orig := &User{ID: "u1", Name: "María García", Email: "maria@example.com", CreatedAt: created}

	t.Run("replaces both fields and keeps identity", func(t *testing.T) {
		next, err := orig.WithUpdatedFields(ptr("María García Silva"), ptr("maria.silva@example.com"))
		require.NoError(t, err)
		assert.Equal(t, "u1", next.ID)
		assert.Equal(t, "María García Silva", next.Name)
		assert.Equal(t, "maria.silva@example.com", next.Email)
		assert.Equal(t, created, next.CreatedAt)

		assert.Equal(t, "María García", orig.Name)
		assert.Equal(t, "maria@example.com", orig.Email)
	})

	t.Run("nil fields are kept", func(t *testing.T) {
		next, err := orig.WithUpdatedFields(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, *orig, *next)
		assert.NotSame(t, orig, next)
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := orig.WithUpdatedFields(ptr("M"), nil)
		requireValidationError(t, err, "name", MsgNameTooShort)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := orig.WithUpdatedFields(nil, ptr("maria"))
		requireValidationError(t, err, "email", MsgInvalidEmail)
	})

	t.Run("empty name supplied is validated", func(t *testing.T) {
		_, err := orig.WithUpdatedFields(ptr(""), nil)
		requireValidationError(t, err, "name", MsgNameTooShort)
	})
}

func TestSameIdentity(t *testing.T) {
	a := &User{ID: "1", Name: "A One", Email: "same@example.com"}
	b := &User{ID: "2", Name: "B Two", Email: "same@example.com"}
	c := &User{ID: "1", Name: "A One", Email: "Same@example.com"}

	assert.True(t, a.SameIdentity(b))
	assert.False(t, a.SameIdentity(c))
	assert.False(t, a.SameIdentity(nil))
}

func TestNew_UsesClock(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	orig := nowFunc
	nowFunc = func() time.Time { return fixed }
	t.Cleanup(func() { nowFunc = orig })

	u, err := New("John Doe", "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, fixed, u.CreatedAt)
}
