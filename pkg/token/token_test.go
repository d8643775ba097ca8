package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		m := NewManager("test-secret", "golinks", time.Hour)

		signed, err := m.Generate("u1")
		assert.NoError(t, err)
		assert.NotEmpty(t, signed)

		claims, err := m.Validate(signed)
		assert.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
		assert.Equal(t, "golinks", claims.Issuer)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		m := NewManager("test-secret", "golinks", time.Hour)
		other := NewManager("other-secret", "golinks", time.Hour)

		signed, err := m.Generate("u1")
		assert.NoError(t, err)

		claims, err := other.Validate(signed)
		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		m := NewManager("test-secret", "someone-else", time.Hour)
		validator := NewManager("test-secret", "golinks", time.Hour)

		signed, err := m.Generate("u1")
		assert.NoError(t, err)

		claims, err := validator.Validate(signed)
		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		m := NewManager("test-secret", "golinks", -time.Minute)

		signed, err := m.Generate("u1")
		assert.NoError(t, err)

		claims, err := m.Validate(signed)
		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("garbage token", func(t *testing.T) {
		m := NewManager("test-secret", "golinks", time.Hour)

		claims, err := m.Validate("not a token")
		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})
}
