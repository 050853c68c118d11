package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	t.Run("round trip keeps user and admin flag", func(t *testing.T) {
		token, err := m.Generate("alice", true)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != "alice" || !claims.Admin {
			t.Errorf("claims = %+v, want alice admin", claims)
		}
	})

	t.Run("empty user id is rejected", func(t *testing.T) {
		if _, err := m.Generate("", false); err == nil {
			t.Error("expected error for empty user id")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _ := NewJWTManager("other-secret", time.Hour).Generate("bob", false)
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, _ := NewJWTManager("test-secret", -time.Minute).Generate("bob", false)
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("unsigned token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
			UserID:           "mallory",
			Admin:            true,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
		})
		s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("sign none: %v", err)
		}
		if _, err := m.Validate(s); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate error = %v, want ErrInvalidToken", err)
		}
	})
}
