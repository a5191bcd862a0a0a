package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func signTestToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := signToken(secret, claims)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func accessClaims(userID uuid.UUID, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": userID.String(),
		"jti": uuid.NewString(),
		"typ": "access",
		"iat": time.Now().Unix(),
		"exp": exp.Unix(),
	}
}

func TestParseAccess(t *testing.T) {
	secret := []byte("access-secret")
	tokens := NewTokens("access-secret", "refresh-secret", 30*time.Minute, 7*24*time.Hour, nil)
	userID := uuid.New()

	raw := signTestToken(t, secret, accessClaims(userID, time.Now().Add(time.Minute)))
	got, err := tokens.ParseAccess(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != userID {
		t.Errorf("user = %s, want %s", got, userID)
	}
}

func TestParseAccessRejectsExpired(t *testing.T) {
	secret := []byte("access-secret")
	tokens := NewTokens("access-secret", "refresh-secret", 30*time.Minute, 7*24*time.Hour, nil)

	raw := signTestToken(t, secret, accessClaims(uuid.New(), time.Now().Add(-time.Minute)))
	if _, err := tokens.ParseAccess(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: got %v, want ErrInvalidToken", err)
	}
}

func TestParseAccessRejectsWrongSecret(t *testing.T) {
	tokens := NewTokens("access-secret", "refresh-secret", 30*time.Minute, 7*24*time.Hour, nil)

	raw := signTestToken(t, []byte("other-secret"), accessClaims(uuid.New(), time.Now().Add(time.Minute)))
	if _, err := tokens.ParseAccess(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("forged token: got %v, want ErrInvalidToken", err)
	}
}

func TestParseAccessRejectsRefreshToken(t *testing.T) {
	// A refresh token must never pass as an access token, even when
	// signed with the access secret.
	secret := []byte("access-secret")
	tokens := NewTokens("access-secret", "refresh-secret", 30*time.Minute, 7*24*time.Hour, nil)

	claims := accessClaims(uuid.New(), time.Now().Add(time.Minute))
	claims["typ"] = "refresh"
	raw := signTestToken(t, secret, claims)
	if _, err := tokens.ParseAccess(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh-typed token: got %v, want ErrInvalidToken", err)
	}
}

func TestParseAccessRejectsGarbage(t *testing.T) {
	tokens := NewTokens("access-secret", "refresh-secret", 30*time.Minute, 7*24*time.Hour, nil)
	for _, raw := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		if _, err := tokens.ParseAccess(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%q: got %v, want ErrInvalidToken", raw, err)
		}
	}
}

func TestParseTokenRejectsBadSubject(t *testing.T) {
	secret := []byte("s")
	claims := jwt.MapClaims{
		"sub": "not-a-uuid",
		"typ": "access",
		"exp": time.Now().Add(time.Minute).Unix(),
	}
	raw := signTestToken(t, secret, claims)
	if _, _, err := parseToken(raw, secret, "access"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("bad sub: got %v, want ErrInvalidToken", err)
	}
}
