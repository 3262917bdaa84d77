package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/NatiqIskandarli/papercut-backend/internal/requestdata"
)

func signTestToken(t *testing.T, secret string, userID uuid.UUID, email, role string, ttl time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestSetContextFromToken(t *testing.T) {
	svc := NewAuthService(nil, testLogger(t), nil, "test-secret", time.Hour)
	userID := uuid.New()
	token := signTestToken(t, "test-secret", userID, "a@example.com", "member", time.Hour)

	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		t.Fatalf("expected request data in context")
	}
	if rd.UserID != userID || rd.Email != "a@example.com" || rd.Role != "member" {
		t.Fatalf("unexpected request data: %+v", rd)
	}
}

func TestSetContextFromTokenRejectsBadSignature(t *testing.T) {
	svc := NewAuthService(nil, testLogger(t), nil, "test-secret", time.Hour)
	token := signTestToken(t, "wrong-secret", uuid.New(), "a@example.com", "member", time.Hour)

	if _, err := svc.SetContextFromToken(context.Background(), token); err == nil {
		t.Fatalf("expected error for token signed with the wrong secret")
	}
}

func TestSetContextFromTokenRejectsExpired(t *testing.T) {
	svc := NewAuthService(nil, testLogger(t), nil, "test-secret", time.Hour)
	token := signTestToken(t, "test-secret", uuid.New(), "a@example.com", "member", -time.Minute)

	if _, err := svc.SetContextFromToken(context.Background(), token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}
