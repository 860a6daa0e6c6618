package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newJWTer(ttl time.Duration) *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: ttl}
}

func TestIssueParse_RoundTrip(t *testing.T) {
	j := newJWTer(time.Minute)
	tok, err := j.Issue("alice", []string{"ROLE_ADMIN", "ROLE_USER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	c, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Subject != "alice" {
		t.Fatalf("sub = %q, want alice", c.Subject)
	}
	if len(c.Roles) != 2 || c.Roles[0] != "ROLE_ADMIN" {
		t.Fatalf("roles = %v", c.Roles)
	}
	if c.ExpiresAt == nil || c.IssuedAt == nil {
		t.Fatalf("exp/iat missing: %+v", c)
	}
}

func TestParse_Expired(t *testing.T) {
	j := newJWTer(-time.Minute)
	tok, err := j.Issue("alice", []string{"ROLE_USER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := j.Parse(tok); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestParse_ExpEqualsNowIsExpired(t *testing.T) {
	// 手工造一个 exp == 当前解析时刻的 token；零 leeway 下必须判过期
	j := newJWTer(time.Minute)
	now := time.Now().Truncate(time.Second)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := j.Parse(tok); err == nil {
		t.Fatalf("expected exp == now to be expired")
	}
}

func TestParse_Tampered(t *testing.T) {
	j := newJWTer(time.Minute)
	tok, err := j.Issue("alice", []string{"ROLE_USER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("token parts = %d", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := j.Parse(tampered); err == nil {
		t.Fatalf("expected error for tampered signature")
	}
}

func TestParse_WrongSecret(t *testing.T) {
	j := newJWTer(time.Minute)
	tok, err := j.Issue("alice", []string{"ROLE_USER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other := &JWTer{Secret: []byte("other-secret"), Issuer: "test", TTL: time.Minute}
	if _, err := other.Parse(tok); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestParse_WrongAlg(t *testing.T) {
	j := newJWTer(time.Minute)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString(j.Secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := j.Parse(tok); err == nil {
		t.Fatalf("expected error for HS384 token")
	}
}

func TestParse_MissingExp(t *testing.T) {
	j := newJWTer(time.Minute)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  j.Issuer,
			Subject: "alice",
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := j.Parse(tok); err == nil {
		t.Fatalf("expected error for token without exp")
	}
}
