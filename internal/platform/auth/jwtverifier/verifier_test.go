package jwtverifier_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/tripsync-app/consensus-api/internal/platform/auth/jwks_testutil"
	"github.com/tripsync-app/consensus-api/internal/platform/auth/jwtverifier"
	"github.com/tripsync-app/consensus-api/internal/platform/config"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testConfig(jwksURL string, refreshInterval time.Duration) config.JWTConfig {
	return config.JWTConfig{
		Issuer:                 "test-iss",
		Audience:               "test-aud",
		JWKSURL:                jwksURL,
		ClockSkew:              0,
		JWKSRefreshInterval:    refreshInterval,
		JWKSMinRefreshInterval: 0,
		HTTPTimeout:            2 * time.Second,
	}
}

func TestVerifier_Verify_ValidToken(t *testing.T) {
	t.Parallel()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	defer jwksSrv.Close()

	kp, err := jwks_testutil.GenerateRSAKeypair("kid-1")
	if err != nil {
		t.Fatalf("GenerateRSAKeypair: %v", err)
	}
	setKeys([]jwks_testutil.Keypair{kp})

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig(jwksSrv.URL, 10*time.Minute)
	v := jwtverifier.NewWithOptions(cfg, nil, clk)

	token, err := jwks_testutil.MintRS256JWT(kp, cfg.Issuer, cfg.Audience, "subject-123", clk.Now(), 5*time.Minute, nil)
	if err != nil {
		t.Fatalf("MintRS256JWT: %v", err)
	}

	sub, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sub != "subject-123" {
		t.Fatalf("sub mismatch: got %q", sub)
	}
}

func TestVerifier_Verify_Expired(t *testing.T) {
	t.Parallel()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	defer jwksSrv.Close()

	kp, _ := jwks_testutil.GenerateRSAKeypair("kid-1")
	setKeys([]jwks_testutil.Keypair{kp})

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig(jwksSrv.URL, 10*time.Minute)
	v := jwtverifier.NewWithOptions(cfg, nil, clk)

	token, _ := jwks_testutil.MintRS256JWT(kp, cfg.Issuer, cfg.Audience, "subject-123", clk.Now(), -1*time.Minute, nil)
	if _, err := v.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected error")
	}
}

func TestVerifier_Verify_WrongIssuerOrAudience(t *testing.T) {
	t.Parallel()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	defer jwksSrv.Close()

	kp, _ := jwks_testutil.GenerateRSAKeypair("kid-1")
	setKeys([]jwks_testutil.Keypair{kp})

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig(jwksSrv.URL, 10*time.Minute)
	v := jwtverifier.NewWithOptions(cfg, nil, clk)

	wrongIss, _ := jwks_testutil.MintRS256JWT(kp, "wrong-iss", cfg.Audience, "subject-123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), wrongIss); err == nil {
		t.Fatalf("expected error for wrong iss")
	}

	wrongAud, _ := jwks_testutil.MintRS256JWT(kp, cfg.Issuer, "wrong-aud", "subject-123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), wrongAud); err == nil {
		t.Fatalf("expected error for wrong aud")
	}
}

func TestVerifier_Verify_BadSignature(t *testing.T) {
	t.Parallel()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	defer jwksSrv.Close()

	kp, _ := jwks_testutil.GenerateRSAKeypair("kid-1")
	setKeys([]jwks_testutil.Keypair{kp})

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig(jwksSrv.URL, 10*time.Minute)
	v := jwtverifier.NewWithOptions(cfg, nil, clk)

	// Mint with a different private key than what's in JWKS.
	other, _ := rsa.GenerateKey(rand.Reader, 2048)
	otherKP := jwks_testutil.Keypair{Kid: "kid-1", Private: other}
	token, _ := jwks_testutil.MintRS256JWT(otherKP, cfg.Issuer, cfg.Audience, "subject-123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected error")
	}
}

func TestVerifier_Verify_JWKSRotation(t *testing.T) {
	t.Parallel()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	defer jwksSrv.Close()

	k1, _ := jwks_testutil.GenerateRSAKeypair("kid-1")
	k2, _ := jwks_testutil.GenerateRSAKeypair("kid-2")
	setKeys([]jwks_testutil.Keypair{k1})

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig(jwksSrv.URL, 1*time.Second)
	v := jwtverifier.NewWithOptions(cfg, nil, clk)

	token1, _ := jwks_testutil.MintRS256JWT(k1, cfg.Issuer, cfg.Audience, "subject-123", clk.Now(), 5*time.Minute, nil)
	if _, err := v.Verify(context.Background(), token1); err != nil {
		t.Fatalf("expected token1 to verify: %v", err)
	}

	// Rotate: JWKS now only contains kid-2.
	setKeys([]jwks_testutil.Keypair{k2})
	clk.Advance(2 * time.Second) // force interval refresh on next Verify call

	if _, err := v.Verify(context.Background(), token1); err == nil {
		t.Fatalf("expected token1 to be rejected after rotation")
	}

	token2, _ := jwks_testutil.MintRS256JWT(k2, cfg.Issuer, cfg.Audience, "subject-456", clk.Now(), 5*time.Minute, nil)
	sub, err := v.Verify(context.Background(), token2)
	if err != nil {
		t.Fatalf("expected token2 to verify: %v", err)
	}
	if sub != "subject-456" {
		t.Fatalf("sub mismatch: got %q", sub)
	}
}
