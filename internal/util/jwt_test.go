package util

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, "HS256", "alice", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	subject, err := ParseToken(testSecret, "HS256", token)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if subject != "alice" {
		t.Errorf("subject mismatch: got %q want %q", subject, "alice")
	}
}

func TestGenerateToken_HonorsCallerTTL(t *testing.T) {
	// issuance must not second-guess the TTL: a non-positive value yields
	// a token that is expired the moment it is minted
	for _, ttl := range []time.Duration{0, -time.Minute} {
		token, err := GenerateToken(testSecret, "HS256", "zoe", ttl)
		if err != nil {
			t.Fatalf("GenerateToken(ttl=%v) error: %v", ttl, err)
		}
		if _, err := ParseToken(testSecret, "HS256", token); err == nil {
			t.Errorf("token issued with ttl=%v should fail validation", ttl)
		}
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(testSecret, "HS256", "bob", -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := ParseToken(testSecret, "HS256", token); err == nil {
		t.Error("expired token should fail validation")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := GenerateToken(testSecret, "HS256", "carol", time.Hour)

	if _, err := ParseToken("other-secret", "HS256", token); err == nil {
		t.Error("token signed with another secret should fail validation")
	}
}

func TestParseToken_Tampered(t *testing.T) {
	token, _ := GenerateToken(testSecret, "HS256", "dave", time.Hour)

	// flip one character in each token segment
	for _, pos := range []int{2, strings.Index(token, ".") + 2, strings.LastIndex(token, ".") + 2} {
		altered := []byte(token)
		if altered[pos] == 'A' {
			altered[pos] = 'B'
		} else {
			altered[pos] = 'A'
		}
		if _, err := ParseToken(testSecret, "HS256", string(altered)); err == nil {
			t.Errorf("token altered at position %d should fail validation", pos)
		}
	}
}

func TestParseToken_Malformed(t *testing.T) {
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		if _, err := ParseToken(testSecret, "HS256", tok); err == nil {
			t.Errorf("malformed token %q should fail validation", tok)
		}
	}
}

func TestParseToken_AlgorithmMismatch(t *testing.T) {
	token, err := GenerateToken(testSecret, "HS512", "erin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	// a validator pinned to HS256 must reject an HS512 token
	if _, err := ParseToken(testSecret, "HS256", token); err == nil {
		t.Error("token with unexpected algorithm should fail validation")
	}
}

func TestGenerateToken_UnknownAlgorithm(t *testing.T) {
	if _, err := GenerateToken(testSecret, "none", "frank", time.Hour); err == nil {
		t.Error("unknown algorithm should return an error")
	}
	if _, err := GenerateToken(testSecret, "RS256", "frank", time.Hour); err == nil {
		t.Error("non-HMAC algorithm should return an error")
	}
}
