package auth

import (
	"testing"
	"time"
)

func TestResolveSessionRejectsExpiredToken(t *testing.T) {
	m := NewManager()
	_, token, err := m.Register("alice_01", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	m.mu.Lock()
	rec := m.sessions[token]
	rec.ExpiresAt = time.Now().Add(-time.Minute)
	m.sessions[token] = rec
	m.mu.Unlock()

	if _, _, ok := m.ResolveSession(token); ok {
		t.Fatalf("expected expired session to be rejected")
	}
	m.mu.Lock()
	_, still := m.sessions[token]
	m.mu.Unlock()
	if still {
		t.Fatalf("expected expired session to be evicted")
	}
}

func TestResolveSessionRefreshesExpiry(t *testing.T) {
	m := NewManager()
	_, token, err := m.Register("alice_01", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	m.mu.Lock()
	rec := m.sessions[token]
	rec.ExpiresAt = time.Now().Add(time.Minute)
	m.sessions[token] = rec
	m.mu.Unlock()

	if _, _, ok := m.ResolveSession(token); !ok {
		t.Fatalf("expected valid session")
	}

	m.mu.Lock()
	refreshed := m.sessions[token].ExpiresAt
	m.mu.Unlock()
	if refreshed.Before(time.Now().Add(m.sessionTTL - time.Minute)) {
		t.Fatalf("expected resolve to extend expiry, got %v", refreshed)
	}
}

func TestValidateUsernameRules(t *testing.T) {
	valid := []string{"abc", "user_01", "a.b-c", "X123456789012345678901234567890_"}
	for _, name := range valid {
		if err := validateUsername(name); err != nil {
			t.Errorf("expected %q to validate, got %v", name, err)
		}
	}
	invalid := []string{"", "ab", ".leading", "has space", "way_too_long_username_over_32_chars_x"}
	for _, name := range invalid {
		if err := validateUsername(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}
