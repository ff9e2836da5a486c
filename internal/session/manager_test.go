package session

import (
	"errors"
	"testing"
	"time"
)

func TestManager_IssueAndParse(t *testing.T) {
	withClock(t, time.Unix(1_700_000_000, 0))
	m := NewManager("secret", 0)
	if m.TTL() != DefaultTTL {
		t.Fatalf("expected default ttl, got %s", m.TTL())
	}

	in := SessionClaims{
		Subject:          "google-1",
		Email:            "a@b.com",
		Name:             "A B",
		Picture:          "https://example.com/p.png",
		StripeCustomerID: "cus_123",
		Extra:            map[string]any{"plan": "pro"},
	}
	token, exp, err := m.Issue(in)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Equal(time.Unix(1_700_000_000, 0).Add(DefaultTTL)) {
		t.Fatalf("unexpected expiry %s", exp)
	}

	out, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out.Subject != in.Subject || out.Email != in.Email || out.Name != in.Name ||
		out.Picture != in.Picture || out.StripeCustomerID != in.StripeCustomerID {
		t.Fatalf("claims mismatch: %+v", out)
	}
	if out.IssuedAt != 1_700_000_000 || out.ExpiresAt != 1_700_000_000+int64(DefaultTTL/time.Second) {
		t.Fatalf("unexpected iat/exp: %d/%d", out.IssuedAt, out.ExpiresAt)
	}
	if out.Extra["plan"] != "pro" {
		t.Fatalf("extra claims lost: %v", out.Extra)
	}
	if !out.ExpiresTime().Equal(time.Unix(out.ExpiresAt, 0)) {
		t.Fatalf("ExpiresTime mismatch")
	}
}

func TestManager_NotConfigured(t *testing.T) {
	m := NewManager("", time.Hour)
	if m.Configured() {
		t.Fatal("manager without secret reported configured")
	}
	if _, _, err := m.Issue(SessionClaims{Subject: "u1"}); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := m.Parse("a.b.c"); Kind(err) != KindConfig {
		t.Fatalf("expected config kind, got %v", err)
	}
}

func TestManager_ParseRequiresSubject(t *testing.T) {
	token, err := Sign(Claims{"email": "a@b.com"}, []byte("secret"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	_, err = NewManager("secret", time.Hour).Parse(token)
	if !errors.Is(err, ErrMissingSubject) || Kind(err) != KindMalformed {
		t.Fatalf("expected ErrMissingSubject, got %v", err)
	}
}

func TestSessionClaims_OmitsEmptyFields(t *testing.T) {
	c := SessionClaims{Subject: "u1"}.Claims()
	if len(c) != 1 || c["sub"] != "u1" {
		t.Fatalf("unexpected claims %v", c)
	}
}

func TestKind(t *testing.T) {
	cases := map[error]ErrorKind{
		nil:                  KindNone,
		ErrMissingSecret:     KindConfig,
		ErrMalformedToken:    KindMalformed,
		ErrMalformedPayload:  KindMalformed,
		ErrSignatureMismatch: KindSignature,
		ErrTokenExpired:      KindExpired,
		errors.New("other"):  KindUnknown,
	}
	for err, want := range cases {
		if got := Kind(err); got != want {
			t.Fatalf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
}
