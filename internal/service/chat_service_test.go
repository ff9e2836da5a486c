package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/repcrafter/gateway/internal/chat"
	"github.com/repcrafter/gateway/internal/events"
	"github.com/repcrafter/gateway/internal/session"
	apperrors "github.com/repcrafter/gateway/pkg/util/errorutil"
)

func TestChat_Send(t *testing.T) {
	forwarder := &fakeForwarder{resp: &chat.Response{Status: 200, Body: []byte(`{"ok":true}`), JSON: true}}
	dispatcher := &recordingDispatcher{}
	svc := NewChatService(forwarder, dispatcher, zap.NewNop())

	claims := &session.SessionClaims{Subject: "g-1", Email: "a@b.com", StripeCustomerID: "cus_1"}
	resp, err := svc.Send(context.Background(), claims, map[string]any{"message": "hi"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Fatalf("unexpected response %+v", resp)
	}
	if u := forwarder.lastUser; u == nil || u.ID != "g-1" || u.Email != "a@b.com" || u.StripeCustomerID != "cus_1" {
		t.Fatalf("unexpected user %+v", forwarder.lastUser)
	}
	if types := dispatcher.types(); len(types) != 1 || types[0] != events.EventChatForwarded {
		t.Fatalf("unexpected events %v", types)
	}

	if _, err := svc.Send(context.Background(), nil, nil); err != nil {
		t.Fatalf("anonymous Send: %v", err)
	}
	if forwarder.lastUser != nil {
		t.Fatalf("anonymous caller forwarded user %+v", forwarder.lastUser)
	}
}

func TestChat_SendErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"not configured", chat.ErrNotConfigured, apperrors.CodeServerMisconfigured, 500},
		{"upstream", &chat.UpstreamError{Status: 500, Detail: "oops"}, apperrors.CodeWebhookFailed, 502},
		{"transport", errBoom, apperrors.CodeChatFailed, 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewChatService(&fakeForwarder{err: tc.err}, nil, zap.NewNop())
			_, err := svc.Send(context.Background(), nil, nil)
			if code, status := domainCode(t, err); code != tc.code || status != tc.status {
				t.Fatalf("expected %s/%d, got %s/%d", tc.code, tc.status, code, status)
			}
		})
	}
}
