package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/planora/planora-api/internal/config"
)

func TestSendMessageValidation(t *testing.T) {
	h := NewMessageHandler(testCfg(), &fakeNotifier{})

	for _, body := range []string{`{}`, `{"to":"+4912345"}`, `{"body":"hi"}`, `{"to":"  ","body":"hi"}`} {
		rec := postJSON(t, h.Send, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Send(%s) status = %d, want 400", body, rec.Code)
		}
	}
}

func TestSendMessageQueuesSMS(t *testing.T) {
	cfg := config.Config{SMSFrom: "+1555000"}
	notifier := &fakeNotifier{}
	h := NewMessageHandler(cfg, notifier)

	rec := postJSON(t, h.Send, `{"to":"+4912345","body":"see you there"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(notifier.sms) != 1 {
		t.Fatalf("sent %d messages, want 1", len(notifier.sms))
	}
	msg := notifier.sms[0]
	if msg.From != "+1555000" || msg.To != "+4912345" || msg.Body != "see you there" {
		t.Errorf("unexpected message: %+v", msg)
	}
}

func TestSendMessageBrokerFailure(t *testing.T) {
	h := NewMessageHandler(testCfg(), &fakeNotifier{err: errors.New("broker down")})

	rec := postJSON(t, h.Send, `{"to":"+4912345","body":"hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
