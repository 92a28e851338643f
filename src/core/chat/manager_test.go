package chat_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pdfchat/src/core/chat"
)

func newTestManager(provider chat.LLMProvider) *chat.Manager {
	factory := func(name string) (chat.LLMProvider, error) {
		if name != "fake" {
			return nil, fmt.Errorf("unknown provider %q", name)
		}
		return provider, nil
	}
	return chat.NewManager(chat.NewAnswerer(&fakeQueryStore{}, 3), factory, 10)
}

func TestManagerSessionLifecycle(t *testing.T) {
	m := newTestManager(&fakeProvider{})

	sess := m.Create()
	if sess.ID == "" {
		t.Fatal("created session has empty ID")
	}

	got, err := m.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != sess {
		t.Error("Get returned a different session")
	}

	if _, err := m.Get("no-such-session"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Errorf("Get unknown id error = %v, want ErrSessionNotFound", err)
	}
}

func TestManagerSetModel(t *testing.T) {
	m := newTestManager(&fakeProvider{})
	sess := m.Create()

	if err := m.SetModel(sess.ID, "fake"); err != nil {
		t.Fatalf("SetModel returned error: %v", err)
	}
	if sess.Provider() == nil {
		t.Error("SetModel did not install the provider")
	}

	if err := m.SetModel(sess.ID, "bogus"); err == nil {
		t.Error("SetModel accepted an unknown provider")
	}
	if err := m.SetModel("no-such-session", "fake"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Errorf("SetModel unknown session error = %v, want ErrSessionNotFound", err)
	}
}

func TestManagerAskAppendsTurns(t *testing.T) {
	m := newTestManager(&fakeProvider{})
	sess := m.Create()
	if err := m.SetModel(sess.ID, "fake"); err != nil {
		t.Fatalf("SetModel returned error: %v", err)
	}

	answer, err := m.Ask(context.Background(), sess.ID, "hello", false)
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if answer.Kind != chat.KindAnswer {
		t.Fatalf("answer.Kind = %q, want answer", answer.Kind)
	}

	turns := sess.History()
	if len(turns) != 2 {
		t.Fatalf("history holds %d turns, want 2", len(turns))
	}
	if turns[0].Role != chat.RoleUser || turns[0].Content != "hello" {
		t.Errorf("turn 0 = %+v", turns[0])
	}
	if turns[1].Role != chat.RoleAssistant || turns[1].Content != answer.Text {
		t.Errorf("turn 1 = %+v", turns[1])
	}
	if turns[1].Model != answer.Model {
		t.Errorf("assistant turn model = %q, want %q", turns[1].Model, answer.Model)
	}
}

func TestManagerAskGuidanceIsLogged(t *testing.T) {
	m := newTestManager(&fakeProvider{})
	sess := m.Create()

	answer, err := m.Ask(context.Background(), sess.ID, "hello", false)
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if answer.Kind != chat.KindGuidance {
		t.Fatalf("answer.Kind = %q, want guidance without a model", answer.Kind)
	}
	if got := len(sess.History()); got != 2 {
		t.Errorf("history holds %d turns, want guidance logged as 2", got)
	}
}
