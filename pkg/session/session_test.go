package session

import (
	"context"
	"testing"

	"archcanvas/pkg/errors"
)

func TestStartReplacesSession(t *testing.T) {
	r := NewRegistry()

	first := r.Start("tok-1")
	second := r.Start("tok-2")

	if first.ID == second.ID {
		t.Error("new conversation reused the previous session id")
	}
	if got := r.Current(); got == nil || got.ID != second.ID {
		t.Errorf("Current = %+v, want session %q", got, second.ID)
	}
}

func TestTokenRequiresActiveSession(t *testing.T) {
	r := NewRegistry()

	_, err := r.Token(context.Background())
	if errors.GetCode(err) != errors.ErrCodeInvalidSession {
		t.Fatalf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidSession)
	}

	r.Start("tok-1")
	tok, err := r.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "tok-1" {
		t.Errorf("token = %q", tok)
	}

	r.End()
	if _, err := r.Token(context.Background()); err == nil {
		t.Error("Token succeeded after End")
	}
}

func TestTokenFollowsReplacement(t *testing.T) {
	r := NewRegistry()
	r.Start("tok-1")
	r.Start("tok-2")

	tok, err := r.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "tok-2" {
		t.Errorf("token = %q, want credential of the replacement session", tok)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if sess, err := store.Load(); err != nil || sess != nil {
		t.Fatalf("Load on empty store = %v, %v", sess, err)
	}

	want := New("tok-1")
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != want.ID || got.Token != want.Token {
		t.Errorf("loaded = %+v, want %+v", got, want)
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if sess, err := store.Load(); err != nil || sess != nil {
		t.Errorf("Load after Delete = %v, %v", sess, err)
	}
	if err := store.Delete(); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}
