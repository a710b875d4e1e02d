package app

import (
	"testing"

	"github.com/Brmanzo/clash-star-tracker/internal/session"
)

func TestStateRunLifecycle(t *testing.T) {
	s, err := NewState(t.TempDir())
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	if s.HasRun() {
		t.Error("HasRun before any run")
	}
	if _, err := s.Commit(nil); err == nil {
		t.Error("Commit before any run did not fail")
	}

	// A finished run leaves its session open for the commit step.
	s.sess = &session.Session{}
	if !s.HasRun() {
		t.Error("HasRun after a run = false")
	}

	s.Close()
	if s.HasRun() {
		t.Error("HasRun after Close = true")
	}
}
