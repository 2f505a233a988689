package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kapu/chess-history-go/pkg/gamedto"
)

func TestEmbeddedDefaultsRender(t *testing.T) {
	cat, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s, err := cat.Render("stats.summary", gamedto.GameStats{
		Total: 4, Wins: 2, Losses: 1, Draws: 1, AsWhite: 3, AsBlack: 1,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(s, "4 games") || !strings.Contains(s, "2W / 1L / 1D") {
		t.Fatalf("unexpected summary: %s", s)
	}

	e, err := cat.Render("error.display", gamedto.NewError(gamedto.ErrRateLimited, "slow down"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(e, "rate_limited") || !strings.Contains(e, "slow down") {
		t.Fatalf("unexpected error display: %s", e)
	}
}

func TestMissingKeyErrors(t *testing.T) {
	cat, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := cat.Render("does.not.exist", nil); err == nil {
		t.Fatal("expected error for missing key")
	}
	if got := cat.MustRender("does.not.exist", nil); got != "does.not.exist" {
		t.Fatalf("MustRender fallback = %q", got)
	}
}

func TestOverrideDirWins(t *testing.T) {
	dir := t.TempDir()
	override := "auth:\n  logged_out: \"anonymous mode\"\n"
	if err := os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	cat, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := cat.MustRender("auth.logged_out", nil); got != "anonymous mode" {
		t.Fatalf("override not applied: %q", got)
	}
	// Untouched keys keep their defaults.
	if got := cat.MustRender("auth.login_prompt", nil); !strings.Contains(got, "authorize") {
		t.Fatalf("default lost after override: %q", got)
	}
}
