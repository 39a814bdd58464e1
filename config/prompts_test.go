package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPromptsShippedFile(t *testing.T) {
	prompts, err := LoadPrompts("prompts.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(prompts.Chat.System, "career") {
		t.Errorf("chat system prompt missing scope limit: %q", prompts.Chat.System)
	}
	if prompts.Chat.NoNotes != "No relevant notes found." {
		t.Errorf("unexpected no-notes notice: %q", prompts.Chat.NoNotes)
	}
	if prompts.Keywords.System == "" {
		t.Error("keywords prompt is empty")
	}
}

func TestLoadPromptsMissingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte("chat:\n  system: only this\n"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := LoadPrompts(path); err == nil {
		t.Error("expected error for incomplete prompts file")
	}
}

func TestLoadPromptsMissingFile(t *testing.T) {
	if _, err := LoadPrompts(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing prompts file")
	}
}

func TestParseAuthTokens(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"Empty", "", 0, false},
		{"Single", "tok1:user-a", 1, false},
		{"Multiple", "tok1:user-a, tok2:user-b", 2, false},
		{"Malformed", "tok1", 0, true},
		{"EmptyUser", "tok1:", 0, true},
		{"SlashInUserID", "tok1:team/alice", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := parseAuthTokens(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tokens) != tc.want {
				t.Errorf("expected %d tokens, got %d", tc.want, len(tokens))
			}
		})
	}
}
