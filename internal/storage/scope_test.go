package storage

import "testing"

func TestScopeOverride(t *testing.T) {
	if got := Scope("my tab/1"); got != "mytab-1" {
		t.Errorf("Scope = %q, want %q", got, "mytab-1")
	}
}

func TestScopeFrom(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"typekana wins", map[string]string{"TYPEKANA_SESSION": "s1", "TMUX_PANE": "%3"}, "s1"},
		{"iterm", map[string]string{"TERM_SESSION_ID": "w0t0p0:ABC"}, "w0t0p0-ABC"},
		{"tmux", map[string]string{"TMUX_PANE": "%3"}, "-3"},
		{"fallback", map[string]string{}, "ppid-42"},
		{"blank ignored", map[string]string{"WT_SESSION": "  "}, "ppid-42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			if got := scopeFrom(getenv, 42); got != tt.want {
				t.Errorf("scopeFrom = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSlotKey(t *testing.T) {
	if got := SlotKey("tab", "quiz-session"); got != "tab:quiz-session" {
		t.Errorf("SlotKey = %q", got)
	}
}
