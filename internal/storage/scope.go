package storage

import (
	"os"
	"strconv"
	"strings"
)

// Terminal-provided variables that identify one window, tab or pane.
var scopeEnv = []string{
	"TYPEKANA_SESSION",
	"TERM_SESSION_ID",
	"WT_SESSION",
	"KITTY_WINDOW_ID",
	"WEZTERM_PANE",
	"TMUX_PANE",
}

// Scope names the terminal session values belong to. A non-empty override
// wins; otherwise the first terminal id found in the environment is used,
// falling back to the parent (shell) process id.
func Scope(override string) string {
	if s := sanitizeScope(override); s != "" {
		return s
	}
	return scopeFrom(os.Getenv, os.Getppid())
}

func scopeFrom(getenv func(string) string, ppid int) string {
	for _, name := range scopeEnv {
		if s := sanitizeScope(getenv(name)); s != "" {
			return s
		}
	}
	return "ppid-" + strconv.Itoa(ppid)
}

// SlotKey joins a scope and a slot name into a backend key.
func SlotKey(scope, slot string) string {
	return scope + ":" + slot
}

func sanitizeScope(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		case r == '%', r == ':', r == '/':
			return '-'
		}
		return -1
	}, s)
}
