package ui_test

import (
	"testing"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"github.com/tartampluch/go-tzconv/internal/ui"
)

func TestDateEntry_TypedRune(t *testing.T) {
	entry := ui.NewDateEntry()
	window := test.NewWindow(entry)
	defer window.Close()

	tests := []struct {
		name     string
		input    rune
		accepted bool
	}{
		{"Digit_Zero", '0', true},
		{"Digit_Nine", '9', true},
		{"Symbol_Dash", '-', true},
		{"Letter_a", 'a', false},
		{"Symbol_Slash", '/', false},
		{"Symbol_Dot", '.', false},
		{"Symbol_Space", ' ', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry.SetText("")

			test.Type(entry, string(tt.input))

			got := entry.Text
			if tt.accepted {
				if got != string(tt.input) {
					t.Errorf("expected input %q to be accepted, got text %q", tt.input, got)
				}
			} else if got != "" {
				t.Errorf("expected input %q to be rejected, got text %q", tt.input, got)
			}
		})
	}
}

func TestDateEntry_TypesFullDate(t *testing.T) {
	entry := ui.NewDateEntry()
	window := test.NewWindow(entry)
	defer window.Close()

	test.Type(entry, "2025/06-15x")

	if entry.Text != "202506-15" {
		t.Errorf("expected filtered text %q, got %q", "202506-15", entry.Text)
	}
}

func TestDateEntry_Keyboard(t *testing.T) {
	entry := ui.NewDateEntry()

	if got := entry.Keyboard(); got != mobile.NumberKeyboard {
		t.Errorf("expected keyboard type %v, got %v", mobile.NumberKeyboard, got)
	}
}

func TestDateEntry_Placeholder(t *testing.T) {
	entry := ui.NewDateEntry()

	if entry.PlaceHolder != "2006-01-02" {
		t.Errorf("expected layout placeholder, got %q", entry.PlaceHolder)
	}
}
