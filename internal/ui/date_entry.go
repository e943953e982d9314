package ui

import (
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-tzconv/internal/config"
)

// DateEntry is a custom Entry widget for YYYY-MM-DD dates.
// It embeds widget.Entry to inherit all standard behavior.
type DateEntry struct {
	widget.Entry
}

// NewDateEntry creates a new instance of DateEntry.
func NewDateEntry() *DateEntry {
	entry := &DateEntry{}
	entry.ExtendBaseWidget(entry)
	entry.PlaceHolder = config.DateFormatEntry
	return entry
}

// TypedRune intercepts text input events.
// It filters characters to allow only digits and the '-' separator.
func (e *DateEntry) TypedRune(r rune) {
	if (r >= '0' && r <= '9') || r == '-' {
		e.Entry.TypedRune(r)
	}
	// Pasted text bypasses this filter; the Validator rejects it.
}

// Keyboard overrides the default keyboard type.
func (e *DateEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}
