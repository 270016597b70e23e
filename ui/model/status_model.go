package model

import "time"

// Severity ranks a status message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// StatusModel holds the single status line shown under the display.
// The zero value is empty and usable.
type StatusModel struct {
	text     string
	severity Severity
	at       time.Time
	exports  int
}

// NewStatusModel returns an empty status model.
func NewStatusModel() *StatusModel { return &StatusModel{} }

// Set replaces the current message.
func (m *StatusModel) Set(sev Severity, text string, now time.Time) {
	if m == nil {
		return
	}
	m.text, m.severity, m.at = text, sev, now
}

// Clear drops the message. It reports whether there was one.
func (m *StatusModel) Clear() bool {
	if m == nil || m.text == "" {
		return false
	}
	m.text, m.severity, m.at = "", SeverityInfo, time.Time{}
	return true
}

// Current returns the message and its severity.
func (m *StatusModel) Current() (string, Severity) {
	if m == nil {
		return "", SeverityInfo
	}
	return m.text, m.severity
}

// Age returns how long the current message has been shown (0 if none).
func (m *StatusModel) Age(now time.Time) time.Duration {
	if m == nil || m.text == "" {
		return 0
	}
	return now.Sub(m.at)
}

// AddExports counts files written during the session.
func (m *StatusModel) AddExports(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.exports += n
}

// Exports returns the number of files written during the session.
func (m *StatusModel) Exports() int {
	if m == nil {
		return 0
	}
	return m.exports
}
