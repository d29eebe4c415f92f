package diag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity defines the ordinal risk classification of an issue.
// The order is total: Low < Medium < High < Critical.
type Severity uint8

const (
	// SevLow is for informational findings.
	SevLow Severity = iota
	// SevMedium is for findings worth fixing.
	SevMedium
	SevHigh
	SevCritical
)

// String returns the stable wire spelling; it must round-trip unchanged
// through any serialization format.
func (s Severity) String() string {
	switch s {
	case SevLow:
		return "LOW"
	case SevMedium:
		return "MEDIUM"
	case SevHigh:
		return "HIGH"
	case SevCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// ParseSeverity converts a case-insensitive spelling into a Severity.
// An unknown spelling is a configuration error: it is the only kind of
// failure the engine raises synchronously, at construction time.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return SevLow, nil
	case "MEDIUM":
		return SevMedium, nil
	case "HIGH":
		return SevHigh, nil
	case "CRITICAL":
		return SevCritical, nil
	}
	return SevLow, fmt.Errorf("unknown severity %q (want low|medium|high|critical)", s)
}

// MarshalJSON emits the wire spelling.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the wire spelling.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
