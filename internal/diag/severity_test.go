package diag

import (
	"encoding/json"
	"testing"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input    string
		expected Severity
		wantErr  bool
	}{
		{input: "low", expected: SevLow},
		{input: "medium", expected: SevMedium},
		{input: "high", expected: SevHigh},
		{input: "critical", expected: SevCritical},
		{input: "HIGH", expected: SevHigh},
		{input: "Critical", expected: SevCritical},
		{input: "", wantErr: true},
		{input: "severe", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSeverity(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSeverity(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeverity(%q): %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseSeverity(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSeverity_Order(t *testing.T) {
	if !(SevLow < SevMedium && SevMedium < SevHigh && SevHigh < SevCritical) {
		t.Fatal("severity order violated")
	}
}

func TestSeverity_JSONRoundTrip(t *testing.T) {
	for _, sev := range []Severity{SevLow, SevMedium, SevHigh, SevCritical} {
		data, err := json.Marshal(sev)
		if err != nil {
			t.Fatalf("marshal %s: %v", sev, err)
		}
		var back Severity
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != sev {
			t.Errorf("round trip %s -> %s -> %s", sev, data, back)
		}
	}
}

func TestSeverity_WireSpelling(t *testing.T) {
	data, err := json.Marshal(SevHigh)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"HIGH"` {
		t.Errorf("wire spelling = %s, want \"HIGH\"", data)
	}
}
