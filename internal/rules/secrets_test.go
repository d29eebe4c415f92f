package rules

import (
	"testing"

	"loupe/internal/diag"
)

func TestSecrets(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantIssues int
	}{
		{name: "dotenv literal", src: "API_KEY=sk-live-12345\n", wantIssues: 1},
		{name: "yaml literal", src: "password: hunter2\n", wantIssues: 1},
		{name: "quoted literal", src: `token = "abc123"` + "\n", wantIssues: 1},
		{name: "env reference", src: "password: ${DB_PASS}\n", wantIssues: 0},
		{name: "shell reference", src: "token = $VAULT_TOKEN\n", wantIssues: 0},
		{name: "template reference", src: "secret: {{ .Values.secret }}\n", wantIssues: 0},
		{name: "null placeholder", src: "password: null\n", wantIssues: 0},
		{name: "commented out", src: "# api_key=abc123\n", wantIssues: 0},
		{name: "unrelated key", src: "username: admin\n", wantIssues: 0},
	}
	rule := NewSecrets()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := rule.AnalyzeLines("config.env", []byte(tt.src))
			if len(issues) != tt.wantIssues {
				t.Fatalf("got %d issues, want %d", len(issues), tt.wantIssues)
			}
			if tt.wantIssues == 1 {
				got := issues[0]
				if got.Severity != diag.SevHigh {
					t.Errorf("severity = %s, want HIGH", got.Severity)
				}
				if got.Kind != "hardcoded_secret" || got.RuleID != "hardcoded-secret" {
					t.Errorf("identity = %s/%s", got.Kind, got.RuleID)
				}
				if got.Line != 1 {
					t.Errorf("line = %d, want 1", got.Line)
				}
			}
		})
	}
}

func TestSecrets_LineNumbers(t *testing.T) {
	src := "HOST=db\n\nPASSWORD=opensesame\n"
	issues := NewSecrets().AnalyzeLines(".env", []byte(src))
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	if issues[0].Line != 3 {
		t.Errorf("line = %d, want 3", issues[0].Line)
	}
}
