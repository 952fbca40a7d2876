package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Valid", "api-gateway", false},
		{"ValidWithDots", "svc.auth.v2", false},
		{"Empty", "", true},
		{"ControlChar", "api\x00db", true},
		{"Newline", "api\ndb", true},
		{"TooLong", strings.Repeat("a", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidDiagram {
				t.Errorf("code = %q, want %q", GetCode(err), ErrCodeInvalidDiagram)
			}
		})
	}
}

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Valid", "0b1f2c3d-4e5f-6789-abcd-ef0123456789", false},
		{"Empty", "", true},
		{"Whitespace", "   ", true},
		{"EmbeddedSpace", "abc def", true},
		{"ControlChar", "abc\tdef", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{"Valid", "diagram.png", false},
		{"ValidDocument", "architecture-report.pdf", false},
		{"Empty", "", true},
		{"PathSeparator", "out/diagram.png", true},
		{"Backslash", `out\diagram.png`, true},
		{"Traversal", "..diagram.png", true},
		{"Hidden", ".env", true},
		{"ControlChar", "diagram\x00.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://docgen.internal/api"); err != nil {
		t.Errorf("valid https URL rejected: %v", err)
	}
	if err := ValidateURL("ftp://docgen.internal"); err == nil {
		t.Error("non-http scheme should be rejected")
	}
	if err := ValidateURL(""); err == nil {
		t.Error("empty URL should be rejected")
	}
}
