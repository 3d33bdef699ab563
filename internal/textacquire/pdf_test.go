package textacquire

import (
	"strings"
	"testing"
)

func TestTextFromContentStream(t *testing.T) {
	stream := strings.Join([]string{
		"BT",
		"/F1 12 Tf",
		"50 720 Td",
		"(Section 1: Introduction) Tj",
		"T*",
		"(Revenue grew 10\\%.) Tj",
		"[(Costs ) (held steady.)] TJ",
		"ET",
	}, "\n")

	got := textFromContentStream([]byte(stream))
	if !strings.Contains(got, "Section 1: Introduction") {
		t.Errorf("missing Tj text, got %q", got)
	}
	if !strings.Contains(got, "Revenue grew 10%.") {
		t.Errorf("escape not decoded, got %q", got)
	}
	if !strings.Contains(got, "Costs held steady.") {
		t.Errorf("TJ array not joined, got %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("T* should produce a line break, got %q", got)
	}
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain text`, "plain text"},
		{`paren \( inside \)`, "paren ( inside )"},
		{`back\\slash`, `back\slash`},
		{`tab\there`, "tab\there"},
		{`octal\040space`, "octal space"},
	}
	for _, tt := range tests {
		if got := decodePDFString([]byte(tt.in)); got != tt.want {
			t.Errorf("decodePDFString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
