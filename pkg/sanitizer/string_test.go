package sanitizer

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Nadeesha Perera  ",
			want:  "Nadeesha Perera",
		},
		{
			name:  "multiple spaces between words",
			input: "Nadeesha    Perera",
			want:  "Nadeesha Perera",
		},
		{
			name:  "tabs and newlines",
			input: "Nadeesha\t\nPerera",
			want:  "Nadeesha Perera",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " O'Connor-Smith ",
			want:  "O'Connor-Smith",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase and trim",
			input: "  Guest@Example.COM ",
			want:  "guest@example.com",
		},
		{
			name:  "already normalized",
			input: "guest@example.com",
			want:  "guest@example.com",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEmail(tt.input); got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrimAndNormalizeIdempotent(t *testing.T) {
	input := "  Kasun   de  Silva \n"
	once := TrimAndNormalize(input)
	twice := TrimAndNormalize(once)
	if once != twice {
		t.Errorf("TrimAndNormalize not idempotent: %q != %q", once, twice)
	}
}
