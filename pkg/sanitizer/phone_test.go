package sanitizer

import "testing"

func TestNormalizeContact(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "e164 passthrough",
			input: "+94771234567",
			want:  "+94771234567",
		},
		{
			name:  "local sri lankan number",
			input: "0771234567",
			want:  "+94771234567",
		},
		{
			name:  "spaces and dashes",
			input: "077-123 4567",
			want:  "+94771234567",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "garbage input",
			input: "not-a-number",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeContact(tt.input); got != tt.want {
				t.Errorf("NormalizeContact(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
