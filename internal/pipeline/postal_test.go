package pipeline

import "testing"

func TestNormalizePostalCode(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "00000"},
		{name: "blank", input: "   ", want: "00000"},
		{name: "letters only", input: "abc", want: "00000"},
		{name: "numeric coercion artifact", input: "12345.0", want: "12345"},
		{name: "short", input: "123", want: "00123"},
		{name: "long", input: "1234567", want: "12345"},
		{name: "exact", input: "06236", want: "06236"},
		{name: "digits with noise", input: " 0 6-2 3.99", want: "00623"},
		{name: "hyphenated old format", input: "135-090", want: "13509"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizePostalCode(tc.input)
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizePostalCodeShape(t *testing.T) {
	inputs := []string{"", "x", "1", "999999999", "12.34", "우편번호없음", "  44-2  "}
	for _, input := range inputs {
		got := NormalizePostalCode(input)
		if len(got) != 5 {
			t.Fatalf("NormalizePostalCode(%q) = %q, want 5 characters", input, got)
		}
		for _, r := range got {
			if r < '0' || r > '9' {
				t.Fatalf("NormalizePostalCode(%q) = %q, want digits only", input, got)
			}
		}
	}
}
