package textutil

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapse runs", "hello   world", "hello world"},
		{"trim edges", "  hello world \n", "hello world"},
		{"newlines and tabs", "hello\n\tworld", "hello world"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeWhitespace(tt.in); got != tt.want {
				t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHasTerminalPunctuation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"period", "Done.", true},
		{"question", "Really?", true},
		{"cjk stop", "そうです。", true},
		{"quoted", `He said "stop."`, true},
		{"trailing quote after period", `"It ends here."`, true},
		{"no punctuation", "still going", false},
		{"comma", "first,", false},
		{"empty", "", false},
		{"only closer", `"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasTerminalPunctuation(tt.in); got != tt.want {
				t.Errorf("HasTerminalPunctuation(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLetterlessRatio(t *testing.T) {
	if got := LetterlessRatio(nil); got != 0 {
		t.Fatalf("LetterlessRatio(nil) = %v, want 0", got)
	}
	got := LetterlessRatio([]string{"123", "!!", "abc", "42"})
	if got != 0.75 {
		t.Fatalf("LetterlessRatio = %v, want 0.75", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Hello, World! It's 42")
	want := []string{"hello", "world", "it", "s", "42"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want func(float64) bool
	}{
		{"identical", "the quick fox", "the quick fox", func(v float64) bool { return v == 1.0 }},
		{"disjoint", "apple banana", "cherry date", func(v float64) bool { return v == 0 }},
		{"partial", "the quick brown fox", "the slow brown cat", func(v float64) bool { return v > 0 && v < 1 }},
		{"empty side", "", "hello", func(v float64) bool { return v == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenOverlap(tt.a, tt.b); !tt.want(got) {
				t.Errorf("TokenOverlap(%q, %q) = %v", tt.a, tt.b, got)
			}
		})
	}
}
