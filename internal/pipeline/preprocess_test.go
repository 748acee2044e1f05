package pipeline

import (
	"context"
	"testing"
)

func TestSourcePreprocessor_Preprocess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain text unchanged", input: "# Title\n\nBody\n", want: "# Title\n\nBody\n"},
		{name: "strips BOM", input: "\ufeff# Title", want: "# Title"},
		{name: "keeps inner BOM-like rune", input: "a\ufeffb", want: "a\ufeffb"},
		{name: "CRLF to LF", input: "a\r\nb\r\n", want: "a\nb\n"},
		{name: "lone CR to LF", input: "a\rb", want: "a\nb"},
		{name: "two blank lines kept", input: "a\n\n\nb", want: "a\n\n\nb"},
		{name: "five blank lines compressed", input: "a\n\n\n\n\n\nb", want: "a\n\n\nb"},
	}

	p := &SourcePreprocessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := p.Preprocess(context.Background(), tt.input); got != tt.want {
				t.Errorf("Preprocess(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSourcePreprocessor_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := "a\r\nb"
	if got := (&SourcePreprocessor{}).Preprocess(ctx, in); got != in {
		t.Errorf("Preprocess() with cancelled context = %q, want input unchanged", got)
	}
}
