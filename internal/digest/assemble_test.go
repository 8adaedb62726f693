package digest_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/premarket-digest/internal/digest"
)

func TestAssemble(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		lines []string
		want  string
	}{
		{name: "no news", body: "quotes", lines: nil, want: "quotes"},
		{name: "empty news", body: "quotes", lines: []string{}, want: "quotes"},
		{
			name:  "news appended",
			body:  "quotes",
			lines: []string{"• a", "• b\n  https://example.com"},
			want:  "quotes\n\n📰 Policy / macro headlines\n\n• a\n\n• b\n  https://example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, digest.Assemble(tt.body, tt.lines))
		})
	}
}
