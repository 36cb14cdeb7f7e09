package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"markdown untouched", s.Content, "## Title\n\n> quote & more", "## Title\n\n> quote & more"},
		{"script stripped", s.Content, "<p>a</p><script>x()</script>", "<p>a</p>"},
		{"style stripped", s.Content, "<style>p{}</style><p>b</p>", "<p>b</p>"},
		{"text plain", s.Text, "Tom & Jerry", "Tom & Jerry"},
		{"text tags removed", s.Text, "<em>Tom</em> & Jerry", "Tom & Jerry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}
