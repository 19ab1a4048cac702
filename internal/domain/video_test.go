package domain_test

import (
	"testing"

	"github.com/nfrund/folio/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "youtube watch url",
			in:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			want: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name: "youtube short url",
			in:   "https://youtu.be/dQw4w9WgXcQ?si=abc",
			want: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name: "vimeo url",
			in:   "https://vimeo.com/76979871?share=copy",
			want: "https://player.vimeo.com/video/76979871",
		},
		{
			name: "unrecognized url passes through",
			in:   "https://example.com/demo.mp4",
			want: "https://example.com/demo.mp4",
		},
		{
			name: "youtube watch url without id passes through",
			in:   "https://www.youtube.com/watch",
			want: "https://www.youtube.com/watch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.EmbedURL(tt.in))
		})
	}
}
