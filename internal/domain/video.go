package domain

import "strings"

// EmbedURL converts a YouTube or Vimeo page link into the URL form suitable
// for an iframe. Links that match no known provider are returned unchanged.
func EmbedURL(url string) string {
	switch {
	case strings.Contains(url, "youtube.com/watch"):
		if _, rest, ok := strings.Cut(url, "v="); ok {
			id, _, _ := strings.Cut(rest, "&")
			return "https://www.youtube.com/embed/" + id
		}
	case strings.Contains(url, "youtu.be/"):
		_, rest, _ := strings.Cut(url, "youtu.be/")
		id, _, _ := strings.Cut(rest, "?")
		return "https://www.youtube.com/embed/" + id
	case strings.Contains(url, "vimeo.com/"):
		_, rest, _ := strings.Cut(url, "vimeo.com/")
		id, _, _ := strings.Cut(rest, "?")
		return "https://player.vimeo.com/video/" + id
	}
	return url
}
