package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Project is a portfolio entry as returned by the portfolio API.
type Project struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Technology    Technology `json:"technology"`
	Description   string     `json:"description"`
	Features      string     `json:"features"`
	VideoLink     string     `json:"video_link,omitempty"`
	GithubLink    string     `json:"github_link,omitempty"`
	PlaystoreLink string     `json:"playstore_link,omitempty"`
	AppstoreLink  string     `json:"appstore_link,omitempty"`
	CreatedAt     Timestamp  `json:"created_at"`
	Images        []Image    `json:"images"`
}

// Image is one picture attached to a project. ImagePath is relative to the
// API's base URL.
type Image struct {
	ID        int64  `json:"id"`
	ImagePath string `json:"image_path"`
	IsPrimary Flag   `json:"is_primary"`
}

// Link is a labelled outbound project link.
type Link struct {
	Label string
	URL   string
}

// PrimaryImage returns the image flagged primary, falling back to the first
// image. It returns false when the project has no images.
func (p *Project) PrimaryImage() (Image, bool) {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img, true
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0], true
	}
	return Image{}, false
}

// CardFeatures returns the first three raw feature lines for the card view.
func (p *Project) CardFeatures() []string {
	lines := SplitLines(p.Features)
	if len(lines) > CardFeatureLimit {
		lines = lines[:CardFeatureLimit]
	}
	return lines
}

// FeatureList returns every non-blank feature line.
func (p *Project) FeatureList() []string {
	var out []string
	for _, line := range SplitLines(p.Features) {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// Links returns the store and source links that are set, in display order.
func (p *Project) Links() []Link {
	var links []Link
	if p.GithubLink != "" {
		links = append(links, Link{Label: "GitHub", URL: p.GithubLink})
	}
	if p.PlaystoreLink != "" {
		links = append(links, Link{Label: "Play Store", URL: p.PlaystoreLink})
	}
	if p.AppstoreLink != "" {
		links = append(links, Link{Label: "App Store", URL: p.AppstoreLink})
	}
	return links
}

// Flag is a boolean that also accepts the 0/1 encodings some databases emit.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch strings.ToLower(raw) {
	case "", "null", "0", "false":
		*f = false
		return nil
	case "1", "true":
		*f = true
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid flag value %s", data)
	}
	*f = n != 0
	return nil
}

// timestampLayouts are tried in order when decoding created_at.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes the API's created_at values, which vary by backend.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// null or a non-string leaves the zero time
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", raw)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// DateString formats the timestamp as a short M/D/YYYY date.
func (t Timestamp) DateString() string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("1/2/2006")
}
