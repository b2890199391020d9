package gallery

import (
	"fmt"
	"strconv"
)

// ImageRecord describes one gallery image. It is supplied by the caller and
// never modified by this package.
type ImageRecord struct {
	URL    string `json:"url" yaml:"url"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Dimensions returns the width and height when both are known and positive.
// A partial or non-positive pair is treated as absent.
func (r ImageRecord) Dimensions() (w, h int, ok bool) {
	if r.Width <= 0 || r.Height <= 0 {
		return 0, 0, false
	}
	return r.Width, r.Height, true
}

// HasDimensions reports whether both dimensions are known.
func (r ImageRecord) HasDimensions() bool {
	_, _, ok := r.Dimensions()
	return ok
}

// AspectRatio returns width/height when both dimensions are known.
func (r ImageRecord) AspectRatio() (float64, bool) {
	w, h, ok := r.Dimensions()
	if !ok {
		return 0, false
	}
	return float64(w) / float64(h), true
}

// AspectCSS returns the CSS aspect-ratio value for the record's cell:
// "w / h" when dimensions are known, "auto" otherwise.
func (r ImageRecord) AspectCSS() string {
	w, h, ok := r.Dimensions()
	if !ok {
		return "auto"
	}
	return strconv.Itoa(w) + " / " + strconv.Itoa(h)
}

// Badge returns the dimension badge (e.g. "1920×1080"), or "" when the
// dimensions are unknown.
func (r ImageRecord) Badge() string {
	w, h, ok := r.Dimensions()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d×%d", w, h)
}

// Alt returns the accessible label for the record at position index: the
// title when present, otherwise a 1-based generic label.
func (r ImageRecord) Alt(index int) string {
	if r.Title != "" {
		return r.Title
	}
	return fmt.Sprintf("Gallery Image %d", index+1)
}

// Sequence is the ordered image list a [Navigator] reads from. Its length is
// read on every access so a host may change it while the lightbox is open.
type Sequence interface {
	Len() int
	At(i int) ImageRecord
}

// Images adapts a slice to [Sequence].
type Images []ImageRecord

// Len returns the number of images.
func (s Images) Len() int { return len(s) }

// At returns the image at i.
func (s Images) At(i int) ImageRecord { return s[i] }

// Normalize returns a copy of records with partial or non-positive dimension
// pairs cleared. The input slice is not modified.
func Normalize(records []ImageRecord) []ImageRecord {
	out := make([]ImageRecord, len(records))
	for i, r := range records {
		if !r.HasDimensions() {
			r.Width, r.Height = 0, 0
		}
		out[i] = r
	}
	return out
}
