package sink

import (
	"encoding/json"

	"github.com/itsuki/garden/pkg/gallery"
)

type jsonOutput struct {
	gallery.Layout
	Images []jsonImage `json:"images"`
	Focus  int         `json:"focus"`
}

type jsonImage struct {
	gallery.ImageRecord
	Aspect string `json:"aspect"`
	Badge  string `json:"badge,omitempty"`
	Alt    string `json:"alt"`
}

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonOutput)

// WithJSONFocus records the focused index (default -1).
func WithJSONFocus(i int) JSONOption { return func(o *jsonOutput) { o.Focus = i } }

// RenderJSON serializes the layout together with the records' derived
// presentation fields.
func RenderJSON(records []gallery.ImageRecord, l gallery.Layout, opts ...JSONOption) ([]byte, error) {
	out := jsonOutput{Layout: l, Images: make([]jsonImage, len(records)), Focus: gallery.Inactive}
	for _, opt := range opts {
		opt(&out)
	}
	if out.Cells == nil {
		out.Cells = []gallery.Cell{}
	}
	for i, rec := range records {
		out.Images[i] = jsonImage{
			ImageRecord: rec,
			Aspect:      rec.AspectCSS(),
			Badge:       rec.Badge(),
			Alt:         rec.Alt(i),
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
