package gallery

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsuki/garden/pkg/errors"
)

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		want   []ImageRecord
	}{
		{
			name:   "json object",
			format: ManifestJSON,
			input:  `{"images":[{"url":"a.jpg","width":1920,"height":1080,"title":"Kyoto"},{"url":"b.jpg"}]}`,
			want: []ImageRecord{
				{URL: "a.jpg", Width: 1920, Height: 1080, Title: "Kyoto"},
				{URL: "b.jpg"},
			},
		},
		{
			name:   "json list",
			format: ManifestJSON,
			input:  `[{"url":"a.jpg","width":800}]`,
			want:   []ImageRecord{{URL: "a.jpg"}},
		},
		{
			name:   "yaml object",
			format: ManifestYAML,
			input:  "images:\n  - url: a.jpg\n    width: 1920\n    height: 1080\n  - url: b.jpg\n    title: Nara\n",
			want: []ImageRecord{
				{URL: "a.jpg", Width: 1920, Height: 1080},
				{URL: "b.jpg", Title: "Nara"},
			},
		},
		{
			name:   "yaml list",
			format: ManifestYAML,
			input:  "- url: a.jpg\n- url: b.jpg\n",
			want:   []ImageRecord{{URL: "a.jpg"}, {URL: "b.jpg"}},
		},
		{
			name:   "empty",
			format: ManifestYAML,
			input:  "  \n",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseManifest(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("ParseManifest() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("record %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		code   errors.Code
	}{
		{"missing url", ManifestJSON, `[{"title":"x"}]`, errors.ErrCodeInvalidRecord},
		{"bad json", ManifestJSON, `{"images":`, errors.ErrCodeInvalidFormat},
		{"bad yaml", ManifestYAML, "images: [", errors.ErrCodeInvalidFormat},
		{"unknown format", "toml", "x", errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gallery.yml")
	if err := os.WriteFile(path, []byte("- url: a.jpg\n  width: 4\n  height: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if len(got) != 1 || got[0].Badge() != "4×3" {
		t.Errorf("ReadManifest() = %+v", got)
	}

	if _, err := ReadManifest(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
	if _, err := ReadManifest(filepath.Join(dir, "gallery.txt")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad extension error = %v, want %v", err, errors.ErrCodeInvalidFormat)
	}
}

func TestWriteManifestRoundTrip(t *testing.T) {
	in := []ImageRecord{{URL: "a.jpg", Width: 3, Height: 2, Title: "A"}, {URL: "b.jpg"}}
	var buf bytes.Buffer
	if err := WriteManifest(&buf, in); err != nil {
		t.Fatal(err)
	}
	out, err := ParseManifest(&buf, ManifestJSON)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
