package gallery

import "testing"

func TestImageRecordDimensions(t *testing.T) {
	tests := []struct {
		name   string
		rec    ImageRecord
		ok     bool
		aspect string
		badge  string
	}{
		{"both known", ImageRecord{URL: "a.jpg", Width: 1920, Height: 1080}, true, "1920 / 1080", "1920×1080"},
		{"none", ImageRecord{URL: "b.jpg"}, false, "auto", ""},
		{"width only", ImageRecord{URL: "c.jpg", Width: 1920}, false, "auto", ""},
		{"height only", ImageRecord{URL: "d.jpg", Height: 1080}, false, "auto", ""},
		{"negative", ImageRecord{URL: "e.jpg", Width: -4, Height: 3}, false, "auto", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.HasDimensions(); got != tt.ok {
				t.Errorf("HasDimensions() = %v, want %v", got, tt.ok)
			}
			if got := tt.rec.AspectCSS(); got != tt.aspect {
				t.Errorf("AspectCSS() = %q, want %q", got, tt.aspect)
			}
			if got := tt.rec.Badge(); got != tt.badge {
				t.Errorf("Badge() = %q, want %q", got, tt.badge)
			}
		})
	}
}

func TestImageRecordAspectRatio(t *testing.T) {
	r, ok := ImageRecord{URL: "a.jpg", Width: 1920, Height: 1080}.AspectRatio()
	if !ok || !approx(r, 16.0/9.0) {
		t.Errorf("AspectRatio() = %v, %v, want 16/9, true", r, ok)
	}
	if _, ok := (ImageRecord{URL: "b.jpg"}).AspectRatio(); ok {
		t.Error("AspectRatio() without dimensions should report false")
	}
}

func TestImageRecordAlt(t *testing.T) {
	if got := (ImageRecord{Title: "Kyoto"}).Alt(4); got != "Kyoto" {
		t.Errorf("Alt() = %q, want title", got)
	}
	if got := (ImageRecord{}).Alt(4); got != "Gallery Image 5" {
		t.Errorf("Alt() = %q, want %q", got, "Gallery Image 5")
	}
}

func TestNormalize(t *testing.T) {
	in := []ImageRecord{
		{URL: "a", Width: 10},
		{URL: "b", Width: 4, Height: 3},
		{URL: "c", Height: 0, Width: 0},
	}
	out := Normalize(in)

	if out[0].Width != 0 || out[0].Height != 0 {
		t.Errorf("partial pair kept: %+v", out[0])
	}
	if out[1].Width != 4 || out[1].Height != 3 {
		t.Errorf("full pair lost: %+v", out[1])
	}
	if in[0].Width != 10 {
		t.Error("Normalize modified its input")
	}
}
