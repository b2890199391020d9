package errors

import (
	"strings"
	"testing"
)

func TestValidateSlug(t *testing.T) {
	valid := []string{
		"first-post",
		"2025/tokyo-morning",
		"videos/v1.2-intro",
		"notes..draft",
	}
	for _, slug := range valid {
		if err := ValidateSlug(slug); err != nil {
			t.Errorf("ValidateSlug(%q) = %v, want nil", slug, err)
		}
	}

	invalid := map[string]string{
		"empty":      "",
		"too long":   strings.Repeat("a", maxSlugLength+1),
		"absolute":   "/etc/passwd",
		"parent":     "../../etc/passwd",
		"mid parent": "blog/../about",
		"dot":        "./post",
		"backslash":  `blog\post`,
		"nul":        "post\x00",
		"newline":    "post\nother",
	}
	for name, slug := range invalid {
		t.Run(name, func(t *testing.T) {
			err := ValidateSlug(slug)
			if !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateSlug(%q) = %v, want %s", slug, err, ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=abc", false},
		{"HTTP://example.com", false},
		{"", true},
		{"ftp://example.com", true},
		{"javascript:alert(1)", true},
		{"example.com/watch", true},
	}
	for _, tt := range tests {
		err := ValidateURL(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateRecordURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative path", "photos/kyoto.jpg", false},
		{"https", "https://images.example.com/a.jpg", false},
		{"root relative", "/assets/a.jpg", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"control char", "a\x01.jpg", true},
		{"script scheme", " JavaScript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecordURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecordURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidRecord) {
				t.Errorf("ValidateRecordURL(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidRecord)
			}
		})
	}
}
