package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/yelpcamp/internal/app/system/htmlsanitize"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Gaurav", "Gaurav"},
		{"trimmed", "  Ana  ", "Ana"},
		{"bold", "<b>Bold</b> name", "Bold name"},
		{"script", "Sam<script>alert('x')</script>", "Sam"},
		{"onclick", `<span onclick="evil()">Lee</span>`, "Lee"},
		{"ampersand", "Tom & Jerry", "Tom & Jerry"},
		{"apostrophe", "O'Brien", "O'Brien"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.StripTags(tt.in); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
