package security

import (
	"reflect"
	"strings"
	"testing"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{name: "Trims whitespace", input: "  hello  ", maxRunes: 10, want: "hello"},
		{name: "Drops null bytes", input: "he\x00llo", maxRunes: 10, want: "hello"},
		{name: "Caps by rune", input: "héllo wörld", maxRunes: 5, want: "héllo"},
		{name: "Zero means unlimited", input: strings.Repeat("a", 3000), maxRunes: 0, want: strings.Repeat("a", 3000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeString(tt.input, tt.maxRunes); got != tt.want {
				t.Errorf("SanitizeString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Plain text", input: "Board game night", want: "Board game night"},
		{name: "Strips tags", input: "<b>Board</b> game <i>night</i>", want: "Board game night"},
		{name: "Drops scripts", input: "Hello<script>alert(1)</script>", want: "Hello"},
		{name: "Keeps ampersands readable", input: "Arts & Crafts", want: "Arts & Crafts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input, MaxNameLength); got != tt.want {
				t.Errorf("SanitizeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeTags(t *testing.T) {
	got := SanitizeTags([]string{" Outdoors ", "outdoors", "", "<b>Books</b>"})
	want := []string{"outdoors", "books"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeTags() = %v, want %v", got, want)
	}
}

func TestValidateImageURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"", true},
		{"https://cdn.example.com/a.png", true},
		{"http://example.com/b.jpg", true},
		{"javascript:alert(1)", false},
		{"https://example.com/a b.png", false},
		{"ftp://example.com/a.png", false},
	}

	for _, tt := range tests {
		if got := ValidateImageURL(tt.url); got != tt.want {
			t.Errorf("ValidateImageURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestValidateFile(t *testing.T) {
	if !ValidateFileType("Catalog.XLSX", []string{".xlsx"}) {
		t.Error("ValidateFileType() rejected an xlsx file")
	}
	if ValidateFileType("catalog.csv", []string{".xlsx"}) {
		t.Error("ValidateFileType() accepted a csv file")
	}
	if ValidateFileSize(0, 10) || !ValidateFileSize(10, 10) || ValidateFileSize(11, 10) {
		t.Error("ValidateFileSize() bounds are wrong")
	}
}
