package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateUTF8(t *testing.T) {
	got := truncate("नमस्ते दुनिया", 5)
	assert.Equal(t, 5, len([]rune(got)))
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
		{`<a href="https://example.com">Link</a> text`, "Link text"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"<script>alert(1)</script>Safe", "Safe"},
	}
	for _, tt := range tests {
		got := cleanText(tt.input)
		if got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		input      string
		wantTitle  string
		wantOutlet string
		wantOK     bool
	}{
		{"Markets rally - Economic Times", "Markets rally", "Economic Times", true},
		{"Rupee - dollar parity debated - Mint", "Rupee - dollar parity debated", "Mint", true},
		{"No outlet here", "No outlet here", "", false},
		{" - Outlet only", " - Outlet only", "", false},
		{"Dangling - ", "Dangling - ", "", false},
		{"Hyphen-joined-words", "Hyphen-joined-words", "", false},
	}
	for _, tt := range tests {
		title, outlet, ok := splitTitle(tt.input)
		assert.Equal(t, tt.wantOK, ok, tt.input)
		assert.Equal(t, tt.wantTitle, title, tt.input)
		assert.Equal(t, tt.wantOutlet, outlet, tt.input)
	}
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "technology", NormalizeCategory("technology"))
	assert.Equal(t, "sports", NormalizeCategory("  Sports "))
	assert.Equal(t, DefaultCategory, NormalizeCategory("astrology"))
	assert.Equal(t, DefaultCategory, NormalizeCategory(""))
}

func TestOfflineCoversEveryCategory(t *testing.T) {
	for _, c := range Categories {
		articles := Offline(c)
		assert.NotEmpty(t, articles, c)
		assert.LessOrEqual(t, len(articles), MaxArticles, c)
	}
	assert.Equal(t, Offline(DefaultCategory), Offline("not-a-category"))
}

func TestOfflineReturnsCopy(t *testing.T) {
	a := Offline("business")
	a[0].Title = "changed"
	assert.NotEqual(t, "changed", Offline("business")[0].Title)
}
