package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:     "emphasis",
			input:    "Launched **v2** today",
			contains: []string{"<strong>v2</strong>"},
		},
		{
			name:     "safe link",
			input:    "[release notes](https://example.com/notes)",
			contains: []string{`href="https://example.com/notes"`, `rel="nofollow noreferrer"`, `target="_blank"`},
		},
		{
			name:        "javascript link is not an anchor",
			input:       "[click](javascript:alert(1))",
			notContains: []string{`href="javascript`},
		},
		{
			name:        "raw html skipped",
			input:       "before <script>alert(1)</script> after",
			notContains: []string{"<script>"},
		},
		{
			name:        "images dropped",
			input:       "see ![x](javascript:alert(1)) and ![pixel](https://tracker.example/p.gif)",
			contains:    []string{"see"},
			notContains: []string{"<img", "javascript:", "tracker.example"},
		},
		{
			name:     "list",
			input:    "- one\n- two\n",
			contains: []string{"<ul>", "<li>one</li>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ToHTML(tt.input)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestToHTML_Empty(t *testing.T) {
	assert.Equal(t, "", ToHTML("   "))
	assert.Equal(t, "", ToHTMLPtr(nil))

	s := "*hi*"
	assert.Equal(t, "<p><em>hi</em></p>", ToHTMLPtr(&s))
}
