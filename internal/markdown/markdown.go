// Package markdown renders user-written event descriptions to HTML.
package markdown

import (
	"strings"

	"github.com/russross/blackfriday/v2"
)

const extensions = blackfriday.CommonExtensions | blackfriday.Autolink

const htmlFlags = blackfriday.SkipHTML |
	blackfriday.SkipImages |
	blackfriday.Safelink |
	blackfriday.NofollowLinks |
	blackfriday.NoreferrerLinks |
	blackfriday.HrefTargetBlank

// ToHTML renders markdown to HTML. Raw HTML and images in the input are
// dropped and only links with safe schemes become anchors.
func ToHTML(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{Flags: htmlFlags})
	out := blackfriday.Run([]byte(source),
		blackfriday.WithExtensions(extensions),
		blackfriday.WithRenderer(renderer),
	)
	return strings.TrimSpace(string(out))
}

// ToHTMLPtr renders an optional description.
func ToHTMLPtr(source *string) string {
	if source == nil {
		return ""
	}
	return ToHTML(*source)
}
