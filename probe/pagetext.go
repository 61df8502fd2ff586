package probe

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// VisibleText extracts the rendered text of the document body from raw
// HTML, with script/style noise removed and whitespace collapsed. Used
// as the classifier's BodyText input. Returns "" on unparseable input.
func VisibleText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript, template").Remove()

	sel := doc.Find("body")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	return strings.Join(strings.Fields(sel.Text()), " ")
}
