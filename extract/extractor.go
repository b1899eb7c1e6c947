// Package extract pulls the semantically meaningful text out of an HTML
// document: headings and paragraphs, in document order.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TextBlock is one heading or paragraph taken from the document.
type TextBlock struct {
	Tag       string `json:"tagType"`
	Content   string `json:"content"`
	IsHeading bool   `json:"isHeading"`
}

// Level returns the heading level (1-6), or 0 for paragraphs.
func (b TextBlock) Level() int {
	if !b.IsHeading || len(b.Tag) != 2 {
		return 0
	}
	return int(b.Tag[1] - '0')
}

// rejected subtrees are never entered.
var rejected = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// accepted elements become blocks; the value marks headings.
var accepted = map[string]bool{
	"h1": true,
	"h2": true,
	"h3": true,
	"h4": true,
	"h5": true,
	"h6": true,
	"p":  false,
}

// Extract walks the descendants of root in document order and returns
// the non-empty headings and paragraphs below it. An accepted element's
// full text is captured once; its children are not visited as separate
// blocks. The tree is only read.
func Extract(root *html.Node) []TextBlock {
	blocks := []TextBlock{}
	if root == nil {
		return blocks
	}
	walk(goquery.NewDocumentFromNode(root).Selection, &blocks)
	return blocks
}

// FromDocument extracts the blocks inside <body>, or inside the whole
// document when it has no body element.
func FromDocument(doc *goquery.Document) []TextBlock {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return Extract(doc.Get(0))
	}
	return Extract(body.Get(0))
}

func walk(sel *goquery.Selection, blocks *[]TextBlock) {
	sel.Children().Each(func(_ int, child *goquery.Selection) {
		tag := goquery.NodeName(child)
		if rejected[tag] {
			return
		}

		heading, ok := accepted[tag]
		if !ok {
			walk(child, blocks)
			return
		}

		content := strings.TrimSpace(child.Text())
		if content == "" {
			return
		}
		*blocks = append(*blocks, TextBlock{
			Tag:       tag,
			Content:   content,
			IsHeading: heading,
		})
	})
}
