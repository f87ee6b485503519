package webfetch

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/osvaldoandrade/w3bstitch/internal/app/webpage"
)

// Extractor reads the document title and description. The description
// prefers <meta name="description"> over og:description; og:title is used
// when <title> is missing or empty.
type Extractor struct{}

func (Extractor) Extract(r io.Reader) (webpage.Metadata, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return webpage.Metadata{}, fmt.Errorf("parse html: %w", err)
	}

	var title, ogTitle, description, ogDescription string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if title == "" {
					title = strings.TrimSpace(textContent(n))
				}
			case atom.Meta:
				content := strings.TrimSpace(attr(n, "content"))
				switch {
				case strings.EqualFold(attr(n, "name"), "description") && description == "":
					description = content
				case strings.EqualFold(attr(n, "property"), "og:description") && ogDescription == "":
					ogDescription = content
				case strings.EqualFold(attr(n, "property"), "og:title") && ogTitle == "":
					ogTitle = content
				}
			case atom.Svg:
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if title == "" {
		title = ogTitle
	}
	if description == "" {
		description = ogDescription
	}
	return webpage.Metadata{Title: title, Description: description}, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
	}
	return b.String()
}
