package fetcher

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const nonContentSelector = "script, style, nav, footer, header, aside, noscript, iframe"

var (
	contentClassRegex = regexp.MustCompile(`(?i)(content|article|body|terms|legal|policy)`)
	blankRunRegex     = regexp.MustCompile(`\n{3,}`)
	spaceRunRegex     = regexp.MustCompile(` {2,}`)
)

// ExtractText returns the readable text of an HTML document: non-content
// elements are dropped, the main content region is preferred, and each
// non-empty text node becomes one line.
func ExtractText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	doc.Find(nonContentSelector).Remove()

	var lines []string
	for _, node := range contentRoot(doc).Nodes {
		collectText(node, &lines)
	}

	text := strings.Join(lines, "\n")
	text = blankRunRegex.ReplaceAllString(text, "\n\n")
	text = spaceRunRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), nil
}

func contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, selector := range []string{"main", "article", "[role=main]"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}

	byClass := doc.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		return contentClassRegex.MatchString(class)
	}).First()
	if byClass.Length() > 0 {
		return byClass
	}

	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

func collectText(n *html.Node, lines *[]string) {
	if n.Type == html.TextNode {
		if line := strings.TrimSpace(n.Data); line != "" {
			*lines = append(*lines, line)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}
