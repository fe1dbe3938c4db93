package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// skippedElements hold no visible text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// headingElements are also collected as segments of their own.
var headingElements = map[string]bool{
	"h1": true,
	"h2": true,
	"h3": true,
	"h4": true,
}

// Parser extracts text and links from HTML documents.
type Parser struct {
	// baseURL resolves relative hrefs and srcs.
	baseURL *url.URL
}

// ParseResult is the information taken from one document.
type ParseResult struct {
	// Title is the text of the first <title>.
	Title string

	// Meta holds the content of <meta name="description"> and
	// <meta name="keywords">.
	Meta []string

	// Headings holds the text of h1 to h4 elements.
	Headings []string

	// Body holds every visible text node, in document order.
	Body []string

	// Links are resolved <a href> targets.
	Links []string

	// Images are resolved <img src> targets.
	Images []string
}

// Text returns all text segments: title, meta, headings, then body.
func (r *ParseResult) Text() []string {
	out := make([]string, 0, 1+len(r.Meta)+len(r.Headings)+len(r.Body))
	if r.Title != "" {
		out = append(out, r.Title)
	}
	out = append(out, r.Meta...)
	out = append(out, r.Headings...)
	return append(out, r.Body...)
}

// NewParser creates a Parser resolving against baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse reads an HTML document. x/net/html recovers from malformed
// markup, so errors come only from the reader.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	p.walk(doc, result)
	return result, nil
}

func (p *Parser) walk(n *html.Node, result *ParseResult) {
	switch n.Type {
	case html.ElementNode:
		if skippedElements[n.Data] {
			return
		}
		p.processElement(n, result)
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" && !insideHead(n) {
			result.Body = append(result.Body, text)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, result)
	}
}

func (p *Parser) processElement(n *html.Node, result *ParseResult) {
	switch {
	case n.Data == "title":
		if result.Title == "" {
			result.Title = strings.TrimSpace(textOf(n))
		}

	case n.Data == "meta":
		name := strings.ToLower(getAttr(n, "name"))
		if name == "description" || name == "keywords" {
			if content := strings.TrimSpace(getAttr(n, "content")); content != "" {
				result.Meta = append(result.Meta, content)
			}
		}

	case headingElements[n.Data]:
		if text := strings.TrimSpace(textOf(n)); text != "" {
			result.Headings = append(result.Headings, text)
		}

	case n.Data == "a":
		if resolved := p.resolveURL(getAttr(n, "href")); resolved != "" {
			result.Links = append(result.Links, resolved)
		}

	case n.Data == "img":
		if resolved := p.resolveURL(getAttr(n, "src")); resolved != "" {
			result.Images = append(result.Images, resolved)
		}
	}
}

// resolveURL resolves href against the base URL. Non-navigable schemes
// and bare fragments resolve to "".
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}
	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return p.baseURL.ResolveReference(u).String()
}

// textOf concatenates the text below n, skipping non-visible elements.
func textOf(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

// insideHead reports whether n is within <head>. Head text (the title)
// is already collected separately.
func insideHead(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "head" {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
