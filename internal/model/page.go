package model

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Page is one fetched document.
type Page struct {
	// URL is the normalized URL the page was fetched from.
	URL string `json:"url"`

	// Depth is the crawl depth of the page, 1 for seed pages.
	Depth int `json:"depth"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the media type from the Content-Type header.
	ContentType string `json:"content_type"`

	// Title is the text of the <title> element.
	Title string `json:"title,omitempty"`

	// Text holds the visible text segments: title, meta description and
	// keywords, headings and body text, in document order.
	Text []string `json:"-"`

	// Links are absolute URLs of <a href> targets.
	Links []string `json:"links,omitempty"`

	// Images are absolute URLs of <img src> targets.
	Images []string `json:"images,omitempty"`

	// Raw is the response body, truncated to the configured size limit.
	Raw []byte `json:"-"`

	// Hash is the hex SHA3-256 of Raw. Pages with equal hashes carry the
	// same content.
	Hash string `json:"hash,omitempty"`
}

// ComputeHash sets Hash from Raw. An empty body has an empty hash.
func (p *Page) ComputeHash() {
	if len(p.Raw) == 0 {
		p.Hash = ""
		return
	}
	sum := sha3.Sum256(p.Raw)
	p.Hash = hex.EncodeToString(sum[:])
}

// IsHTML reports whether the content type is HTML or XHTML.
func (p *Page) IsHTML() bool {
	ct := strings.ToLower(p.ContentType)
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

// IsImage reports whether the content type is an image.
func (p *Page) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(p.ContentType), "image/")
}
