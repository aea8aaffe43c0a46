// Package meta extracts page metadata from a terminal response: the title,
// a best-effort favicon reference, and an optional readability excerpt.
package meta

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/balain/bkmrkr/internal/errors"
	"github.com/balain/bkmrkr/internal/validations"
)

// Metadata is the extraction result for one ingested page.
type Metadata struct {
	Title    string
	Icon     string
	Excerpt  string
	SiteName string
}

// Extract pulls metadata out of the terminal response body. A missing title
// yields ErrNoTitle alongside a Metadata that is otherwise filled in, so the
// caller can substitute a fallback title without losing the icon.
func Extract(body []byte, terminalUrl string) (Metadata, error) {
	doc, parseErr := html.Parse(bytes.NewReader(body))
	if parseErr != nil {
		doc = nil
	}

	md := Metadata{
		Icon: icon(doc, terminalUrl),
	}
	md.Excerpt, md.SiteName = enrich(body, terminalUrl)

	title, ok := firstTitle(doc)
	if !ok {
		return md, errors.ErrNoTitle
	}
	md.Title = validations.CleanUpText(title)
	if md.Title == "" {
		return md, errors.ErrNoTitle
	}
	return md, nil
}

// firstTitle returns the text of the first title element in the document.
func firstTitle(doc *html.Node) (string, bool) {
	node := findElement(doc, "title")
	if node == nil {
		return "", false
	}
	var sb strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	}
	return sb.String(), true
}

// icon discovers a favicon for the page: a <link rel="...icon..."> href
// resolved against the terminal URL, or the conventional /favicon.ico at the
// page origin when no link is declared.
func icon(doc *html.Node, terminalUrl string) string {
	base, err := url.Parse(terminalUrl)
	if err != nil || base.Host == "" {
		return ""
	}
	if href := iconLink(doc); href != "" {
		if ref, err := url.Parse(href); err == nil {
			return base.ResolveReference(ref).String()
		}
	}
	return base.Scheme + "://" + base.Host + "/favicon.ico"
}

func iconLink(node *html.Node) string {
	if node == nil {
		return ""
	}
	if node.Type == html.ElementNode && node.Data == "link" {
		var rel, href string
		for _, attr := range node.Attr {
			switch attr.Key {
			case "rel":
				rel = strings.ToLower(attr.Val)
			case "href":
				href = strings.TrimSpace(attr.Val)
			}
		}
		if strings.Contains(rel, "icon") && href != "" {
			return href
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if href := iconLink(child); href != "" {
			return href
		}
	}
	return ""
}

func findElement(node *html.Node, name string) *html.Node {
	if node == nil {
		return nil
	}
	if node.Type == html.ElementNode && node.Data == name {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, name); found != nil {
			return found
		}
	}
	return nil
}

// enrich runs readability over the body for the snapshot extras. Both values
// are best effort and empty on any failure.
func enrich(body []byte, terminalUrl string) (excerpt, siteName string) {
	pageUrl, err := url.Parse(terminalUrl)
	if err != nil {
		return "", ""
	}
	article, err := readability.FromReader(bytes.NewReader(body), pageUrl)
	if err != nil {
		return "", ""
	}
	return validations.CleanUpText(article.Excerpt), article.SiteName
}
