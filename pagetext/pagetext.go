// Package pagetext turns raw page HTML into the markdown context file
// stored alongside each capture. The page text gives annotators and
// models the surrounding content for every clickable sample.
package pagetext

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Extractor converts page HTML to markdown. Safe for concurrent use.
type Extractor struct {
	sanitizer   *bluemonday.Policy
	mdConverter *converter.Converter
}

// New builds an extractor with the full plugin set, tables included.
func New() *Extractor {
	return &Extractor{
		sanitizer: bluemonday.UGCPolicy(),
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Page is the extracted context of one capture.
type Page struct {
	Title    string
	URL      string
	Markdown string
}

// Extract sanitizes src and converts it to markdown. The title comes from
// the document's <title> element; sourceURL resolves relative links.
func (e *Extractor) Extract(src, sourceURL string) (*Page, error) {
	title := documentTitle(src)
	clean := e.sanitizer.Sanitize(src)
	md, err := e.mdConverter.ConvertString(clean, converter.WithDomain(sourceURL))
	if err != nil {
		return nil, fmt.Errorf("pagetext: convert: %w", err)
	}
	return &Page{
		Title:    title,
		URL:      sourceURL,
		Markdown: strings.TrimSpace(md),
	}, nil
}

// Render lays out the page context file: title heading, source line, body.
func (p *Page) Render() string {
	var b strings.Builder
	if p.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", p.Title)
	}
	if p.URL != "" {
		fmt.Fprintf(&b, "Source: %s\n\n", p.URL)
	}
	b.WriteString(p.Markdown)
	b.WriteString("\n")
	return b.String()
}

func documentTitle(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return ""
	}
	var title string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return title
}
