package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ppiankov/veritas/internal/model"
)

// Article is the readable content of a fetched page
type Article struct {
	Title   string   `json:"title"`
	Text    string   `json:"text"`
	Authors []string `json:"authors,omitempty"`
	Method  string   `json:"extraction_method"`
}

// ArticleExtractor pulls the main body text out of an HTML page
type ArticleExtractor struct {
	selectors []string
	strip     string
}

// NewArticleExtractor creates a new article extractor
func NewArticleExtractor() *ArticleExtractor {
	return &ArticleExtractor{
		selectors: []string{"article", `[role="main"]`, ".content", ".article-body"},
		strip:     "script, style, nav, footer, aside, noscript, iframe",
	}
}

// Extract parses HTML and returns its title and body text. Content
// selectors are tried in order; paragraphs are used when none match and
// the full visible text as a last resort.
func (e *ArticleExtractor) Extract(htmlContent string) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc.Find(e.strip).Remove()

	article := &Article{
		Title:  strings.TrimSpace(doc.Find("title").First().Text()),
		Method: "selector",
	}

	for _, sel := range e.selectors {
		found := doc.Find(sel)
		if found.Length() == 0 {
			continue
		}
		article.Text = joinText(found)
		break
	}

	if article.Text == "" {
		article.Text = joinText(doc.Find("p"))
		article.Method = "paragraphs"
	}

	if article.Text == "" {
		root, err := html.Parse(strings.NewReader(htmlContent))
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		article.Text = model.CollapseWhitespace(extractVisibleText(root))
		article.Method = "visible_text"
	}

	doc.Find(`meta[name="author"]`).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("content"); ok && strings.TrimSpace(v) != "" {
			article.Authors = append(article.Authors, strings.TrimSpace(v))
		}
	})

	return article, nil
}

func joinText(sel *goquery.Selection) string {
	parts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := model.CollapseWhitespace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
