package gating

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ProcessHTML runs both gating passes over a server-rendered document:
// blocked scripts are neutralized in place, blocked iframes are replaced with
// a click-to-load placeholder. Fragments (no closing html tag) and documents
// the tokenizer cannot read pass through untouched.
func (e *Engine) ProcessHTML(doc string) string {
	if !e.scripts && !e.embeds {
		return doc
	}
	if !strings.Contains(doc, "</html>") {
		return doc
	}

	tokenizer := html.NewTokenizer(strings.NewReader(doc))
	var out strings.Builder
	out.Grow(len(doc))

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				return out.String()
			}
			return doc
		}
		raw := string(tokenizer.Raw())

		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			token := tokenizer.Token()
			switch token.Data {
			case "iframe":
				if replaced, ok := e.replaceIframe(token); ok {
					out.WriteString(replaced)
					if tt == html.StartTagToken {
						skipUntilClosing(tokenizer, "iframe")
					}
					continue
				}
			case "script":
				if rewritten, ok := e.rewriteScript(token, tt == html.SelfClosingTagToken); ok {
					out.WriteString(rewritten)
					continue
				}
			}
		}
		out.WriteString(raw)
	}
}

func (e *Engine) replaceIframe(token html.Token) (string, bool) {
	src := attrValue(token, "src")
	if src == "" {
		return "", false
	}
	category, blocked := e.EmbedDecision(src)
	if !blocked {
		return "", false
	}
	if e.metrics != nil {
		e.metrics.IncrementBlockedEmbeds(string(category))
	}
	width := attrValueDefault(token, "width", "100%")
	height := attrValueDefault(token, "height", "400")
	return placeholderHTML(src, string(category), width, height), true
}

func (e *Engine) rewriteScript(token html.Token, selfClosing bool) (string, bool) {
	src := attrValue(token, "src")
	if src == "" {
		return "", false
	}
	category, blocked := e.ScriptDecision(src)
	if !blocked {
		return "", false
	}
	if e.metrics != nil {
		e.metrics.IncrementBlockedScripts(string(category))
	}

	var tag strings.Builder
	tag.WriteString(`<script type="text/plain" data-consent-category="`)
	tag.WriteString(html.EscapeString(string(category)))
	tag.WriteString(`"`)
	for _, attr := range token.Attr {
		if attr.Key == "type" {
			continue
		}
		tag.WriteString(" ")
		tag.WriteString(attr.Key)
		tag.WriteString(`="`)
		tag.WriteString(html.EscapeString(attr.Val))
		tag.WriteString(`"`)
	}
	if selfClosing {
		tag.WriteString("/>")
	} else {
		tag.WriteString(">")
	}
	return tag.String(), true
}

func skipUntilClosing(tokenizer *html.Tokenizer, name string) {
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return
		}
		if tt == html.EndTagToken {
			tagName, _ := tokenizer.TagName()
			if string(tagName) == name {
				return
			}
		}
	}
}

func placeholderHTML(src, category, width, height string) string {
	host := src
	if parsed, err := url.Parse(src); err == nil && parsed.Hostname() != "" {
		host = parsed.Hostname()
	}
	if _, err := strconv.Atoi(width); err == nil {
		width += "px"
	}
	if _, err := strconv.Atoi(height); err == nil {
		height += "px"
	}

	return fmt.Sprintf(
		`<div class="consent-blocked-content" data-src="%s" data-consent-category="%s" style="width:%s;height:%s;">`+
			`<div class="consent-blocked-inner">`+
			`<p>Content from <strong>%s</strong> is blocked until you accept cookies.</p>`+
			`<button type="button" class="consent-load-content">Accept &amp; Load Content</button>`+
			`</div></div>`,
		html.EscapeString(src),
		html.EscapeString(category),
		html.EscapeString(width),
		html.EscapeString(height),
		html.EscapeString(host),
	)
}

func attrValue(token html.Token, key string) string {
	for _, attr := range token.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func attrValueDefault(token html.Token, key, fallback string) string {
	if value := attrValue(token, key); value != "" {
		return value
	}
	return fallback
}
