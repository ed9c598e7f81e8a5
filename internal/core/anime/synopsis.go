// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package anime

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// shortSynopsisRunes is the maximum length of [Synopsis.Short], ellipsis included.
const shortSynopsisRunes = 200

// Synopsis carries a description as raw HTML, plain text and a short teaser.
type Synopsis struct {
	HTML  string `json:"html"`
	Text  string `json:"text"`
	Short string `json:"short"`
}

// IsEmpty reports whether there is no description at all.
func (s Synopsis) IsEmpty() bool {
	return s.Text == ""
}

// NewSynopsis derives the text forms from an HTML (or plain) description.
func NewSynopsis(raw string) Synopsis {
	raw = strings.TrimSpace(raw)
	text := htmlToText(raw)
	return Synopsis{HTML: raw, Text: text, Short: shorten(text, shortSynopsisRunes)}
}

/*
htmlToText strips tags with the HTML tokenizer.

Description: <br> and paragraph ends become newlines, entities are unescaped by
the tokenizer, and runs of spaces collapse. At most one blank line is kept.
*/
func htmlToText(raw string) string {
	if raw == "" {
		return ""
	}

	var builder strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(raw))

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return tidy(builder.String())
		case html.TextToken:
			builder.Write(tokenizer.Text())
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "br":
				builder.WriteByte('\n')
			case "p", "div", "li":
				builder.WriteByte('\n')
			}
		}
	}
}

// tidy collapses horizontal whitespace per line and limits consecutive blank lines to one.
func tidy(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

// shorten cuts text to at most limit runes on a word boundary and appends "…".
func shorten(text string, limit int) string {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	if len(runes) <= limit {
		return string(runes)
	}

	cut := runes[:limit-1]
	if index := lastSpace(cut); index > 0 {
		cut = cut[:index]
	}

	return strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + "…"
}

func lastSpace(runes []rune) int {
	for index := len(runes) - 1; index >= 0; index-- {
		if unicode.IsSpace(runes[index]) {
			return index
		}
	}
	return -1
}
