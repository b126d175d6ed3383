// Package query prepares raw user text for date resolution.
package query

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// markdownMarkers are stripped after HTML conversion so that "**2013**" reads as "2013".
var markdownMarkers = strings.NewReplacer("**", "", "__", "", "*", "", "`", "", "#", "")

// markdownEscape matches the backslash escapes html-to-markdown puts before ASCII
// punctuation, e.g. "sales\_total" or "2013\.".
var markdownEscape = regexp.MustCompile("\\\\([!-/:-@\\[-`{-~])")

// Normalize lowercases s and collapses runs of whitespace into single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// FromHTML converts an HTML fragment (a query pasted from a rich-text chat or web form)
// into plain text. Returns the original content if conversion fails or content is empty.
func FromHTML(html string) string {
	if html == "" {
		return ""
	}

	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return html
	}

	md = markdownEscape.ReplaceAllString(md, "$1")
	return strings.TrimSpace(markdownMarkers.Replace(md))
}

// After returns the text following the first occurrence of keyword in s,
// with surrounding whitespace trimmed. ok is false when keyword is absent.
func After(s, keyword string) (rest string, ok bool) {
	i := strings.Index(s, keyword)
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(s[i+len(keyword):]), true
}

// ContainsAny reports whether s contains any of the given substrings.
func ContainsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
