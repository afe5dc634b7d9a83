// Package textparse pulls the few structured values the router needs out of free
// text. Every helper degrades to a documented default instead of failing.
package textparse

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCustomerID is used when no identifier can be found. Whether this is product
// behavior or a placeholder is still undecided, so callers get found=false with it.
const DefaultCustomerID = 1

// IDAfter returns the first maximal run of ASCII digits that follows the first
// case-insensitive occurrence of anchor standing as its own word, so "ID" never
// matches inside "provide" or "idea". When the anchor or the digits are missing, or the
// number does not fit an int, def is returned with found=false.
func IDAfter(text, anchor string, def int) (int, bool) {
	idx := anchorIndex(text, anchor)
	if idx < 0 {
		return def, false
	}

	rest := text[idx+len(anchor):]
	start := strings.IndexFunc(rest, isDigit)
	if start < 0 {
		return def, false
	}
	end := start
	for end < len(rest) && isDigit(rune(rest[end])) {
		end++
	}

	id, err := strconv.Atoi(rest[start:end])
	if err != nil {
		return def, false
	}
	return id, true
}

// anchorIndex finds the first case-insensitive occurrence of anchor that starts a
// word and is not followed by a letter. Digits may follow directly ("ID5"). It
// returns -1 when there is none.
func anchorIndex(text, anchor string) int {
	if anchor == "" {
		return -1
	}
	for i := range text {
		end := i + len(anchor)
		if end > len(text) || !strings.EqualFold(text[i:end], anchor) {
			continue
		}
		before, _ := utf8.DecodeLastRuneInString(text[:i])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (i == 0 || !isWordRune(before)) && (end == len(text) || !unicode.IsLetter(after)) {
			return i
		}
	}
	return -1
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Email returns the first whitespace- or comma-delimited token containing '@', with
// trailing sentence punctuation removed. It returns "" when there is none.
func Email(text string) string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	for _, f := range fields {
		if strings.Contains(f, "@") {
			return strings.TrimRight(f, ".;:!?)")
		}
	}
	return ""
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
