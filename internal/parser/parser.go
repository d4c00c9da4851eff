// Package parser extracts monetary amounts from free-form chat messages
// and normalizes them into canonical VND values.
//
// Message text is ambiguous: "50k" is fifty thousand, "1.000.000" is one
// million with Vietnamese thousand separators, and "2024" is almost
// certainly a year. Extraction therefore runs a strict-to-loose cascade of
// pattern classes and stops at the first class that matches anything, so a
// high-confidence match is never double-counted by a looser class.
package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// Spans removed before matching: code blocks and user mentions.
	// Mentions carry numeric IDs that would otherwise match as amounts.
	codeBlockRe  = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`]*`")
	mentionRe    = regexp.MustCompile(`<@!?\d+>`)

	// Pattern classes, strictest first. Classes are mutually exclusive
	// per call: the first one with any match wins.
	unitRe     = regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?(?:k|tr|m)\b`)
	groupedRe  = regexp.MustCompile(`(?i)\b\d{1,3}(?:[.,]\d{3})+(?:(?:vnd|d)\b|đ|\b)`)
	suffixedRe = regexp.MustCompile(`(?i)\b\d{4,12}(?:(?:vnd|d)\b|đ)`)
	bareRe     = regexp.MustCompile(`\b\d{4,12}\b`)

	groupedCommaRe = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
	groupedDotRe   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
)

// vi-VN digit grouping for small plain amounts ("1.000" style).
var viPrinter = message.NewPrinter(language.Vietnamese)

// Summary is the result of parsing one message.
type Summary struct {
	// Tokens are the raw amount strings in order of appearance.
	Tokens []string
	// Total is the sum of the canonical values of all tokens.
	Total float64
	// TotalText is the display rendering of Total.
	TotalText string
}

// ExtractTokens returns the raw monetary tokens found in text, in order
// of appearance. Tokens that canonicalize to zero are not filtered here;
// that is the caller's call to make.
func ExtractTokens(text string) []string {
	cleaned := stripNoise(text)

	if tokens := unitRe.FindAllString(cleaned, -1); len(tokens) > 0 {
		return tokens
	}
	if tokens := groupedRe.FindAllString(cleaned, -1); len(tokens) > 0 {
		return tokens
	}
	if tokens := suffixedRe.FindAllString(cleaned, -1); len(tokens) > 0 {
		return tokens
	}

	// Loosest class: bare digit runs. Four-digit values in [1900, 2099]
	// read as calendar years, not money.
	var tokens []string
	for _, tok := range bareRe.FindAllString(cleaned, -1) {
		if n, err := strconv.Atoi(tok); err == nil && n >= 1900 && n <= 2099 {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Canonicalize converts one raw token into its numeric VND value.
// Unparseable input yields 0 rather than an error; empty results are
// filtered upstream by callers that care.
func Canonicalize(token string) float64 {
	s := strings.ToLower(strings.TrimSpace(token))
	s = trimCurrencySuffix(s)
	s = strings.TrimSpace(s)

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "tr"):
		mult = 1_000_000
		s = strings.TrimSuffix(s, "tr")
	case strings.HasSuffix(s, "m"):
		mult = 1_000_000
		s = strings.TrimSuffix(s, "m")
	case strings.HasSuffix(s, "k"):
		mult = 1_000
		s = strings.TrimSuffix(s, "k")
	}

	return parseLocalized(s) * mult
}

// Format renders a canonical value for display: millions as "tr",
// thousands as "k", smaller values as a vi-VN grouped integer. Integral
// scaled values drop the decimal point, fractional ones keep exactly one
// digit. Output is display-only and never parsed back.
func Format(v float64) string {
	switch {
	case v >= 1_000_000:
		return scaled(v/1_000_000, "tr")
	case v >= 1_000:
		return scaled(v/1_000, "k")
	default:
		return viPrinter.Sprintf("%d", int64(math.Round(v)))
	}
}

// Summarize parses text and returns the tokens found, their sum, and the
// sum's display form. Returns nil when no tokens are present.
func Summarize(text string) *Summary {
	tokens := ExtractTokens(text)
	if len(tokens) == 0 {
		return nil
	}

	var total float64
	for _, tok := range tokens {
		total += Canonicalize(tok)
	}

	return &Summary{
		Tokens:    tokens,
		Total:     total,
		TotalText: Format(total),
	}
}

func stripNoise(text string) string {
	text = codeBlockRe.ReplaceAllString(text, " ")
	text = inlineCodeRe.ReplaceAllString(text, " ")
	return mentionRe.ReplaceAllString(text, " ")
}

func trimCurrencySuffix(s string) string {
	for _, suffix := range []string{"vnd", "đ", "d"} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}

// parseLocalized parses a number whose "." and "," may each be either a
// decimal or a thousand separator. When both appear, the rightmost
// occurrence of either is the decimal separator and the other character
// is removed everywhere. With a single separator kind, a strict
// groups-of-three pattern reads as thousand grouping; anything else
// treats the last occurrence as the decimal point.
func parseLocalized(s string) float64 {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	dot := strings.LastIndexByte(s, '.')
	comma := strings.LastIndexByte(s, ',')
	switch {
	case dot >= 0 && comma >= 0:
		if dot > comma {
			s = strings.ReplaceAll(s, ",", "")
			s = decimalizeLast(s, ".")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = decimalizeLast(s, ",")
		}
	case comma >= 0:
		if groupedCommaRe.MatchString(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = decimalizeLast(s, ",")
		}
	case dot >= 0:
		if groupedDotRe.MatchString(s) {
			s = strings.ReplaceAll(s, ".", "")
		} else {
			s = decimalizeLast(s, ".")
		}
	}

	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// decimalizeLast rewrites the last occurrence of sep as the decimal point
// and drops any earlier ones.
func decimalizeLast(s, sep string) string {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s
	}
	return strings.ReplaceAll(s[:i], sep, "") + "." + s[i+len(sep):]
}

func scaled(x float64, unit string) string {
	if x == math.Trunc(x) {
		return strconv.FormatFloat(x, 'f', -1, 64) + unit
	}
	return strconv.FormatFloat(x, 'f', 1, 64) + unit
}
