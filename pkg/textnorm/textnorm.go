// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textnorm folds titles and queries into comparable forms.
//
// # Usage
//
// Search filtering compares AniList title variants against the user query
// case- and diacritic-insensitively. TMDB matching retries with a base title
// once season and part markers are removed. Cache keys use [Slug].
package textnorm

import (
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)

	// seasonMarkers match the installment suffixes AniList appends to sequels.
	seasonMarkers = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(the\s+)?final\s+season\b`),
		regexp.MustCompile(`(?i)\b\d+(st|nd|rd|th)\s+(season|part|cour)\b`),
		regexp.MustCompile(`(?i)\b(season|part|cour|vol\.?|volume)\s*\d+\b`),
		regexp.MustCompile(`(?i)\b(season|part|cour)\s+(i{1,3}|iv|v|vi{0,3})\b`),
		regexp.MustCompile(`(?i)\bs\d+\b`),
	}
	// trailingNoise is what remains after a marker was cut ("Title: ", "Title -").
	trailingNoise = regexp.MustCompile(`[\s:\-–,.(]+$`)
	multiSpace    = regexp.MustCompile(`\s+`)
)

// Fold lowercases s, strips diacritics and punctuation, and collapses whitespace.
//
// "Shingeki no Kyojin: The Final Season" → "shingeki no kyojin the final season"
func Fold(s string) string {
	result := stripMarks(s)
	result = strings.ToLower(result)

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, result)

	return strings.Join(strings.Fields(result), " ")
}

// BaseTitle removes season, part, cour and volume markers from a title.
// The original casing is kept. When stripping would leave nothing, s is returned trimmed.
func BaseTitle(s string) string {
	result := s
	for _, marker := range seasonMarkers {
		result = marker.ReplaceAllString(result, " ")
	}

	result = multiSpace.ReplaceAllString(result, " ")
	result = trailingNoise.ReplaceAllString(strings.TrimSpace(result), "")
	result = strings.TrimSpace(result)

	if result == "" {
		return strings.TrimSpace(s)
	}
	return result
}

// Slug converts an arbitrary Unicode string into a hyphenated cache-key segment.
//
// # Transformation Pipeline
//
// 1. Removes accents from Latin letters and converts to lowercase.
// 2. Replaces every rune that is not a letter or digit with a hyphen. Letters
// of any script are kept, so "進撃" and "鬼滅" stay distinct.
// 3. Collapses multiple hyphens and trims leading/trailing hyphens.
//
// Input made only of punctuation is hex-encoded behind a "~" prefix, which no
// letter-based slug can produce.
func Slug(s string) string {
	result := strings.ToLower(stripMarks(s))

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if trimmed := strings.TrimSpace(s); result == "" && trimmed != "" {
		return "~" + hex.EncodeToString([]byte(trimmed))
	}
	return result
}

// stripMarks decomposes s (é → e + combining acute) and drops the marks that sit
// on Latin letters. Marks on other scripts carry meaning (か vs が) and are kept.
func stripMarks(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))

	var base rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			if unicode.Is(unicode.Latin, base) {
				continue
			}
		} else {
			base = r
		}
		builder.WriteRune(r)
	}

	return norm.NFC.String(builder.String())
}
