// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug normalizes display names into URL-safe identifiers and
// proposes alternatives when a slug is already taken.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// suffixAlphabet keeps suggestions inside the slug charset.
const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// SuffixLength is the length of the random token appended by Suggest.
const SuffixLength = 6

// MaxLength bounds Suggest output so it fits the narrowest slug column.
const MaxLength = 255

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, whitespace or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace runs become a single hyphen.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// valid is the canonical slug shape.
	valid = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	// letters that do not decompose into a base letter plus a mark.
	ligatures = strings.NewReplacer("ß", "ss", "æ", "ae", "œ", "oe", "ø", "o", "ł", "l", "đ", "d")
)

// fold strips diacritics: "protéine" becomes "proteine". A chain keeps
// buffers, so one is built per call.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Generate creates a URL-friendly slug from the given string. Accented
// Latin letters are folded to ASCII; other scripts are dropped.
// Example: "Protéomique (NGS)" → "proteomique-ngs"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = fold(ligatures.Replace(result))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return valid.MatchString(s)
}

// Suggest returns s with a short random suffix, e.g. "ai-x7k2pq". Long
// bases are cut so the result stays within MaxLength. It is advisory only;
// the caller still has to check availability.
func Suggest(s string) string {
	base := Generate(s)
	token, err := gonanoid.Generate(suffixAlphabet, SuffixLength)
	if err != nil {
		// crypto/rand failure; fall back to a fixed marker so callers still
		// get a distinct value.
		token = "copy"
	}
	if base == "" {
		return token
	}
	if limit := MaxLength - 1 - SuffixLength; len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}
	return base + "-" + token
}
