// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// WordsPerMinute is the reading speed used for derived read times.
const WordsPerMinute = 200

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// ReadTime returns a label such as "4 min read" for an HTML body.
// Anything non-empty reads in at least one minute.
func ReadTime(body string) string {
	text := html.UnescapeString(htmlTag.ReplaceAllString(body, " "))
	words := len(strings.Fields(text))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

func readTimeOr(label, body string) string {
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return ReadTime(body)
}
