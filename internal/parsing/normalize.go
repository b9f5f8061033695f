// Package parsing provides text normalization shared by keyword extraction and embedding.
package parsing

import (
	"regexp"
	"strings"
)

// spaceChars matches whitespace runs. RE2's \s is ASCII only, so vertical tab,
// NEL and the information separators U+001C..U+001F are listed explicitly.
var spaceChars = regexp.MustCompile(`[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]+`)

// nonWordChars matches anything that is not a letter, digit, underscore or space.
// Unicode classes are used so accented letters and non-Latin scripts survive.
var nonWordChars = regexp.MustCompile(`[^\p{L}\p{N}_ ]+`)

// NormalizeText lowercases s, deletes punctuation, and collapses whitespace runs
// to a single space. Punctuation is removed outright, so "e-mail" becomes "email".
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)
	s = spaceChars.ReplaceAllString(s, " ")
	s = nonWordChars.ReplaceAllString(s, "")

	return strings.Join(strings.Fields(s), " ")
}

// Tokenize normalizes s and splits it on whitespace.
func Tokenize(s string) []string {
	normalized := NormalizeText(s)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}
