// Package stopwords builds the immutable stopword set used by keyword extraction.
//
// A Set is the union of any number of word lists. It is built once at startup
// and passed to consumers explicitly; after construction it is never mutated,
// so a single Set can be shared by concurrent scorers without locking.
package stopwords

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/resume-relevance/internal/parsing"
)

//go:embed data/*.txt
var bundled embed.FS

// Set is an immutable collection of stopwords.
type Set struct {
	words map[string]struct{}
}

// New returns the union of the given lists. Entries are normalized the same
// way keyword tokens are, so "don't" is stored as "dont".
func New(lists ...[]string) *Set {
	s := &Set{words: make(map[string]struct{})}
	for _, list := range lists {
		for _, word := range list {
			for _, token := range parsing.Tokenize(word) {
				s.words[token] = struct{}{}
			}
		}
	}
	return s
}

// Contains reports whether token is a stopword. A nil Set contains nothing.
func (s *Set) Contains(token string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[token]
	return ok
}

// Len returns the number of distinct stopwords.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Union returns a new Set holding the words of s plus the given lists.
func (s *Set) Union(lists ...[]string) *Set {
	merged := New(lists...)
	if s != nil {
		for word := range s.words {
			merged.words[word] = struct{}{}
		}
	}
	return merged
}

// English returns the bundled general-language stopword list.
func English() []string {
	return mustReadBundled("data/english.txt")
}

// Domain returns the bundled domain stopword list: job titles, hiring
// vocabulary, generic business jargon and ubiquitous tool/certification names.
func Domain() []string {
	return mustReadBundled("data/domain.txt")
}

// Default builds the union of English and Domain.
func Default() *Set {
	return New(English(), Domain())
}

// LoadFile reads a newline-separated word list. Blank lines and lines starting
// with '#' are ignored.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stopword file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	words, err := readList(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read stopword file %s: %w", path, err)
	}
	return words, nil
}

func mustReadBundled(name string) []string {
	f, err := bundled.Open(name)
	if err != nil {
		panic(fmt.Sprintf("bundled stopword list %s missing: %v", name, err))
	}
	defer func() { _ = f.Close() }()

	words, err := readList(f)
	if err != nil {
		panic(fmt.Sprintf("bundled stopword list %s unreadable: %v", name, err))
	}
	return words
}

func readList(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
