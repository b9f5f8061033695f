package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty string", "", ""},
		{"Whitespace only", " \t\n ", ""},
		{"Lowercases", "Data Scientist", "data scientist"},
		{"Strips punctuation without inserting spaces", "e-mail, C++ & Node.js!", "email c nodejs"},
		{"Keeps digits and underscores", "snake_case 2024", "snake_case 2024"},
		{"Collapses whitespace runs", "  python\t\tsql \n\n  r  ", "python sql r"},
		{"Punctuation only", "!!! ... ???", ""},
		{"Keeps accented letters", "Café Résumé", "café résumé"},
		{"Removes punctuation between spaces", "skills : python", "skills python"},
		{"Unicode whitespace collapses", "go\u00a0\u2003rust", "go rust"},
		{"Vertical tab separates words", "python\vsql", "python sql"},
		{"Next line separates words", "python\u0085sql", "python sql"},
		{"Information separators separate words", "python\x1csql\x1fr", "python sql r"},
		{"Line separator separates words", "python\u2028sql", "python sql"},
		{"Form feed and carriage return", "a\fb\rc", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeText(tt.input))
		})
	}
}

func TestNormalizeText_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Data Scientist. Skills: Python, R, SQL, Machine Learning. Experience: 4+ years.",
		"Experienced Nurse Practitioner, 8 years. No programming background.",
		"  Jan 2020 – Dec 2023 | Senior  Engineer @ ACME, Inc.  ",
		"ÀÉÎ õü --- ___ 123",
		"tab\tseparated\nlines\r\nhere",
	}

	for _, input := range inputs {
		once := NormalizeText(input)
		assert.Equal(t, once, NormalizeText(once), "normalizing twice should not change %q", input)
	}
}

func TestTokenize(t *testing.T) {
	assert.Nil(t, Tokenize(""))
	assert.Nil(t, Tokenize("... !!!"))
	assert.Equal(t, []string{"machine", "learning", "python"}, Tokenize("Machine Learning? Python."))
	assert.Equal(t, []string{"machinelearning"}, Tokenize("machine-learning"))
}
