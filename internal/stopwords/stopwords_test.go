package stopwords

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnionOfLists(t *testing.T) {
	set := New([]string{"the", "and"}, []string{"manager", "the"})

	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains("the"))
	assert.True(t, set.Contains("and"))
	assert.True(t, set.Contains("manager"))
	assert.False(t, set.Contains("python"))
}

func TestNew_NormalizesEntries(t *testing.T) {
	set := New([]string{"Don't", "  Senior  ", "C.P.A."})

	assert.True(t, set.Contains("dont"))
	assert.True(t, set.Contains("senior"))
	assert.True(t, set.Contains("cpa"))
	assert.False(t, set.Contains("Don't"), "lookups are done on normalized tokens")
}

func TestNilSet(t *testing.T) {
	var set *Set
	assert.False(t, set.Contains("the"))
	assert.Equal(t, 0, set.Len())
	assert.True(t, set.Union([]string{"x"}).Contains("x"))
}

func TestUnion_DoesNotMutateReceiver(t *testing.T) {
	base := New([]string{"the"})
	merged := base.Union([]string{"lead"})

	assert.True(t, merged.Contains("the"))
	assert.True(t, merged.Contains("lead"))
	assert.False(t, base.Contains("lead"))
}

func TestDefault_ContainsBothBundledLists(t *testing.T) {
	set := Default()

	// general language
	assert.True(t, set.Contains("the"))
	assert.True(t, set.Contains("because"))
	// domain vocabulary
	assert.True(t, set.Contains("experience"))
	assert.True(t, set.Contains("senior"))
	assert.True(t, set.Contains("responsibilities"))

	assert.False(t, set.Contains("python"))
	assert.False(t, set.Contains("kubernetes"))
	assert.False(t, set.Contains("nurse"))

	assert.Greater(t, set.Len(), 500)
}

func TestBundledLists_NotEmpty(t *testing.T) {
	assert.NotEmpty(t, English())
	assert.NotEmpty(t, Domain())
	for _, word := range Domain() {
		assert.NotContains(t, word, "#", "comment lines must be skipped")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.txt")
	require.NoError(t, os.WriteFile(path, []byte("# custom\nfoo\n\n  bar  \n"), 0644))

	words, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar"}, words)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open stopword file")
}
