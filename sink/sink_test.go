package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/decl2ts/errors"
)

const pointBlock = "export interface Point {\n    x: number;\n    y: number;\n}\n\n"

func newArtifact(t *testing.T) *Artifact {
	t.Helper()
	a, err := New(Config{Dir: t.TempDir()})
	require.NoError(t, err)
	return a
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNew_Layout(t *testing.T) {
	dir := t.TempDir()
	a, err := New(Config{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "decl2ts"), a.Dir())
	assert.Equal(t, filepath.Join(dir, "decl2ts", "generated.ts"), a.Path())

	custom, err := New(Config{Dir: dir, Subdir: "types", Artifact: "index.d.ts"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "types", "index.d.ts"), custom.Path())

	_, err = os.Stat(a.Dir())
	assert.True(t, os.IsNotExist(err), "New must not touch the filesystem")
}

func TestNew_RequiresDir(t *testing.T) {
	_, err := New(Config{Dir: "  "})
	require.Error(t, err)
	assert.True(t, errors.IsSinkError(err))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestNew_SharesLockPerPath(t *testing.T) {
	dir := t.TempDir()
	a, err := New(Config{Dir: dir})
	require.NoError(t, err)
	b, err := New(Config{Dir: dir})
	require.NoError(t, err)
	assert.Same(t, a.mu, b.mu)
}

func TestPrepare(t *testing.T) {
	a := newArtifact(t)
	require.NoError(t, a.Prepare())

	assert.Empty(t, readFile(t, a.Path()))
	js := readFile(t, filepath.Join(a.Dir(), "generated.js"))
	assert.Equal(t, 2, strings.Count(js, "\n"), "Placeholder is two comment lines")
	assert.True(t, strings.HasPrefix(js, "//"))
	assert.True(t, strings.HasPrefix(readFile(t, filepath.Join(a.Dir(), "INFO.txt")), "decl2ts "))
}

func TestPrepare_WritesCompanionsOnce(t *testing.T) {
	a := newArtifact(t)
	require.NoError(t, a.Prepare())

	info := filepath.Join(a.Dir(), "INFO.txt")
	require.NoError(t, os.WriteFile(info, []byte("edited"), 0644))
	_, err := a.Append(pointBlock)
	require.NoError(t, err)

	require.NoError(t, a.Prepare())
	assert.Equal(t, "edited", readFile(t, info))
	assert.Equal(t, pointBlock, readFile(t, a.Path()), "Prepare must not truncate an existing artifact")
}

func TestAppend_NotIdempotent(t *testing.T) {
	a := newArtifact(t)

	run := func() {
		for _, block := range []string{pointBlock, "export const PI: number;\n\n"} {
			_, err := a.Append(block)
			require.NoError(t, err)
		}
	}

	run()
	once := readFile(t, a.Path())
	run()
	assert.Equal(t, once+once, readFile(t, a.Path()), "Append mode duplicates content on re-run")
}

func TestAppend_Empty(t *testing.T) {
	a := newArtifact(t)
	n, err := a.Append("")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = os.Stat(a.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestAppend_ConcurrentBlocksDoNotInterleave(t *testing.T) {
	a := newArtifact(t)

	const writers = 32
	blocks := make([]string, writers)
	for i := range blocks {
		blocks[i] = fmt.Sprintf("export interface T%d {\n%s}\n\n", i, strings.Repeat(fmt.Sprintf("    f%d: number;\n", i), 200))
	}

	var wg sync.WaitGroup
	for _, b := range blocks {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			_, err := a.Append(text)
			assert.NoError(t, err)
		}(b)
	}
	wg.Wait()

	got := readFile(t, a.Path())
	total := 0
	for _, b := range blocks {
		assert.Equal(t, 1, strings.Count(got, b))
		total += len(b)
	}
	assert.Len(t, got, total)
}

func TestReplace_Idempotent(t *testing.T) {
	a := newArtifact(t)

	for i := 0; i < 3; i++ {
		acc := NewAccumulator()
		acc.Add(pointBlock)
		acc.Add("")
		acc.Add("export const PI: number;\n\n")
		n, err := acc.Flush(a)
		require.NoError(t, err)
		assert.Equal(t, len(pointBlock)+len("export const PI: number;\n\n"), n)
	}

	assert.Equal(t, pointBlock+"export const PI: number;\n\n", readFile(t, a.Path()))

	entries, err := os.ReadDir(a.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp.", "Temporary files must be cleaned up")
	}
}

func TestTruncate(t *testing.T) {
	a := newArtifact(t)
	_, err := a.Append(pointBlock)
	require.NoError(t, err)

	require.NoError(t, a.Truncate())
	text, err := a.Read()
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRead_Missing(t *testing.T) {
	a := newArtifact(t)
	text, err := a.Read()
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestUnwritableDirectory(t *testing.T) {
	// A regular file where the output directory should be
	base := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0644))

	a, err := New(Config{Dir: base})
	require.NoError(t, err)

	assert.True(t, errors.IsSinkError(a.Prepare()))

	_, err = a.Append(pointBlock)
	assert.True(t, errors.IsSinkError(err))

	assert.True(t, errors.IsSinkError(a.Replace(pointBlock)))

	acc := NewAccumulator()
	acc.Add(pointBlock)
	_, err = acc.Flush(a)
	require.Error(t, err)
	assert.Equal(t, 1, acc.Len(), "Fragments are kept after a failed flush")
}

func TestAccumulator(t *testing.T) {
	acc := NewAccumulator()

	f0 := acc.Add("a\n\n")
	empty := acc.Add("")
	f1 := acc.Add("b\n\n")

	assert.Equal(t, 0, f0.Seq)
	assert.True(t, empty.Empty())
	assert.Equal(t, 1, f1.Seq, "Empty fragments do not consume a sequence number")
	assert.Equal(t, 2, acc.Len())
	assert.Equal(t, "a\n\nb\n\n", acc.String())

	frags := acc.Fragments()
	frags[0].Text = "mutated"
	assert.Equal(t, "a\n\nb\n\n", acc.String())

	acc.Reset()
	assert.Zero(t, acc.Len())
	assert.Empty(t, acc.String())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeRewrite, m)

	m, err = ParseMode("Append")
	require.NoError(t, err)
	assert.Equal(t, ModeAppend, m)

	_, err = ParseMode("overwrite")
	assert.Error(t, err)
}
