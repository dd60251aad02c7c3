package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestCollectSkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.js", "console.log('hi')")
	writeFile(t, root, "node_modules/pkg/index.js", "should not appear")
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main")

	entries, err := Collect(root, DefaultOptions())
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, "index.js")
	assert.NotContains(t, paths, "node_modules/pkg/index.js")
	assert.NotContains(t, paths, ".git/HEAD")
}

func TestCollectKeepsGithubWorkflowsButPrunesRestOfGithub(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".github/workflows/ci.yml", "name: ci")
	writeFile(t, root, ".github/ISSUE_TEMPLATE/bug.md", "template")

	entries, err := Collect(root, DefaultOptions())
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, ".github/workflows/ci.yml")
	assert.NotContains(t, paths, ".github/ISSUE_TEMPLATE/bug.md")
}

func TestCollectRejectsOpaqueExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "logo.png", "binarydata")
	writeFile(t, root, "main.py", "print('hi')")

	entries, err := Collect(root, DefaultOptions())
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, "main.py")
	assert.NotContains(t, paths, "logo.png")
}

func TestCollectEnforcesPerFileAndTotalBudgets(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, 200)
	for i := range big {
		big[i] = 'a'
	}
	writeFile(t, root, "big.txt", string(big))
	writeFile(t, root, "small.txt", "ok")

	entries, err := Collect(root, Options{MaxFileBytes: 100, MaxTotalBytes: 1000})
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.NotContains(t, paths, "big.txt")
	assert.Contains(t, paths, "small.txt")
}

func TestCollectSkipsNonUTF8Files(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.txt"), []byte{0xff, 0xfe, 0x00}, 0o644))
	writeFile(t, root, "good.txt", "hello")

	entries, err := Collect(root, DefaultOptions())
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.NotContains(t, paths, "bad.txt")
	assert.Contains(t, paths, "good.txt")
}

func TestCollectEmptyDirectoryIsValid(t *testing.T) {
	root := t.TempDir()
	entries, err := Collect(root, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCollectIsLexicallyDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.txt", "b")
	writeFile(t, root, "a.txt", "a")
	writeFile(t, root, "c.txt", "c")

	entries, err := Collect(root, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, []string{entries[0].Path, entries[1].Path, entries[2].Path})
}
