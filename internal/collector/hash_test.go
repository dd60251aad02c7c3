package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceHashIsOrderIndependent(t *testing.T) {
	a := []FileEntry{{Path: "b.txt", Content: "b"}, {Path: "a.txt", Content: "a"}}
	b := []FileEntry{{Path: "a.txt", Content: "a"}, {Path: "b.txt", Content: "b"}}

	assert.Equal(t, SourceHash(a), SourceHash(b))
}

func TestSourceHashChangesWithContent(t *testing.T) {
	a := []FileEntry{{Path: "a.txt", Content: "a"}}
	b := []FileEntry{{Path: "a.txt", Content: "a2"}}

	assert.NotEqual(t, SourceHash(a), SourceHash(b))
}
