package collector

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// SourceHash computes the deterministic sha-256 over the sorted
// (path, content) sequence of files, per spec.md §3's Report.source_hash
// definition. Grounded on the teacher's mcpinspect.ComputeHash, generalised
// from one tool definition to a whole file set.
func SourceHash(files []FileEntry) string {
	sorted := make([]FileEntry, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var b strings.Builder
	for _, f := range sorted {
		b.WriteString(strconv.Itoa(len(f.Path)))
		b.WriteByte(':')
		b.WriteString(f.Path)
		b.WriteByte('\n')
		b.WriteString(strconv.Itoa(len(f.Content)))
		b.WriteByte(':')
		b.WriteString(f.Content)
		b.WriteByte('\n')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
