package collector

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	maxFileBytes  = 50 * 1024
	maxTotalBytes = 300 * 1024
)

var excludedDirNames = map[string]bool{
	"node_modules": true, ".git": true, "__pycache__": true,
	"venv": true, ".venv": true, "dist": true, "build": true,
	".next": true, ".nuxt": true, "coverage": true, "vendor": true,
	"test": true, "tests": true, "__tests__": true, "spec": true, "specs": true,
	"docs": true, "doc": true, "examples": true, "example": true,
	"fixtures": true, "e2e": true, "benchmarks": true,
	".tox": true, ".eggs": true, "htmlcov": true,
}

var opaqueExtensions = map[string]bool{
	// images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".ico": true, ".webp": true, ".svg": true, ".tiff": true,
	// fonts
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	// audio/video
	".mp3": true, ".mp4": true, ".wav": true, ".ogg": true, ".mov": true, ".avi": true, ".webm": true, ".flac": true,
	// archives
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true, ".7z": true, ".rar": true,
	// compiled artefacts / binaries
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true, ".o": true, ".a": true, ".class": true, ".pyc": true, ".wasm": true,
	// lockfiles
	".lock": true,
	// source maps / minified / declarations
	".map": true, ".min.js": true, ".d.ts": true,
	// databases
	".db": true, ".sqlite": true, ".sqlite3": true,
}

// Options configures one collection run.
type Options struct {
	MaxFileBytes  int
	MaxTotalBytes int
}

// DefaultOptions returns the spec's ~50KB/~300KB budgets.
func DefaultOptions() Options {
	return Options{MaxFileBytes: maxFileBytes, MaxTotalBytes: maxTotalBytes}
}

// Collect walks root depth-first in lexical order and returns the bounded,
// symlink-safe, UTF-8-validated file set. Individual file-read errors are
// swallowed; an empty result is valid. Root itself must exist and be a
// directory.
func Collect(root string, opts Options) ([]FileEntry, error) {
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = maxFileBytes
	}
	if opts.MaxTotalBytes <= 0 {
		opts.MaxTotalBytes = maxTotalBytes
	}

	visited := make(map[string]bool)
	var entries []FileEntry
	total := 0

	var walk func(dir, relPrefix string) error
	walk = func(dir, relPrefix string) error {
		canon, err := filepath.EvalSymlinks(dir)
		if err != nil {
			canon = dir
		}
		if visited[canon] {
			return nil
		}
		visited[canon] = true

		children, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}

		sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })

		for _, child := range children {
			if total >= opts.MaxTotalBytes {
				return nil
			}

			name := child.Name()
			relPath := name
			if relPrefix != "" {
				relPath = relPrefix + "/" + name
			}

			if child.IsDir() {
				if shouldSkipDir(name, relPath) {
					continue
				}
				info, err := child.Info()
				if err == nil && info.Mode()&os.ModeSymlink != 0 {
					continue
				}
				if err := walk(filepath.Join(dir, name), relPath); err != nil {
					return err
				}
				continue
			}

			info, err := child.Info()
			if err != nil {
				continue
			}
			if info.Mode()&os.ModeSymlink != 0 {
				continue
			}
			if strings.HasPrefix(relPath, ".github/") && !strings.HasPrefix(relPath, ".github/workflows/") {
				continue
			}
			if isOpaqueExtension(name) {
				continue
			}
			if info.Size() == 0 || int(info.Size()) > opts.MaxFileBytes {
				continue
			}

			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				continue
			}
			if !utf8.Valid(data) {
				continue
			}
			if total+len(data) > opts.MaxTotalBytes {
				data = data[:opts.MaxTotalBytes-total]
				if !utf8.Valid(data) {
					continue
				}
			}

			entries = append(entries, FileEntry{Path: relPath, Content: string(data), Size: len(data)})
			total += len(data)
		}
		return nil
	}

	if err := walk(root, ""); err != nil {
		return nil, err
	}
	return entries, nil
}

// shouldSkipDir implements the exclusion-directory list, including the
// .github/.github/workflows carve-out (CI configs are security-relevant).
func shouldSkipDir(name, relPath string) bool {
	if name == ".github" {
		return false // descend; workflows are kept, other .github content pruned below
	}
	if relPath == ".github" {
		return false
	}
	if strings.HasPrefix(relPath, ".github/") && relPath != ".github/workflows" && !strings.HasPrefix(relPath, ".github/workflows/") {
		return true
	}
	if strings.HasPrefix(name, ".") && name != ".github" {
		return true
	}
	return excludedDirNames[name]
}

func isOpaqueExtension(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".min.js") || strings.HasSuffix(lower, ".d.ts") {
		return true
	}
	ext := filepath.Ext(lower)
	return opaqueExtensions[ext]
}
