// Package source resolves the CLI's <source> argument — an HTTPS/SSH git
// URL, a local path, or an "owner/repo" shorthand — into a local directory
// the collector can walk, and derives the report's skill_slug/source_url/
// commit_sha fields. No third-party git library is used here: none of the
// retrieved example repos imports one (go-git or otherwise), so cloning
// shells out to the system git binary the same way the examples shell out
// to other external tools (see DESIGN.md).
package source

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// shellMetacharacters is the exact reject set from spec.md section 6.
const shellMetacharacters = ";&|`$(){}!\n\r"

var (
	urlSchemePattern  = regexp.MustCompile(`^(https?|git|ssh)://`)
	scpLikePattern    = regexp.MustCompile(`^[\w.-]+@[\w.-]+:.+$`)
	shorthandPattern  = regexp.MustCompile(`^[\w.-]+/[\w.-]+$`)
)

// Kind distinguishes how a resolved source reached its local directory.
type Kind string

const (
	KindLocalPath Kind = "local-path"
	KindGitClone  Kind = "git-clone"
)

// Resolved describes a source ready for collection.
type Resolved struct {
	Dir       string
	SourceURL string
	CommitSHA string
	Kind      Kind
	cleanup   func()
}

// Cleanup removes any temporary clone directory. Safe to call on a
// zero-value Resolved (no-op) or more than once.
func (r Resolved) Cleanup() {
	if r.cleanup != nil {
		r.cleanup()
	}
}

// ValidateURL enforces spec.md section 6's input rule: the source must look
// like one of the five accepted URL forms, or a local path, and must not
// contain a shell metacharacter — checked before any clone command is ever
// constructed, so a malicious argument never reaches exec.Command's argv in
// a position that could be reinterpreted.
func ValidateURL(src string) error {
	for _, r := range shellMetacharacters {
		if strings.ContainsRune(src, r) {
			return fmt.Errorf("source argument contains a disallowed character: %q", string(r))
		}
	}
	return nil
}

// looksLikeRemote reports whether src should be treated as a cloneable
// remote reference rather than a local filesystem path.
func looksLikeRemote(src string) bool {
	return urlSchemePattern.MatchString(src) || scpLikePattern.MatchString(src) || shorthandPattern.MatchString(src)
}

// Resolve turns src into a local directory. Local paths are used in place;
// remote references are shallow-cloned into a temporary directory that the
// caller must Cleanup(). The git binary must be on PATH for remote sources.
func Resolve(ctx context.Context, src string) (Resolved, error) {
	if err := ValidateURL(src); err != nil {
		return Resolved{}, err
	}

	if !looksLikeRemote(src) {
		info, err := os.Stat(src)
		if err != nil {
			return Resolved{}, fmt.Errorf("local path %q: %w", src, err)
		}
		if !info.IsDir() {
			return Resolved{}, fmt.Errorf("local path %q is not a directory", src)
		}
		abs, err := filepath.Abs(src)
		if err != nil {
			abs = src
		}
		return Resolved{Dir: abs, SourceURL: "", Kind: KindLocalPath}, nil
	}

	url := normalizeShorthand(src)

	dir, err := os.MkdirTemp("", "agentaudit-clone-*")
	if err != nil {
		return Resolved{}, fmt.Errorf("create clone directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", "--quiet", url, dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		cleanup()
		return Resolved{}, fmt.Errorf("git clone failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	sha := commitSHA(ctx, dir)

	return Resolved{Dir: dir, SourceURL: url, CommitSHA: sha, Kind: KindGitClone, cleanup: cleanup}, nil
}

// normalizeShorthand expands an "owner/repo" shorthand into a GitHub HTTPS
// URL; every other accepted form is passed to git unchanged.
func normalizeShorthand(src string) string {
	if shorthandPattern.MatchString(src) && !urlSchemePattern.MatchString(src) && !scpLikePattern.MatchString(src) {
		return "https://github.com/" + src
	}
	return src
}

func commitSHA(ctx context.Context, dir string) string {
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// SkillSlug derives the report's skill_slug from the resolved source: the
// final path segment of a remote URL (stripped of a trailing ".git"), or
// the base name of a local directory, lowercased.
func SkillSlug(src string, resolved Resolved) string {
	base := src
	if resolved.SourceURL != "" {
		base = resolved.SourceURL
	}
	base = strings.TrimSuffix(base, "/")
	base = strings.TrimSuffix(base, ".git")
	parts := strings.FieldsFunc(base, func(r rune) bool { return r == '/' || r == ':' })
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.ToLower(parts[len(parts)-1])
}
