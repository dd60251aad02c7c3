package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/agentaudit-dev/agentaudit-cli/internal/collector"
	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
	"github.com/agentaudit-dev/agentaudit-cli/internal/patternscan"
	"github.com/agentaudit-dev/agentaudit-cli/internal/reportio"
	"github.com/agentaudit-dev/agentaudit-cli/internal/source"
	"github.com/agentaudit-dev/agentaudit-cli/internal/toolpoison"
	"github.com/spf13/cobra"
)

// configureLogging installs a JSON slog handler on os.Stderr as the default
// logger for the process, matching the teacher's slog.Default()-based
// logging (internal/llmproxy/proxy.go, internal/signal/handler.go). --debug
// lowers the level to Debug; every command otherwise logs at Info and
// above so routine scans stay quiet on stderr.
func configureLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// collected bundles C1's output plus the resolved source metadata that
// feeds the report's skill_slug/source_url/commit_sha fields.
type collected struct {
	resolved source.Resolved
	files    []collector.FileEntry
	profile  collector.Profile
	slug     string
}

// collectSource runs C1 (and source resolution) for both `scan` and
// `audit`: resolve the argument to a local directory, walk it, and derive
// the Package Profile.
func collectSource(ctx context.Context, src string) (*collected, error) {
	slog.Info("resolving source", "source", src)
	resolved, err := source.Resolve(ctx, src)
	if err != nil {
		slog.Error("resolve source failed", "source", src, "error", err)
		return nil, &ExitError{code: 2, message: fmt.Sprintf("resolve source: %v", err)}
	}

	files, err := collector.Collect(resolved.Dir, collector.DefaultOptions())
	if err != nil {
		resolved.Cleanup()
		slog.Error("collect files failed", "source", src, "error", err)
		return nil, &ExitError{code: 2, message: fmt.Sprintf("collect files: %v", err)}
	}

	profile := collector.BuildProfile(files)
	slug := source.SkillSlug(src, resolved)
	slog.Info("collected source", "slug", slug, "files", len(files), "package_type", string(profile.Kind))

	return &collected{resolved: resolved, files: files, profile: profile, slug: slug}, nil
}

// staticFindings runs C2 (tool-poisoning) then C3 (pattern scan) and
// concatenates their output in that order, matching the ordering guarantee
// in spec.md section 5 ("C2 by tool then category; C3 by file then rule").
func staticFindings(c *collected) []model.Finding {
	tools := toolpoison.ExtractTools(c.files)
	detector := toolpoison.NewDetector()
	c2, _ := detector.Inspect(tools)

	c3 := patternscan.Scan(c.files)
	slog.Info("static analysis complete", "tools_scanned", len(tools), "tool_poisoning_findings", len(c2), "pattern_findings", len(c3))

	out := make([]model.Finding, 0, len(c2)+len(c3))
	out = append(out, c2...)
	out = append(out, c3...)
	return out
}

// writeReport renders r in the requested format and prints it to cmd's
// stdout.
func writeReport(cmd *cobra.Command, r *model.Report, format string) error {
	slog.Info("writing report", "scan_id", r.ScanID, "format", format, "result", string(r.Result), "risk_score", r.RiskScore, "findings", r.FindingsCount)
	switch format {
	case "", "json":
		out, err := reportio.MarshalJSON(r)
		if err != nil {
			return &ExitError{code: 2, message: fmt.Sprintf("render json report: %v", err)}
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	case "sarif":
		out, err := reportio.MarshalSARIF(r)
		if err != nil {
			return &ExitError{code: 2, message: fmt.Sprintf("render sarif report: %v", err)}
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	default:
		return &ExitError{code: 2, message: fmt.Sprintf("unsupported --format %q (want json or sarif)", format)}
	}
	return nil
}

// cachePath resolves the scan-history database location, overridable via
// AGENTAUDIT_CACHE for tests and CI sandboxes.
func cachePath() string {
	if v := os.Getenv("AGENTAUDIT_CACHE"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agentaudit-cache.db"
	}
	return filepath.Join(home, ".agentaudit", "cache.db")
}

// noteCacheAndRecord reports whether sourceURL's source_hash is unchanged
// since its last scan, then records the current hash for next time. Cache
// errors are advisory only: a broken or missing cache never fails a scan.
func noteCacheAndRecord(cmd *cobra.Command, sourceURL, sourceHash string) {
	if sourceURL == "" {
		return
	}
	c, err := collector.OpenCache(cachePath())
	if err != nil {
		return
	}
	defer c.Close()

	if last, ok, err := c.LastHash(sourceURL); err == nil && ok && last == sourceHash {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: source unchanged since last scan")
		slog.Debug("cache hit: source unchanged since last scan", "source_url", sourceURL)
	}
	if err := c.Record(sourceURL, sourceHash, time.Now()); err != nil {
		slog.Debug("cache record failed", "source_url", sourceURL, "error", err)
	}
}

// exitForReport implements spec.md section 6's exit code rule: 0 when the
// report retains no findings, 1 when it does. Error paths return an
// *ExitError with code 2 before ever reaching this function.
func exitForReport(r *model.Report) error {
	if r.FindingsCount > 0 {
		return &ExitError{code: 1}
	}
	return nil
}
