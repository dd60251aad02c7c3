package llmaudit

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
)

// MultiAudit dispatches one primary call per requested model in parallel;
// independent failures do not block peers (spec.md 4.4.6, 5). Verification,
// when enabled, runs per model. Grounded on the teacher's
// internal/pkgcheck.Orchestrator.CheckAll fan-out (mutex-guarded slice
// append across a WaitGroup).
func MultiAudit(ctx context.Context, req AuditRequest, models []string, opts Options) ([]*AuditResult, []error, *ConsensusResult) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []*AuditResult
		errs    []error
	)

	for _, m := range models {
		wg.Add(1)
		go func(modelName string) {
			defer wg.Done()

			perModelReq := req
			perModelReq.Model = modelName
			perModelOpts := opts
			perModelOpts.ModelOverride = modelName

			res, err := Audit(ctx, perModelReq, perModelOpts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			results = append(results, res)
		}(m)
	}

	wg.Wait()

	var consensus *ConsensusResult
	if len(results) > 1 {
		consensus = fuseConsensus(results)
	}

	return results, errs, consensus
}

// titleNormalizePattern collapses every non-alphanumeric run to a single
// space for the finding-fusion key (spec.md 4.4.6).
var titleNormalizePattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func normalizeTitle(title string) string {
	lower := strings.ToLower(title)
	collapsed := titleNormalizePattern.ReplaceAllString(lower, " ")
	return strings.TrimSpace(collapsed)
}

// fuseConsensus derives the deterministic consensus view described in
// spec.md 4.4.6: min/max/mean risk, severity agreement, and finding fusion
// keyed by normalised title.
func fuseConsensus(results []*AuditResult) *ConsensusResult {
	c := &ConsensusResult{
		PerModelSeverity: map[string]model.Severity{},
		Unique:           map[string][]string{},
	}

	riskMin, riskMax, riskSum := 101, -1, 0
	var firstSeverity model.Severity
	unanimous := true

	titleToModels := map[string]map[string]bool{}

	for i, r := range results {
		c.Models = append(c.Models, r.Model)
		c.PerModelSeverity[r.Model] = r.Report.MaxSeverity

		if r.Report.RiskScore < riskMin {
			riskMin = r.Report.RiskScore
		}
		if r.Report.RiskScore > riskMax {
			riskMax = r.Report.RiskScore
		}
		riskSum += r.Report.RiskScore

		if i == 0 {
			firstSeverity = r.Report.MaxSeverity
		} else if r.Report.MaxSeverity != firstSeverity {
			unanimous = false
		}

		for _, f := range r.Report.Findings {
			key := normalizeTitle(f.Title)
			if key == "" {
				continue
			}
			if titleToModels[key] == nil {
				titleToModels[key] = map[string]bool{}
			}
			titleToModels[key][r.Model] = true
		}
	}

	if riskMin > riskMax {
		riskMin, riskMax = 0, 0
	}
	c.RiskMin = riskMin
	c.RiskMax = riskMax
	if len(results) > 0 {
		c.RiskMean = float64(riskSum) / float64(len(results))
	}
	c.SeverityUnanimous = unanimous

	// Map iteration order is random; sort keys (and each key's model set)
	// before appending so identical inputs always produce a byte-identical
	// Shared/Unique ordering, per spec.md section 5.
	titles := make([]string, 0, len(titleToModels))
	for key := range titleToModels {
		titles = append(titles, key)
	}
	sort.Strings(titles)

	for _, key := range titles {
		models := titleToModels[key]
		if len(models) >= 2 {
			c.Shared = append(c.Shared, key)
			continue
		}
		for _, m := range sortedKeys(models) {
			c.Unique[m] = append(c.Unique[m], key)
		}
	}

	return c
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ToReportConsensusMeta converts the internal ConsensusResult into the
// model.ConsensusMeta persisted on each model's report.
func ToReportConsensusMeta(c *ConsensusResult) *model.ConsensusMeta {
	if c == nil {
		return nil
	}
	return &model.ConsensusMeta{
		Models:       c.Models,
		AgreedCount:  len(c.Shared),
		DisputeCount: totalUnique(c.Unique),
	}
}

func totalUnique(unique map[string][]string) int {
	n := 0
	for _, v := range unique {
		n += len(v)
	}
	return n
}
