package toolpoison

import (
	"fmt"
	"math"
)

const (
	lengthThresholdHigh    = 2000
	lengthThresholdWarning = 1000
	zScoreThreshold        = 2.5
	zScoreMinTools         = 5
)

// scanLength implements the excessive_length category. It is a batch
// operation: absolute thresholds apply per tool, but the z-score anomaly
// check needs the full distribution of description lengths across the
// scanned server. The return slice is parallel to tools.
func scanLength(tools []ToolDefinition) [][]DetectionResult {
	out := make([][]DetectionResult, len(tools))

	lengths := make([]int, len(tools))
	absoluteFired := make([]bool, len(tools))

	for i, tool := range tools {
		n := len(tool.Description)
		lengths[i] = n

		switch {
		case n == 0:
			out[i] = append(out[i], DetectionResult{
				PatternID:   "TP_LENGTH_002",
				Category:    "excessive_length",
				Severity:    "info",
				Field:       "description",
				Title:       "Tool has no description",
				Description: "An undocumented tool gives reviewers and agents nothing to evaluate its behaviour against.",
				Evidence:    "description_length=0",
			})
			absoluteFired[i] = true
		case n > lengthThresholdHigh:
			out[i] = append(out[i], DetectionResult{
				PatternID:   "TP_LENGTH_001",
				Category:    "excessive_length",
				Severity:    "high",
				Field:       "description",
				Title:       "Excessively long tool description",
				Description: "A description this long can smuggle hidden instructions past a casual review.",
				Evidence:    fmt.Sprintf("description_length=%d threshold=%d", n, lengthThresholdHigh),
			})
			absoluteFired[i] = true
		case n > lengthThresholdWarning:
			out[i] = append(out[i], DetectionResult{
				PatternID:   "TP_LENGTH_003",
				Category:    "excessive_length",
				Severity:    "warning",
				Field:       "description",
				Title:       "Unusually long tool description",
				Description: "The description is long enough to warrant a closer read.",
				Evidence:    fmt.Sprintf("description_length=%d threshold=%d", n, lengthThresholdWarning),
			})
			absoluteFired[i] = true
		}
	}

	if len(tools) >= zScoreMinTools {
		mean, stddev := meanStddev(lengths)
		if stddev > 0 {
			for i, n := range lengths {
				if absoluteFired[i] {
					continue
				}
				z := (float64(n) - mean) / stddev
				if z > zScoreThreshold {
					out[i] = append(out[i], DetectionResult{
						PatternID:   "TP_LENGTH_004",
						Category:    "excessive_length",
						Severity:    "warning",
						Field:       "description",
						Title:       "Description length anomalous relative to sibling tools",
						Description: "This tool's description is a statistical outlier among the server's other tool descriptions.",
						Evidence:    fmt.Sprintf("description_length=%d mean=%.1f z_score=%.2f", n, mean, z),
					})
				}
			}
		}
	}

	return out
}

func meanStddev(values []int) (mean, stddev float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += float64(v)
	}
	mean = sum / n

	variance := 0.0
	for _, v := range values {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= n
	stddev = math.Sqrt(variance)
	return mean, stddev
}
