// Package reportio implements the two external report formats from
// spec.md section 6: canonical JSON and SARIF 2.1.0. Both are pure
// functions of a finalised model.Report; neither mutates the report or
// performs I/O itself (callers decide whether to write to a file, stdout,
// or an upload body).
package reportio

import (
	"encoding/json"

	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
)

// MarshalJSON renders r as the canonical report JSON (spec.md section 6),
// which is simply r's own json tags — Report is already shaped as the
// wire contract, so this exists to give JSON emission the same one-line
// call-site symmetry as MarshalSARIF rather than to transform anything.
func MarshalJSON(r *model.Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
