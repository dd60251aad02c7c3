package reportio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
)

func TestMarshalJSONRoundTrips(t *testing.T) {
	r := model.NewReport("demo-skill", "https://example.com/demo", "deadbeef")
	r.Findings = []model.Finding{{Severity: model.SeverityHigh, PatternID: "CMD_INJECT", Title: "shell injection"}}
	r.Finalize()

	out, err := MarshalJSON(r)
	require.NoError(t, err)

	var decoded model.Report
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, r.RiskScore, decoded.RiskScore)
	assert.Equal(t, r.Result, decoded.Result)
	assert.Equal(t, 1, decoded.FindingsCount)
}
