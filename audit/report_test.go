package audit_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashorca/vault-audit/audit"
)

func TestReport_Summary(t *testing.T) {
	t.Parallel()
	targets := []audit.Target{
		target(1000, 200, 1000),
		target(1000, 0, 900),
		{Address: pk(3), FetchErr: errors.New("boom")},
	}
	report := audit.NewReport(audit.Reconcile(targets, expectedMint, expectedOwner))
	require.Equal(t, 3, report.Summary.Checked)
	require.Equal(t, 2, report.Summary.Mismatched)
	require.False(t, report.Clean())

	clean := audit.NewReport(audit.Reconcile(targets[:1], expectedMint, expectedOwner))
	require.True(t, clean.Clean())
}

func TestReport_WriteJSON(t *testing.T) {
	t.Parallel()
	targets := []audit.Target{
		target(1000, 300, 900),
		{Address: pk(9), FetchErr: errors.New("rpc unreachable")},
	}
	report := audit.NewReport(audit.Reconcile(targets, expectedMint, expectedOwner))

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf))

	var decoded struct {
		Results []struct {
			Address            string          `json:"address"`
			OK                 bool            `json:"ok"`
			RecordedBalance    *uint64         `json:"recorded_balance"`
			ReservedAmount     *uint64         `json:"reserved_amount"`
			LedgerBalance      *uint64         `json:"ledger_balance"`
			Diff               string          `json:"diff"`
			UnreservedRecorded string          `json:"unreserved_recorded"`
			UnreservedLedger   string          `json:"unreserved_ledger"`
			Findings           []audit.Finding `json:"findings"`
		} `json:"results"`
		Summary audit.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Results, 2)

	first := decoded.Results[0]
	require.False(t, first.OK)
	require.Equal(t, uint64(1000), *first.RecordedBalance)
	require.Equal(t, uint64(300), *first.ReservedAmount)
	require.Equal(t, uint64(900), *first.LedgerBalance)
	require.Equal(t, "-100", first.Diff)
	require.Equal(t, "700", first.UnreservedRecorded)
	require.Equal(t, "600", first.UnreservedLedger)
	require.Equal(t, audit.FindingBalanceMismatch, first.Findings[0].Kind)

	second := decoded.Results[1]
	require.Nil(t, second.RecordedBalance)
	require.Nil(t, second.LedgerBalance)
	require.Equal(t, audit.FindingFetchFailure, second.Findings[0].Kind)

	require.Equal(t, 2, decoded.Summary.Checked)
	require.Equal(t, 2, decoded.Summary.Mismatched)
}

func TestReport_WriteText(t *testing.T) {
	t.Parallel()
	targets := []audit.Target{
		target(1000, 200, 1000),
		target(400, 500, 400),
	}
	report := audit.NewReport(audit.Reconcile(targets, expectedMint, expectedOwner))

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf))
	out := buf.String()

	require.Contains(t, out, "OK")
	require.Contains(t, out, "MISMATCH")
	require.Contains(t, out, "UNDER_RESERVED shortfall=100")
	require.True(t, strings.HasSuffix(strings.TrimSpace(out), "checked=2 mismatched=1"))
}
