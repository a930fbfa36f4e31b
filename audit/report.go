package audit

import (
	"encoding/json"
	"fmt"
	"io"
)

// Summary counts the run's outcomes.
type Summary struct {
	Checked    int `json:"checked"`
	Mismatched int `json:"mismatched"`
}

// Report is the structured output of one audit run.
type Report struct {
	Results []Result
	Summary Summary
}

// NewReport summarizes reconciliation results.
func NewReport(results []Result) *Report {
	r := &Report{Results: results}
	r.Summary.Checked = len(results)
	for _, res := range results {
		if !res.OK() {
			r.Summary.Mismatched++
		}
	}
	return r
}

// Clean reports whether no target produced findings. Callers scripting
// against the tool key their exit status off this.
func (r *Report) Clean() bool {
	return r.Summary.Mismatched == 0
}

// resultView flattens a Result for output. Ledger-derived numbers are
// omitted when the target's fetch failed.
type resultView struct {
	Address            string    `json:"address"`
	OK                 bool      `json:"ok"`
	RecordedBalance    *uint64   `json:"recorded_balance,omitempty"`
	ReservedAmount     *uint64   `json:"reserved_amount,omitempty"`
	LedgerBalance      *uint64   `json:"ledger_balance,omitempty"`
	Diff               string    `json:"diff,omitempty"`
	UnreservedRecorded string    `json:"unreserved_recorded,omitempty"`
	UnreservedLedger   string    `json:"unreserved_ledger,omitempty"`
	Findings           []Finding `json:"findings,omitempty"`
}

type reportView struct {
	Results []resultView `json:"results"`
	Summary Summary      `json:"summary"`
}

func (r *Report) view() reportView {
	out := reportView{Results: make([]resultView, 0, len(r.Results)), Summary: r.Summary}
	for _, res := range r.Results {
		rv := resultView{
			Address:  res.Target.Address.String(),
			OK:       res.OK(),
			Findings: res.Findings,
		}
		if rec := res.Target.Record; rec != nil {
			rv.RecordedBalance = &rec.BalanceForca
			rv.ReservedAmount = &rec.RpReserved
			rv.UnreservedRecorded = res.Target.UnreservedRecorded().String()
		}
		if res.Target.Record != nil && res.Target.Ledger != nil {
			rv.LedgerBalance = &res.Target.Ledger.Amount
			rv.Diff = res.Target.Diff().String()
			rv.UnreservedLedger = res.Target.UnreservedLedger().String()
		}
		out.Results = append(out.Results, rv)
	}
	return out
}

// WriteJSON writes the machine-consumable report.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.view()); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteText writes the human-readable report.
func (r *Report) WriteText(w io.Writer) error {
	for _, rv := range r.view().Results {
		status := "OK"
		if !rv.OK {
			status = "MISMATCH"
		}
		if _, err := fmt.Fprintf(w, "%-8s %s\n", status, rv.Address); err != nil {
			return err
		}
		if rv.RecordedBalance != nil {
			fmt.Fprintf(w, "         recorded=%d reserved=%d unreserved_recorded=%s\n",
				*rv.RecordedBalance, *rv.ReservedAmount, rv.UnreservedRecorded)
		}
		if rv.LedgerBalance != nil {
			fmt.Fprintf(w, "         ledger=%d diff=%s unreserved_ledger=%s\n",
				*rv.LedgerBalance, rv.Diff, rv.UnreservedLedger)
		}
		for _, f := range rv.Findings {
			fmt.Fprintf(w, "         finding: %s\n", f)
		}
	}
	_, err := fmt.Fprintf(w, "checked=%d mismatched=%d\n", r.Summary.Checked, r.Summary.Mismatched)
	return err
}
