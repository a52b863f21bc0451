package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/c360studio/groupsheets/processor"
)

// StageTotals aggregates the results of one stage.
type StageTotals struct {
	Stage    string `json:"stage"`
	Files    int    `json:"files"`
	Written  int    `json:"written"`
	Skipped  int    `json:"skipped"`
	Matched  int    `json:"matched"`
	Resolved int    `json:"resolved"`
	Added    int    `json:"added"`
}

// Summary reports what a run did.
type Summary struct {
	RunID    string         `json:"run_id"`
	Stages   []*StageTotals `json:"stages"`
	Duration time.Duration  `json:"duration_ns"`
}

func newSummary(runID string, stages []string) *Summary {
	s := &Summary{RunID: runID, Stages: make([]*StageTotals, len(stages))}
	for i, name := range stages {
		s.Stages[i] = &StageTotals{Stage: name}
	}
	return s
}

// Stage returns the totals of the named stage, or nil.
func (s *Summary) Stage(name string) *StageTotals {
	for _, st := range s.Stages {
		if st.Stage == name {
			return st
		}
	}
	return nil
}

func (s *Summary) add(res processor.Result) {
	st := s.Stage(res.Stage)
	if st == nil {
		st = &StageTotals{Stage: res.Stage}
		s.Stages = append(s.Stages, st)
	}
	st.Files++
	if res.Written {
		st.Written++
	}
	if res.Skipped {
		st.Skipped++
	}
	st.Matched += res.Matched
	st.Resolved += res.Resolved
	st.Added += res.Added
}

// WriteText writes the summary as an aligned table.
func (s *Summary) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Run %s (%s)\n", s.RunID, s.Duration.Round(time.Millisecond))
	fmt.Fprintln(tw, "STAGE\tFILES\tWRITTEN\tSKIPPED\tMATCHED\tRESOLVED\tADDED")
	for _, st := range s.Stages {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			st.Stage, st.Files, st.Written, st.Skipped, st.Matched, st.Resolved, st.Added)
	}
	return tw.Flush()
}

// WriteJSON writes the summary as indented JSON.
func (s *Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
