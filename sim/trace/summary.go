package trace

// TraceSummary aggregates statistics from a SessionTrace.
type TraceSummary struct {
	SessionID      string
	TotalCommands  int
	SucceededCount int
	FailedCount    int
	PerLabel       map[string]int // menu label → times executed
	Failures       map[string]int // error text → occurrences
}

// Summarize computes aggregate statistics from a SessionTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SessionTrace) *TraceSummary {
	summary := &TraceSummary{
		PerLabel: make(map[string]int),
		Failures: make(map[string]int),
	}
	if st == nil {
		return summary
	}
	summary.SessionID = st.SessionID
	summary.TotalCommands = len(st.Commands)
	for _, c := range st.Commands {
		summary.PerLabel[c.Label]++
		if c.OK {
			summary.SucceededCount++
		} else {
			summary.FailedCount++
			summary.Failures[c.Outcome]++
		}
	}
	return summary
}
