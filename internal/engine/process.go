package engine

import "retrack/internal/rules"

// Status classifies the outcome of one engine invocation.
type Status int

const (
	// StatusChanged means the plan transforms the file and should be applied.
	StatusChanged Status = iota
	// StatusUnchanged means every track was a verbatim copy.
	StatusUnchanged
	// StatusNothingToDo means the source has no audio tracks to consider.
	StatusNothingToDo
	// StatusAlreadyProcessed means the source carries this rule set's
	// watermark from a prior run.
	StatusAlreadyProcessed
)

func (s Status) String() string {
	switch s {
	case StatusChanged:
		return "changed"
	case StatusUnchanged:
		return "unchanged"
	case StatusNothingToDo:
		return "nothing to do"
	case StatusAlreadyProcessed:
		return "already processed"
	default:
		return "unknown"
	}
}

// Result is the outcome of Process: a status and, when the status is
// StatusChanged, the plan to apply.
type Result struct {
	Status Status
	Plan   CommandPlan
}

// Process gates a synthesis run: sources without audio and sources that
// already carry this rule set's watermark yield benign no-op results, and
// everything else runs the planning pass. The rule set must already be
// validated; Process performs no I/O.
func Process(src Source, rs rules.RuleSet) (Result, error) {
	if len(src.Audio) == 0 {
		return Result{Status: StatusNothingToDo}, nil
	}
	done, err := AlreadyProcessed(src.Marker, rs)
	if err != nil {
		return Result{}, err
	}
	if done {
		return Result{Status: StatusAlreadyProcessed}, nil
	}
	plan := Synthesize(src, rs)
	if !plan.Changed {
		return Result{Status: StatusUnchanged, Plan: plan}, nil
	}
	mark, err := Watermark(rs)
	if err != nil {
		return Result{}, err
	}
	plan.Marker = mark
	return Result{Status: StatusChanged, Plan: plan}, nil
}
