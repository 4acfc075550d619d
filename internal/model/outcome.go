package model

// OutcomeState is the terminal state of one download invocation
type OutcomeState string

const (
	OutcomeDone      OutcomeState = "done"
	OutcomeCancelled OutcomeState = "cancelled"
	OutcomeFailed    OutcomeState = "failed"
)

// Outcome is reported exactly once per download invocation.
type Outcome struct {
	State      OutcomeState
	OutputPath string
	Err        error
}

// Done builds a successful outcome
func Done(outputPath string) Outcome {
	return Outcome{State: OutcomeDone, OutputPath: outputPath}
}

// Cancelled builds a user-cancelled outcome
func Cancelled() Outcome {
	return Outcome{State: OutcomeCancelled, Err: ErrCancelled}
}

// Failed builds a failed outcome
func Failed(err error) Outcome {
	return Outcome{State: OutcomeFailed, Err: err}
}

// Message returns a user-facing summary of the outcome
func (o Outcome) Message() string {
	switch o.State {
	case OutcomeDone:
		if o.OutputPath != "" {
			return "Download finished: " + o.OutputPath
		}
		return "Download finished"
	case OutcomeCancelled:
		return "Download cancelled"
	default:
		if o.Err != nil {
			return "Download failed: " + o.Err.Error()
		}
		return "Download failed"
	}
}
