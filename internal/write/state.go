package write

import "promopilot.app/writer/internal/model"

// state is the pipeline position of a running write job. Both execution
// drivers advance a job through these states with the same transition
// function.
type state int

const (
	statePreparingTerm state = iota
	stateSearching
	stateEvaluating
	stateGenerating
	statePublishing
	stateReporting
	stateDone
	stateAbandoned
)

func (s state) String() string {
	switch s {
	case statePreparingTerm:
		return "preparing_term"
	case stateSearching:
		return "searching"
	case stateEvaluating:
		return "evaluating"
	case stateGenerating:
		return "generating"
	case statePublishing:
		return "publishing"
	case stateReporting:
		return "reporting"
	case stateDone:
		return "done"
	case stateAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

func (s state) terminal() bool {
	return s == stateDone || s == stateAbandoned
}

// run is the mutable progress of one job, shared by the drivers.
type run struct {
	job model.WriteJob

	keyword  string
	attempts int
	product  model.Product
	score    float64

	title    string
	body     string
	category string

	mode model.GenerationType
	link string

	// err is the terminal failure when the run ends abandoned.
	err error
}
