package transpiler

import "fmt"

// Stage names the part of the per-line program that failed.
type Stage string

const (
	StageHeader     Stage = "header"
	StagePreFilter  Stage = "filter"
	StageStatement  Stage = "statement"
	StagePostFilter Stage = "after-filter"
	StageSelect     Stage = "select"
)

// LineError is a failure while processing one input line.
type LineError struct {
	Line  int
	Stage Stage
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Stage, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// stageError wraps a compile failure with the stage it came from.
func stageError(stage Stage, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}
