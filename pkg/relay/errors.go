package relay

import "fmt"

// Stages reported by StageError.
const (
	StageReadWatermark  = "read watermark"
	StageFetchListing   = "fetch listing"
	StageParseListing   = "parse listing"
	StageFetchArticle   = "fetch article"
	StageParseArticle   = "parse article"
	StageNormalize      = "normalize"
	StageSend           = "send"
	StageWriteWatermark = "write watermark"
)

// StageError records which step of a run failed. Entry is the title of the
// news item being processed, empty for run-wide stages.
type StageError struct {
	Stage string
	Entry string
	Err   error
}

func (e *StageError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("%s %q: %v", e.Stage, e.Entry, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage, entry string, err error) error {
	return &StageError{Stage: stage, Entry: entry, Err: err}
}
