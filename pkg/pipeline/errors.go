package pipeline

import "fmt"

// ResearchFailedError wraps any failure of the research stage: transport
// errors, empty responses, and parser or schema failures. It is the only
// error that aborts a pipeline run.
type ResearchFailedError struct {
	Err error
}

func (e *ResearchFailedError) Error() string {
	return fmt.Sprintf("research failed: %v", e.Err)
}

func (e *ResearchFailedError) Unwrap() error { return e.Err }

// SynthesisFailedError wraps a speech synthesis failure. The scenario stays
// visible without playable audio.
type SynthesisFailedError struct {
	Err error
}

func (e *SynthesisFailedError) Error() string {
	return fmt.Sprintf("speech synthesis failed: %v", e.Err)
}

func (e *SynthesisFailedError) Unwrap() error { return e.Err }
