package domain

// ReferenceImage is one inline reference attachment for a generation call.
type ReferenceImage struct {
	MIME string
	Data []byte
}

// GenerationRequest is the ephemeral payload for a single generation call:
// one prompt, the selector's reference files inline, and the target model.
// It exists only for the duration of one API call.
type GenerationRequest struct {
	Model      string
	Prompt     string
	References []ReferenceImage
}

// AngleState is the lifecycle state of one camera angle within a run.
type AngleState string

const (
	AnglePending   AngleState = "PENDING"
	AngleRequested AngleState = "REQUESTED"
	AngleSucceeded AngleState = "SUCCEEDED"
	AngleFailed    AngleState = "FAILED"
	AngleCancelled AngleState = "CANCELLED"
)

// Terminal reports whether the state is an end state.
func (s AngleState) Terminal() bool {
	switch s {
	case AngleSucceeded, AngleFailed, AngleCancelled:
		return true
	}
	return false
}

// GenerationResult is the per-angle outcome collected by the orchestrator.
type GenerationResult struct {
	Selector   Selector    `json:"selector"`
	AngleIndex int         `json:"angle_index"`
	Angle      CameraAngle `json:"angle"`
	State      AngleState  `json:"state"`
	OutputPath string      `json:"output_path,omitempty"`
	Reason     string      `json:"reason,omitempty"`
	Err        error       `json:"-"`
}

// RunReport summarizes one orchestrator run over a full job.
type RunReport struct {
	RunID     string             `json:"run_id"`
	OutputDir string             `json:"output_dir"`
	Model     string             `json:"model"`
	Results   []GenerationResult `json:"results"`
}

// Succeeded counts results in the SUCCEEDED state.
func (r *RunReport) Succeeded() int {
	return r.countState(AngleSucceeded)
}

// Failed counts results in the FAILED state.
func (r *RunReport) Failed() int {
	return r.countState(AngleFailed)
}

// Cancelled counts results in the CANCELLED state.
func (r *RunReport) Cancelled() int {
	return r.countState(AngleCancelled)
}

func (r *RunReport) countState(state AngleState) int {
	n := 0
	for _, res := range r.Results {
		if res.State == state {
			n++
		}
	}
	return n
}
