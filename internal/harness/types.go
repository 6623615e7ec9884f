package harness

import (
	"encoding/json"
	"math"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq    int64    `json:"seq"`
	Op     string   `json:"op"`
	Target string   `json:"target"`
	Other  string   `json:"other,omitempty"`
	Value  *Number  `json:"value,omitempty"`
	Values []Number `json:"values,omitempty"`
	X      []Number `json:"x,omitempty"`
	Y      []Number `json:"y,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Number is a traced float64. NaN and infinities, which JSON numbers cannot
// hold, are written as the strings "NaN", "+Inf", and "-Inf".
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

func numbers(vs []float64) []Number {
	if vs == nil {
		return nil
	}
	out := make([]Number, len(vs))
	for i, v := range vs {
		out[i] = Number(v)
	}
	return out
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expectation matched.
	Pass bool `json:"pass"`

	// RunID correlates this execution in logs and CLI output.
	RunID string `json:"run_id"`

	// Trace contains one event per executed step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(runID string) *Result {
	return &Result{
		Pass:   true,
		RunID:  runID,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
