package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/colina/internal/tabulation"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Tabulations declares the named inputs available to steps.
	Tabulations map[string]TabulationDef `yaml:"tabulations"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// RunID is an optional fixed run identifier for deterministic output.
	// If empty, a UUIDv7 is generated per run.
	RunID string `yaml:"run_id,omitempty"`
}

// TabulationDef declares one named input.
type TabulationDef struct {
	// Source selects a built-in table ("colina"). Mutually exclusive with X/Y.
	Source string `yaml:"source,omitempty"`

	X []float64 `yaml:"x,omitempty"`
	Y []float64 `yaml:"y,omitempty"`

	// Extrapolation is "flat" (default), "linear", or "strict".
	Extrapolation tabulation.Extrapolation `yaml:"extrapolation,omitempty"`
}

// Step applies one operation.
type Step struct {
	// Op is the operation name (see the Op constants).
	Op string `yaml:"op"`

	// Target names the tabulation the operation applies to.
	// For construct it names where the new tabulation is stored.
	Target string `yaml:"target"`

	// Other names the right-hand operand of binary operations.
	Other string `yaml:"other,omitempty"`

	// At is the query point for evaluate.
	At *float64 `yaml:"at,omitempty"`

	// Points is the query grid for evaluate_all and resample.
	Points []float64 `yaml:"points,omitempty"`

	// Lo and Hi bound integrate, mean, and clip.
	Lo *float64 `yaml:"lo,omitempty"`
	Hi *float64 `yaml:"hi,omitempty"`

	// K is the factor for scale, the addend for offset, the fraction for
	// quantile, and the level for crossings.
	K *float64 `yaml:"k,omitempty"`

	// X and Y are the samples for construct.
	X []float64 `yaml:"x,omitempty"`
	Y []float64 `yaml:"y,omitempty"`

	// Extrapolation is the mode of a constructed tabulation; flat if unset.
	Extrapolation tabulation.Extrapolation `yaml:"extrapolation,omitempty"`

	// Store saves a tabulation-valued result under this name.
	Store string `yaml:"store,omitempty"`

	// Expect checks the outcome. If nil, the step only has to succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Value is the expected scalar result.
	Value *float64 `yaml:"value,omitempty"`

	// Values is the expected array result.
	Values []float64 `yaml:"values,omitempty"`

	// X and Y are the expected samples of a tabulation result.
	X []float64 `yaml:"x,omitempty"`
	Y []float64 `yaml:"y,omitempty"`

	// Error is the expected tabulation error code (e.g. "NON_MONOTONIC").
	Error string `yaml:"error,omitempty"`

	// Tolerance is the allowed absolute difference. Zero means exact.
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// Operation names.
const (
	OpConstruct   = "construct"
	OpEvaluate    = "evaluate"
	OpEvaluateAll = "evaluate_all"
	OpIntegrate   = "integrate"
	OpMean        = "mean"
	OpResample    = "resample"
	OpClip        = "clip"
	OpAdd         = "add"
	OpSubtract    = "subtract"
	OpMultiply    = "multiply"
	OpDivide      = "divide"
	OpScale       = "scale"
	OpOffset      = "offset"
	OpXMean       = "xmean"
	OpFWHM        = "fwhm"
	OpQuantile    = "quantile"
	OpCrossings   = "crossings"
)

// SourceColina selects the built-in solar flux table.
const SourceColina = "colina"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	names := make([]string, 0, len(s.Tabulations))
	for name := range s.Tabulations {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		def := s.Tabulations[name]
		switch {
		case def.Source != "" && (def.X != nil || def.Y != nil):
			return fmt.Errorf("tabulations.%s: source and x/y are mutually exclusive", name)
		case def.Source != "" && def.Source != SourceColina:
			return fmt.Errorf("tabulations.%s: unknown source %q", name, def.Source)
		case def.Source == "" && (def.X == nil || def.Y == nil):
			return fmt.Errorf("tabulations.%s: x and y are required", name)
		}
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateStep validates a single step based on its op.
func validateStep(index int, st *Step) error {
	if st.Op == "" {
		return fmt.Errorf("steps[%d]: op is required", index)
	}
	if st.Target == "" {
		return fmt.Errorf("steps[%d]: target is required", index)
	}
	if st.Extrapolation != tabulation.ExtrapolateFlat && st.Op != OpConstruct {
		return fmt.Errorf("steps[%d]: extrapolation applies only to construct", index)
	}

	switch st.Op {
	case OpConstruct:
		// Shape problems are what construct steps exist to exercise.
	case OpEvaluate:
		if st.At == nil {
			return fmt.Errorf("steps[%d]: at is required for evaluate", index)
		}
	case OpEvaluateAll, OpResample:
		if st.Points == nil {
			return fmt.Errorf("steps[%d]: points is required for %s", index, st.Op)
		}
	case OpIntegrate, OpMean, OpClip:
		if st.Lo == nil || st.Hi == nil {
			return fmt.Errorf("steps[%d]: lo and hi are required for %s", index, st.Op)
		}
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		if st.Other == "" {
			return fmt.Errorf("steps[%d]: other is required for %s", index, st.Op)
		}
	case OpScale, OpOffset, OpQuantile, OpCrossings:
		if st.K == nil {
			return fmt.Errorf("steps[%d]: k is required for %s", index, st.Op)
		}
	case OpXMean, OpFWHM:
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}
	return nil
}
