package harness

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"

	"github.com/roach88/colina/internal/colina"
	"github.com/roach88/colina/internal/tabulation"
)

// Harness executes the steps of one scenario.
//
// A Harness is single-use and not safe for concurrent use; Run creates a
// fresh one per scenario.
type Harness struct {
	tabs   map[string]*tabulation.Tabulation
	seq    int64
	logger *slog.Logger
}

// RunOption configures Run.
type RunOption func(*runConfig)

type runConfig struct {
	ids    RunIDGenerator
	logger *slog.Logger
}

// WithRunIDGenerator overrides how the run id is produced.
func WithRunIDGenerator(g RunIDGenerator) RunOption {
	return func(c *runConfig) {
		c.ids = g
	}
}

// WithLogger sets the logger used for step diagnostics.
// By default logs are discarded.
func WithLogger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = l
	}
}

// outcome is the product of one step.
type outcome struct {
	value  *float64
	values []float64
	tab    *tabulation.Tabulation
	err    error
}

// Run executes a scenario and returns the result.
//
// Engine errors raised by steps are part of the outcome and are matched
// against expect.error. Run itself fails only when the scenario cannot be
// executed: an input tabulation is invalid or a step names an unknown
// tabulation.
func Run(scenario *Scenario, opts ...RunOption) (*Result, error) {
	cfg := runConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if scenario.RunID != "" {
		cfg.ids = NewFixedRunIDGenerator(scenario.RunID)
	} else {
		cfg.ids = UUIDv7Generator{}
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Harness{
		tabs:   make(map[string]*tabulation.Tabulation, len(scenario.Tabulations)),
		logger: cfg.logger,
	}
	if err := h.loadTabulations(scenario.Tabulations); err != nil {
		return nil, err
	}

	result := NewResult(cfg.ids.Generate())
	h.logger.Debug("scenario starting", "name", scenario.Name, "run_id", result.RunID)

	for i := range scenario.Steps {
		if err := h.executeStep(i, &scenario.Steps[i], result); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	h.logger.Debug("scenario finished", "name", scenario.Name, "pass", result.Pass, "errors", len(result.Errors))
	return result, nil
}

// loadTabulations builds the declared inputs in name order.
func (h *Harness) loadTabulations(defs map[string]TabulationDef) error {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		def := defs[name]
		mode := tabulation.WithExtrapolation(def.Extrapolation)

		if def.Source == SourceColina {
			spectrum, err := colina.Load(mode)
			if err != nil {
				return fmt.Errorf("tabulations.%s: %w", name, err)
			}
			h.tabs[name] = spectrum.Flux
			continue
		}

		tab, err := tabulation.New(def.X, def.Y, mode)
		if err != nil {
			return fmt.Errorf("tabulations.%s: %w", name, err)
		}
		h.tabs[name] = tab
	}
	return nil
}

// lookup returns a named tabulation.
func (h *Harness) lookup(name string) (*tabulation.Tabulation, error) {
	tab, ok := h.tabs[name]
	if !ok {
		return nil, fmt.Errorf("unknown tabulation %q", name)
	}
	return tab, nil
}

// executeStep runs one step, records it in the trace, and checks it.
func (h *Harness) executeStep(index int, st *Step, result *Result) error {
	out, err := h.apply(st)
	if err != nil {
		return err
	}

	h.seq++
	event := TraceEvent{
		Seq:    h.seq,
		Op:     st.Op,
		Target: st.Target,
		Other:  st.Other,
		Values: numbers(out.values),
	}
	if out.value != nil {
		v := Number(*out.value)
		event.Value = &v
	}
	if out.tab != nil {
		event.X = numbers(out.tab.X())
		event.Y = numbers(out.tab.Y())
	}
	if out.err != nil {
		event.Error = string(tabulation.CodeOf(out.err))
	}
	result.Trace = append(result.Trace, event)

	h.logger.Debug("step executed", "seq", h.seq, "op", st.Op, "target", st.Target, "error", event.Error)

	for _, msg := range checkExpect(st.Expect, out) {
		result.AddError(fmt.Sprintf("steps[%d] %s %s: %s", index, st.Op, st.Target, msg))
	}

	if out.err == nil && out.tab != nil {
		switch {
		case st.Op == OpConstruct:
			h.tabs[st.Target] = out.tab
		case st.Store != "":
			h.tabs[st.Store] = out.tab
		}
	}
	return nil
}

// apply dispatches a step to the engine.
func (h *Harness) apply(st *Step) (outcome, error) {
	if st.Op == OpConstruct {
		tab, err := tabulation.New(st.X, st.Y, tabulation.WithExtrapolation(st.Extrapolation))
		return outcome{tab: tab, err: err}, nil
	}

	target, err := h.lookup(st.Target)
	if err != nil {
		return outcome{}, err
	}

	switch st.Op {
	case OpEvaluate:
		return scalar(target.Evaluate(*st.At)), nil
	case OpEvaluateAll:
		v, err := target.EvaluateAll(st.Points)
		return outcome{values: v, err: err}, nil
	case OpIntegrate:
		return scalar(target.Integrate(*st.Lo, *st.Hi)), nil
	case OpMean:
		return scalar(target.Mean(*st.Lo, *st.Hi)), nil
	case OpResample:
		return derived(target.Resample(st.Points)), nil
	case OpClip:
		return derived(target.Clip(*st.Lo, *st.Hi)), nil
	case OpScale:
		return outcome{tab: target.Scale(*st.K)}, nil
	case OpOffset:
		return outcome{tab: target.Offset(*st.K)}, nil
	case OpXMean:
		return scalar(target.XMean()), nil
	case OpFWHM:
		return scalar(target.FWHM()), nil
	case OpQuantile:
		return scalar(target.Quantile(*st.K)), nil
	case OpCrossings:
		return outcome{values: target.Crossings(*st.K)}, nil
	}

	other, err := h.lookup(st.Other)
	if err != nil {
		return outcome{}, err
	}
	switch st.Op {
	case OpAdd:
		return derived(tabulation.Add(target, other)), nil
	case OpSubtract:
		return derived(tabulation.Subtract(target, other)), nil
	case OpMultiply:
		return derived(tabulation.Multiply(target, other)), nil
	case OpDivide:
		return derived(tabulation.Divide(target, other)), nil
	}
	return outcome{}, fmt.Errorf("unknown op %q", st.Op)
}

func scalar(v float64, err error) outcome {
	if err != nil {
		return outcome{err: err}
	}
	return outcome{value: &v}
}

func derived(tab *tabulation.Tabulation, err error) outcome {
	return outcome{tab: tab, err: err}
}

// checkExpect compares an outcome with its expectation and returns one
// message per mismatch.
func checkExpect(exp *Expect, out outcome) []string {
	if exp == nil {
		if out.err != nil {
			return []string{fmt.Sprintf("unexpected error: %v", out.err)}
		}
		return nil
	}

	if exp.Error != "" {
		if out.err == nil {
			return []string{fmt.Sprintf("expected error %s, got success", exp.Error)}
		}
		if code := string(tabulation.CodeOf(out.err)); code != exp.Error {
			return []string{fmt.Sprintf("expected error %s, got %v", exp.Error, out.err)}
		}
		return nil
	}
	if out.err != nil {
		return []string{fmt.Sprintf("unexpected error: %v", out.err)}
	}

	var msgs []string
	if exp.Value != nil {
		switch {
		case out.value == nil:
			msgs = append(msgs, "expected a scalar result")
		case !within(*out.value, *exp.Value, exp.Tolerance):
			msgs = append(msgs, fmt.Sprintf("value = %v, expected %v", *out.value, *exp.Value))
		}
	}
	if exp.Values != nil {
		msgs = append(msgs, compareSlice("values", out.values, exp.Values, exp.Tolerance)...)
	}
	if exp.X != nil || exp.Y != nil {
		if out.tab == nil {
			return append(msgs, "expected a tabulation result")
		}
		if exp.X != nil {
			msgs = append(msgs, compareSlice("x", out.tab.X(), exp.X, exp.Tolerance)...)
		}
		if exp.Y != nil {
			msgs = append(msgs, compareSlice("y", out.tab.Y(), exp.Y, exp.Tolerance)...)
		}
	}
	return msgs
}

func compareSlice(field string, got, want []float64, tol float64) []string {
	if len(got) != len(want) {
		return []string{fmt.Sprintf("%s has %d elements, expected %d", field, len(got), len(want))}
	}
	var msgs []string
	for i := range want {
		if !within(got[i], want[i], tol) {
			msgs = append(msgs, fmt.Sprintf("%s[%d] = %v, expected %v", field, i, got[i], want[i]))
		}
	}
	return msgs
}

func within(got, want, tol float64) bool {
	return got == want || math.Abs(got-want) <= tol
}
