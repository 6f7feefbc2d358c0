package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/llm-d/pll-table-generator/internal/candidates"
	"github.com/llm-d/pll-table-generator/internal/emitter"
	"github.com/llm-d/pll-table-generator/internal/logging"
	"github.com/llm-d/pll-table-generator/internal/metrics"
	"github.com/llm-d/pll-table-generator/pkg/core"
	"github.com/llm-d/pll-table-generator/pkg/solver"
)

// Result summarizes a completed run.
type Result struct {
	// Fractions is the number of enumerated divider combinations.
	Fractions int
	// Candidates is the number of distinct output frequencies.
	Candidates int
	// Entries is the number of emitted records.
	Entries     int
	Unreachable []core.CandidateFrequency
	Evictions   int
	Table       core.Table
}

// Generator produces the frequency table for a fixed set of params.
type Generator struct {
	params   core.Params
	emitter  *emitter.Emitter
	recorder *metrics.Recorder
}

// New creates a Generator. A nil recorder disables metrics.
func New(params core.Params, e *emitter.Emitter, recorder *metrics.Recorder) (*Generator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if e == nil {
		return nil, errors.New("emitter is required")
	}
	return &Generator{params: params, emitter: e, recorder: recorder}, nil
}

// Run executes the pipeline and writes the artifact. The logger is taken from ctx.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	logger := logging.FromContext(ctx).WithName("generator")
	debug := logger.V(logging.DEBUG)

	fractions, err := candidates.Enumerate(g.params)
	if err != nil {
		return nil, fmt.Errorf("enumerating divider space: %w", err)
	}
	fractionCount := len(fractions)
	debug.Info("Enumerated divider combinations", "count", fractionCount)

	targets, err := candidates.Deduplicate(fractions, g.params.RefClock)
	if err != nil {
		return nil, fmt.Errorf("deduplicating frequencies: %w", err)
	}
	logger.Info(fmt.Sprintf("Found %d unique frequencies", len(targets)))

	s, err := solver.NewSolver(g.params, solver.WithEvictionObserver(
		func(target core.CandidateFrequency, evicted, replacement core.VCOEvaluation) {
			debug.Info(fmt.Sprintf("Evicting entry %.6f MHz: %s, vcoFreq=%.6f MHz",
				target.Freq, evicted.Dividers, evicted.VCOFreq),
				"replacement", replacement.Dividers.String(),
				"replacementVCOFreq", replacement.VCOFreq)
		}))
	if err != nil {
		return nil, err
	}
	solution := s.SolveAll(targets)
	for _, c := range solution.Unreachable {
		debug.Info("No admissible divider set, frequency omitted", "freq", c.Freq, "fraction", c.Fraction.String())
	}

	if trace := logger.V(logging.TRACE); trace.Enabled() {
		for _, e := range solution.Table {
			trace.Info("Selected dividers", "freq", e.Freq, "dividers", e.Dividers.String(), "vcoFreq", e.VCOFreq)
		}
	}

	if err := solution.Table.Validate(g.params); err != nil {
		return nil, fmt.Errorf("verifying table: %w", err)
	}
	if err := g.emitter.Emit(solution.Table); err != nil {
		return nil, fmt.Errorf("emitting table: %w", err)
	}

	size := solution.Table.SizeBytes()
	logger.Info(fmt.Sprintf("Generated %s with %d entries (%.2f KB)",
		g.emitter.Path(), len(solution.Table), float64(size)/1024))

	if g.recorder != nil {
		g.recorder.FractionsEnumerated.Add(float64(fractionCount))
		g.recorder.CandidateFrequencies.Set(float64(len(targets)))
		g.recorder.Evictions.Add(float64(solution.Evictions))
		g.recorder.Unreachable.Add(float64(len(solution.Unreachable)))
		g.recorder.TableEntries.Set(float64(len(solution.Table)))
		g.recorder.TableSizeBytes.Set(float64(size))
	}

	return &Result{
		Fractions:   fractionCount,
		Candidates:  len(targets),
		Entries:     len(solution.Table),
		Unreachable: solution.Unreachable,
		Evictions:   solution.Evictions,
		Table:       solution.Table,
	}, nil
}
