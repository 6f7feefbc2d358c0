// Package metrics records the statistics of one generation run in a private
// Prometheus registry, optionally exported as a node-exporter textfile.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/afero"

	"github.com/llm-d/pll-table-generator/internal/utils/atomicfile"
)

const namespace = "pllgen"

// Recorder holds the metrics of a single run.
type Recorder struct {
	registry *prometheus.Registry

	FractionsEnumerated  prometheus.Counter
	CandidateFrequencies prometheus.Gauge
	Evictions            prometheus.Counter
	Unreachable          prometheus.Counter
	TableEntries         prometheus.Gauge
	TableSizeBytes       prometheus.Gauge
}

// NewRecorder registers the run metrics, labelled with the hardware profile.
func NewRecorder(profile string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := prometheus.Labels{"profile": profile}

	return &Recorder{
		registry: reg,
		FractionsEnumerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "fractions_enumerated_total",
			Help:        "Divider combinations enumerated, including duplicates.",
			ConstLabels: labels,
		}),
		CandidateFrequencies: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "candidate_frequencies",
			Help:        "Distinct output frequencies after deduplication.",
			ConstLabels: labels,
		}),
		Evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "evictions_total",
			Help:        "Selected divider sets replaced by a preferred one.",
			ConstLabels: labels,
		}),
		Unreachable: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "unreachable_frequencies_total",
			Help:        "Candidate frequencies without an admissible divider set.",
			ConstLabels: labels,
		}),
		TableEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "table_entries",
			Help:        "Records in the emitted table.",
			ConstLabels: labels,
		}),
		TableSizeBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "table_size_bytes",
			Help:        "Firmware memory occupied by the emitted table.",
			ConstLabels: labels,
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Write encodes every registered metric in the Prometheus text format.
func (r *Recorder) Write(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	if closer, ok := enc.(expfmt.Closer); ok {
		return closer.Close()
	}
	return nil
}

// WriteTextfile atomically replaces path with the current metric values.
func (r *Recorder) WriteTextfile(fs afero.Fs, path string) error {
	return atomicfile.WriteFile(fs, path, 0o644, r.Write)
}
