// Package stats accumulates the counters and gauges spec.md §6's
// roundStatFile reports (rounds run, rollbacks, mutations tried,
// feasibility checks) and renders them to Prometheus text exposition
// format. Unlike a typical service's metrics, which register against
// the global default registry for a long-lived /metrics endpoint, the
// driver's statistics are scoped to one mutation run: each Stats owns a
// private prometheus.Registry so concurrent driver instances (or
// repeated test runs) never collide on global metric names.
package stats

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Stats is the per-run statistics accumulator.
type Stats struct {
	registry *prometheus.Registry

	roundsRun         prometheus.Counter
	mutationsTried    prometheus.Counter
	rollbacks         prometheus.Counter
	feasibilityChecks prometheus.Counter
	feasibilityHits   prometheus.Counter
	rollbackConfirms  prometheus.Counter
	lastRoundDuration prometheus.Gauge
}

// New builds a Stats with a fresh private registry.
func New() *Stats {
	s := &Stats{
		registry: prometheus.NewRegistry(),
		roundsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cfa_mutation_rounds_run_total",
			Help: "Total analysis rounds run, including the original.",
		}),
		mutationsTried: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cfa_mutation_mutations_tried_total",
			Help: "Total mutations proposed by the mutator.",
		}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cfa_mutation_rollbacks_total",
			Help: "Total mutations rolled back for losing the original symptom.",
		}),
		feasibilityChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cfa_mutation_feasibility_checks_total",
			Help: "Total feasibility rechecks invoked on a FALSE verdict.",
		}),
		feasibilityHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cfa_mutation_feasibility_feasible_total",
			Help: "Total feasibility rechecks that confirmed a feasible counterexample.",
		}),
		rollbackConfirms: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cfa_mutation_rollback_confirmations_total",
			Help: "Total periodic rollback-confirmation rounds run.",
		}),
		lastRoundDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cfa_mutation_last_round_duration_seconds",
			Help: "Wall time consumed by the most recently completed round.",
		}),
	}
	s.registry.MustRegister(
		s.roundsRun, s.mutationsTried, s.rollbacks,
		s.feasibilityChecks, s.feasibilityHits, s.rollbackConfirms,
		s.lastRoundDuration,
	)
	return s
}

// RoundCompleted records one analysis round's outcome.
func (s *Stats) RoundCompleted(durationSeconds float64) {
	s.roundsRun.Inc()
	s.lastRoundDuration.Set(durationSeconds)
}

// MutationTried records one mutation proposed by the mutator.
func (s *Stats) MutationTried() { s.mutationsTried.Inc() }

// Rollback records one rolled-back mutation.
func (s *Stats) Rollback() { s.rollbacks.Inc() }

// RollbackConfirmed records one periodic rollback-confirmation round.
func (s *Stats) RollbackConfirmed() { s.rollbackConfirms.Inc() }

// FeasibilityChecked records one feasibility recheck and whether it
// confirmed the counterexample.
func (s *Stats) FeasibilityChecked(feasible bool) {
	s.feasibilityChecks.Inc()
	if feasible {
		s.feasibilityHits.Inc()
	}
}

// WriteTo renders every registered metric family to Prometheus text
// exposition format, the format spec.md §6's roundStatFile is dumped in.
func (s *Stats) WriteTo(w io.Writer) error {
	families, err := s.registry.Gather()
	if err != nil {
		return fmt.Errorf("stats: gathering metric families: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("stats: encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
