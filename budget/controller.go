package budget

import (
	"context"
	"fmt"
	"time"
)

// Controller derives per-round Limits from a configured hard cap and a
// soft cap that scales with the original run's consumption, and decides
// whether a prospective round would exceed any global ceiling.
//
// Construct with NewController; the zero value is not usable (HardCap
// would be zero, making every round instantly expire).
type Controller struct {
	globals         []*GlobalLimit
	originalMillis  *time.Duration
	hardCap         time.Duration
	softFactor      float64
	softCapBias     time.Duration
	feasibilitySpan time.Duration
}

// NewController builds a Controller from the cfaMutation.* tunables
// (spec.md §6): hardCap ("walltimeLimit.hardcap"), softFactor
// ("walltimeLimit.factor"), softCapBias ("walltimeLimit.add"), and
// feasibilitySpan ("timeLimit.cexCheck"). globals is the set of active
// global limit kinds this run tracks; their Current fields are mutated by
// the driver between rounds via RecordRoundConsumption.
func NewController(globals []*GlobalLimit, hardCap time.Duration, softFactor float64, softCapBias, feasibilitySpan time.Duration) *Controller {
	return &Controller{
		globals:         globals,
		hardCap:         hardCap,
		softFactor:      softFactor,
		softCapBias:     softCapBias,
		feasibilitySpan: feasibilitySpan,
	}
}

// RecordOriginal sets the original run's consumed wall time, exactly once.
func (c *Controller) RecordOriginal(consumed time.Duration) error {
	if c.originalMillis != nil {
		return ErrOriginalAlreadyRecorded
	}
	c.originalMillis = &consumed
	return nil
}

// HasOriginal reports whether RecordOriginal has been called.
func (c *Controller) HasOriginal() bool {
	return c.originalMillis != nil
}

// roundSpan is the span each derived round Limit gets: the hard cap if no
// original has been recorded yet, else min(hardCap, original*factor+bias).
func (c *Controller) roundSpan() time.Duration {
	if c.originalMillis == nil {
		return c.hardCap
	}
	soft := time.Duration(float64(*c.originalMillis)*c.softFactor) + c.softCapBias
	if soft > c.hardCap {
		return c.hardCap
	}
	return soft
}

// DeriveRoundLimits produces a fresh relative Limit, starting "now", for
// each active global limit kind (spec.md §4.1).
func (c *Controller) DeriveRoundLimits() []Limit {
	span := c.roundSpan()
	out := make([]Limit, 0, len(c.globals))
	for _, g := range c.globals {
		out = append(out, Limit{Kind: g.Kind, ToNextCheck: span})
	}
	return out
}

// DeriveFeasibilityLimits produces a fresh relative Limit using the
// dedicated feasibility-check time span rather than the round-derivation
// rule (spec.md §4.1).
func (c *Controller) DeriveFeasibilityLimits() []Limit {
	out := make([]Limit, 0, len(c.globals))
	for _, g := range c.globals {
		out = append(out, Limit{Kind: g.Kind, ToNextCheck: c.feasibilitySpan})
	}
	return out
}

// RecordConsumption adds elapsed to the named global's Current; called by
// the driver after each round completes.
func (c *Controller) RecordConsumption(name string, elapsed time.Duration) {
	for _, g := range c.globals {
		if g.Name == name {
			g.Current += elapsed
		}
	}
}

// RecordRoundConsumption adds elapsed to every tracked global's Current: a
// round's wall time is spent against every configured clock (CPU,
// thread-CPU, wall) at once, not just one of them.
func (c *Controller) RecordRoundConsumption(elapsed time.Duration) {
	for _, g := range c.globals {
		g.Current += elapsed
	}
}

// WillExceed asks, for each paired local/global limit, whether
// global.Current + local.ToNextCheck + slack would exceed global.Max. It
// returns the first offending global's name, or an active shutdown reason
// taken from ctx if ctx has already been cancelled (spec.md §4.1, §5).
func (c *Controller) WillExceed(ctx context.Context, limits []Limit, slack time.Duration) (reason string, exceeds bool) {
	if ctx != nil && ctx.Err() != nil {
		return fmt.Sprintf("shutdown: %v", ctx.Err()), true
	}
	for _, local := range limits {
		for _, g := range c.globals {
			if g.Kind != local.Kind {
				continue
			}
			projected := g.Current + local.ToNextCheck + slack
			if projected > g.Max {
				return g.Name, true
			}
		}
	}
	return "", false
}

// DefaultSlack is the default slack duration will_exceed callers should
// pass, per spec.md §4.1's rationale: it accounts for per-round bookkeeping
// and the verifier's best-effort cancellation cooperation (spec.md §5).
const DefaultSlack = time.Second
