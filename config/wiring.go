package config

import (
	"os"

	"github.com/cfamutation/driver/budget"
	"github.com/cfamutation/driver/feasibility"
)

// BudgetController builds a budget.Controller from the loaded
// walltimeLimit/timeLimit options, tracking a single wall-clock global
// limit capped at hardcap (spec.md §6 names no separate global ceiling
// distinct from the hard cap itself).
func (c Config) BudgetController() *budget.Controller {
	m := c.CFAMutation
	globals := []*budget.GlobalLimit{
		{Name: "overall", Kind: budget.Wall, Max: m.WalltimeLimit.Hardcap.Duration},
	}
	return budget.NewController(
		globals,
		m.WalltimeLimit.Hardcap.Duration,
		m.WalltimeLimit.Factor,
		m.WalltimeLimit.Add.Duration,
		m.TimeLimit.CexCheck.Duration,
	)
}

// BuildChecker constructs the feasibility.Checker named by cex.checker,
// reading the external binary path from CFA_MUTATION_CEX_CHECKER_BINARY
// (falling back to a kind-appropriate default command name), since
// spec.md §6 configures which checker kind to use but leaves the
// checker's own binary location to the deployment.
func (c Config) BuildChecker() (feasibility.Checker, error) {
	m := c.CFAMutation
	bin := os.Getenv(envCexCheckerBinary)

	switch m.Cex.Checker {
	case feasibility.ModelCheckerA.String():
		if bin == "" {
			bin = "model-checker-a"
		}
		return feasibility.NewModelCheckerA(bin, m.TimeLimit.CexCheck.Duration), nil
	case feasibility.SameToolWithConfig.String():
		if bin == "" {
			bin = "cfa-verifier"
		}
		return feasibility.NewSameToolWithConfig(bin, m.Cex.CheckerConfig, m.TimeLimit.CexCheck.Duration)
	case feasibility.ConcreteExecution.String():
		return feasibility.NewConcreteExecution(bin, m.TimeLimit.CexCheck.Duration), nil
	default:
		return nil, &ErrInvalidConfig{Reason: "cex.checker: unknown checker kind " + m.Cex.Checker}
	}
}
