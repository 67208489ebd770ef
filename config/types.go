package config

import (
	"fmt"
	"time"

	"github.com/cfamutation/driver/feasibility"
	"github.com/cfamutation/driver/internal/rlog"
)

// Duration wraps time.Duration with a YAML unmarshaler accepting the
// usual Go duration strings ("5s", "200s"), since yaml.v3 has no
// built-in time.Duration support.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: parsing duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// Config is the root document: everything lives under the cfaMutation
// key, per spec.md §6's `cfaMutation.` prefix.
type Config struct {
	CFAMutation CFAMutation `yaml:"cfaMutation"`
}

// CFAMutation holds every tunable spec.md §6 enumerates. Dotted spec
// keys (e.g. "cex.checker.config", "logFile.level") are rendered as
// nested YAML mappings rather than literal dotted keys, the idiomatic
// yaml.v3 shape; see DESIGN.md for this mapping decision.
type CFAMutation struct {
	RollbacksInRowCheck uint32        `yaml:"rollbacksInRowCheck"`
	WalltimeLimit       WalltimeLimit `yaml:"walltimeLimit"`
	TimeLimit           TimeLimit     `yaml:"timeLimit"`
	Cex                 Cex           `yaml:"cex"`
	LogFile             LogFile       `yaml:"logFile"`
	RoundStatFile       string        `yaml:"roundStatFile"`
	RankedNodesFile     string        `yaml:"rankedNodesFile"`
}

// WalltimeLimit is spec.md §6's walltimeLimit.* group.
type WalltimeLimit struct {
	Factor  float64  `yaml:"factor"`
	Add     Duration `yaml:"add"`
	Hardcap Duration `yaml:"hardcap"`
}

// TimeLimit is spec.md §6's timeLimit.* group.
type TimeLimit struct {
	CexCheck Duration `yaml:"cexCheck"`
}

// Cex is spec.md §6's cex.* group: which feasibility Checker to build
// and its optional configuration path.
type Cex struct {
	Checker       string `yaml:"checker"`
	CheckerConfig string `yaml:"checkerConfig"`
}

// LogFile is spec.md §6's logFile / logFile.level pair.
type LogFile struct {
	Path  string     `yaml:"path"`
	Level rlog.Level `yaml:"level"`
}

// Defaults returns the spec.md §6 default configuration.
func Defaults() Config {
	return Config{
		CFAMutation: CFAMutation{
			RollbacksInRowCheck: 5,
			WalltimeLimit: WalltimeLimit{
				Factor:  2.0,
				Add:     Duration{5 * time.Second},
				Hardcap: Duration{200 * time.Second},
			},
			TimeLimit: TimeLimit{CexCheck: Duration{60 * time.Second}},
			Cex:       Cex{Checker: feasibility.ModelCheckerA.String()},
			LogFile:   LogFile{Path: "this-round.log", Level: rlog.Fine},
			RoundStatFile:   "this-round-stats.txt",
			RankedNodesFile: "this-round-ranked-nodes.txt",
		},
	}
}
