// Package migrate chains version-to-version transforms over a save blob's
// raw JSON bytes. Rather than inventing a separate generic tree type (a sum
// over primitives/arrays/objects/strings/numbers/bool/null, as the design
// notes describe), this package treats the JSON bytes themselves as that
// mutable generic tree: reads go through github.com/tidwall/gjson, in-place
// edits go through github.com/tidwall/sjson's path-based Set/Delete. Both
// libraries already operate on exactly the representation a save blob is
// stored in, so there is nothing a hand-rolled Value type would add.
package migrate

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/labelle-toolkit/serialization/internal/log"
)

// Step transforms a blob from exactly one schema version to the next.
type Step struct {
	FromVersion int64
	ToVersion   int64
	Apply       func(blob []byte) ([]byte, error)
	// describe, when non-nil, names the step in migration log lines; when
	// nil a generic "vX -> vY" line is used instead.
	describe func() string
}

// Describe returns the step's human-readable log line.
func (s Step) Describe() string {
	if s.describe != nil {
		return s.describe()
	}
	return fmt.Sprintf("migrate v%d -> v%d", s.FromVersion, s.ToVersion)
}

// Chain is an ordered registry of migration steps, keyed by FromVersion.
// Only one step may be registered per FromVersion; a later duplicate
// registration is a construction-time warning logged and then ignored, the
// first registration wins.
type Chain struct {
	steps  map[int64]Step
	logger *log.Logger
}

// NewChain returns an empty chain. A nil logger disables step logging.
func NewChain(logger *log.Logger) *Chain {
	return &Chain{steps: make(map[int64]Step), logger: logger}
}

// Register adds step to the chain. If a step is already registered for
// step.FromVersion, the new one is logged as a duplicate and dropped.
func (c *Chain) Register(step Step) {
	if _, dup := c.steps[step.FromVersion]; dup {
		if c.logger != nil {
			c.logger.Warnf("migrate: duplicate step registered for version %d, keeping the first", step.FromVersion)
		}
		return
	}
	c.steps[step.FromVersion] = step
}

// Result carries the migrated blob and a record of what ran.
type Result struct {
	Blob         []byte
	AppliedSteps int
	Log          []string
	StartVersion int64
	FinalVersion int64
}

// Migrate repeatedly applies the unique step whose FromVersion equals the
// blob's current meta.version until it reaches target, failing with
// ErrNoMigrationPath if no step matches before reaching it.
func (c *Chain) Migrate(blob []byte, target int64) (Result, error) {
	current := gjson.GetBytes(blob, "meta.version").Int()
	result := Result{Blob: blob, StartVersion: current, FinalVersion: current}

	for current < target {
		step, ok := c.steps[current]
		if !ok {
			return result, eris.Wrapf(ErrNoMigrationPath, "no step registered for version %d (target %d)", current, target)
		}

		next, err := step.Apply(result.Blob)
		if err != nil {
			return result, eris.Wrapf(err, "migrate: step v%d -> v%d failed", step.FromVersion, step.ToVersion)
		}
		next, err = sjson.SetBytes(next, "meta.version", step.ToVersion)
		if err != nil {
			return result, eris.Wrap(err, "migrate: failed to stamp meta.version")
		}

		if c.logger != nil {
			c.logger.Infof("%s", step.Describe())
		}
		result.Blob = next
		result.Log = append(result.Log, step.Describe())
		result.AppliedSteps++
		current = step.ToVersion
	}

	result.FinalVersion = current
	return result, nil
}

// ErrNoMigrationPath is returned when the chain has no registered step for
// the blob's current version and current < target.
var ErrNoMigrationPath = eris.New("migrate: no migration path to target version")
