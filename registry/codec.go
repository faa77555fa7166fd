package registry

import (
	"github.com/labelle-toolkit/serialization/component"
	"github.com/labelle-toolkit/serialization/internal/log"
)

// Codec ties a Registry collaborator, a resolved component.Set, and a
// logger together to drive text or binary encode/decode. It holds no
// other state: a codec instance is safe to reuse across calls, since
// State resets to Idle on every return (spec §4.4/§5 — "a codec instance
// holds only its configuration and a logger").
type Codec struct {
	registry Registry
	set      component.Set
	logger   *log.Logger
	state    State
}

// New returns a Codec driving registry over set.
func New(reg Registry, set component.Set, logger *log.Logger) *Codec {
	return &Codec{registry: reg, set: set, logger: logger}
}

// State reports the codec's current phase. Only meaningful to an observer
// inspecting a codec from another goroutine mid-call, which this package's
// single-threaded contract otherwise forbids.
func (c *Codec) State() State { return c.state }
