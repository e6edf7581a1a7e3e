package strategy

import (
	"github.com/Masterminds/semver/v3"
)

// versionGate refuses to run a model whose reported version falls outside
// the engine's expected compatibility range, logging and falling back to
// "hold" rather than crashing the Trader. This is additive to the
// Decision table: it never changes what a compatible model's output maps to.
type versionGate struct {
	constraints *semver.Constraints
}

func newVersionGate(expectedRange string) (*versionGate, error) {
	c, err := semver.NewConstraint(expectedRange)
	if err != nil {
		return nil, err
	}
	return &versionGate{constraints: c}, nil
}

func (g *versionGate) allows(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return g.constraints.Check(v)
}
