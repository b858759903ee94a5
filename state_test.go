package nexuslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "running", PhaseRunning.String())
	assert.Equal(t, "draining", PhaseDraining.String())
	assert.Equal(t, "stopped", PhaseStopped.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestStateSnapshot(t *testing.T) {
	var s State
	assert.Equal(t, PhaseIdle, s.loadPhase())

	s.storePhase(PhaseRunning)
	s.Accepted.Add(3)
	s.Written.Add(2)
	s.Dropped.Add(1)
	s.Lost.Add(4)
	s.FormatErrors.Add(5)
	s.WriteErrors.Add(6)
	s.Rotations.Add(7)
	s.Batches.Add(8)
	s.Heartbeats.Add(9)

	assert.Equal(t, PhaseRunning, s.loadPhase())
	assert.Equal(t, Stats{
		Accepted:     3,
		Written:      2,
		Dropped:      1,
		Lost:         4,
		FormatErrors: 5,
		WriteErrors:  6,
		Rotations:    7,
		Batches:      8,
		Heartbeats:   9,
	}, s.snapshot())
}
