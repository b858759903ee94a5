package nexuslog

import (
	"sync/atomic"
)

// Phase is the engine lifecycle stage
type Phase int32

const (
	PhaseIdle     Phase = iota // Created, writer not started
	PhaseRunning               // Accepting records
	PhaseDraining              // Shutdown in progress, records rejected
	PhaseStopped               // Writer exited, file closed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseDraining:
		return "draining"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// State encapsulates the runtime state of the engine
type State struct {
	phase atomic.Int32

	Accepted     atomic.Uint64 // Records enqueued by loggers
	Written      atomic.Uint64 // Records written to the sink, heartbeats included
	Dropped      atomic.Uint64 // Records rejected after shutdown
	Lost         atomic.Uint64 // Accepted records discarded after write retries ran out
	FormatErrors atomic.Uint64 // Records rendered through the fallback path
	WriteErrors  atomic.Uint64 // Failed sink operations
	Rotations    atomic.Uint64 // Day changes of the output file
	Batches      atomic.Uint64 // Batches handed to the sink
	Heartbeats   atomic.Uint64 // Heartbeat records emitted

	HeartbeatSequence atomic.Uint64
}

// Stats is a point in time copy of the engine counters
type Stats struct {
	Accepted     uint64
	Written      uint64
	Dropped      uint64
	Lost         uint64
	FormatErrors uint64
	WriteErrors  uint64
	Rotations    uint64
	Batches      uint64
	Heartbeats   uint64
}

func (s *State) loadPhase() Phase {
	return Phase(s.phase.Load())
}

func (s *State) storePhase(p Phase) {
	s.phase.Store(int32(p))
}

func (s *State) snapshot() Stats {
	return Stats{
		Accepted:     s.Accepted.Load(),
		Written:      s.Written.Load(),
		Dropped:      s.Dropped.Load(),
		Lost:         s.Lost.Load(),
		FormatErrors: s.FormatErrors.Load(),
		WriteErrors:  s.WriteErrors.Load(),
		Rotations:    s.Rotations.Load(),
		Batches:      s.Batches.Load(),
		Heartbeats:   s.Heartbeats.Load(),
	}
}
