package analysis

import (
	"sync"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// ContextState mirrors the state of an audio context.
type ContextState int

const (
	ContextRunning ContextState = iota
	ContextSuspended
	ContextClosed
)

// String returns the state name.
func (s ContextState) String() string {
	switch s {
	case ContextRunning:
		return "running"
	case ContextSuspended:
		return "suspended"
	case ContextClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Graph is the processing chain source -> analyser -> output. The output
// side is the engine itself: the tap only copies samples, so playback is
// unaffected by the graph's state.
type Graph struct {
	mu       sync.Mutex
	source   ports.SampleSource
	analyser *Analyser
	block    []float64
	state    ContextState
}

// NewGraph builds the chain once. The analyser is validated before the
// source is attached, so a bad size does not consume the engine's tap.
// Errors are *domain.AnalysisError.
func NewGraph(tapper ports.OutputTapper, fftSize int, opts Options) (*Graph, error) {
	analyser, err := NewAnalyser(fftSize, opts)
	if err != nil {
		return nil, domain.NewAnalysisError("analyser", err)
	}
	if tapper == nil {
		return nil, domain.NewAnalysisError("source", domain.ErrAnalysisUnsupported)
	}
	source, err := tapper.OutputTap()
	if err != nil {
		return nil, domain.NewAnalysisError("source", err)
	}
	return &Graph{
		source:   source,
		analyser: analyser,
		block:    make([]float64, fftSize),
		state:    ContextRunning,
	}, nil
}

// BinCount returns the number of frequency bins.
func (g *Graph) BinCount() int {
	return g.analyser.FrequencyBinCount()
}

// State returns the context state.
func (g *Graph) State() ContextState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Resume moves a suspended context back to running.
func (g *Graph) Resume() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == ContextClosed {
		return domain.ErrContextClosed
	}
	g.state = ContextRunning
	return nil
}

// Suspend freezes analysis; ByteFrequencyData keeps returning the last spectrum.
func (g *Graph) Suspend() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == ContextClosed {
		return domain.ErrContextClosed
	}
	g.state = ContextSuspended
	return nil
}

// Close releases the graph. Closing twice is a no-op.
func (g *Graph) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = ContextClosed
	g.source = nil
	return nil
}

// ByteFrequencyData refreshes dst in place from the latest output samples.
func (g *Graph) ByteFrequencyData(dst domain.FrequencySample) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == ContextRunning && g.source != nil {
		n := g.source.ReadSamples(g.block)
		g.analyser.Process(g.block[:n])
	}
	return g.analyser.ByteFrequencyData(dst)
}
