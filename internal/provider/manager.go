package provider

import (
	"context"
	"log/slog"
	"sync"

	"github.com/joseph-ayodele/receipt-vision/internal/ocr"
)

type engineState int

const (
	stateUninitialized engineState = iota
	stateInitializing
	stateReady
	stateFailed
)

// EngineManager owns the shared local recognition engine. Initialization is
// heavyweight, so it happens lazily and at most once per process: concurrent
// callers during Initializing block on a channel until the single in-flight
// attempt resolves, then all receive the ready engine or the cached error.
// A cached failure is returned to every later caller without retry.
type EngineManager struct {
	mu      sync.Mutex
	state   engineState
	done    chan struct{}
	engine  *ocr.Extractor
	initErr error

	newEngine func() (*ocr.Extractor, error)
	logger    *slog.Logger
}

func NewEngineManager(newEngine func() (*ocr.Extractor, error), logger *slog.Logger) *EngineManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &EngineManager{newEngine: newEngine, logger: logger}
}

// Get returns the shared engine, initializing it on first use. Waiters honor
// ctx: a caller may give up without affecting the in-flight initialization.
func (m *EngineManager) Get(ctx context.Context) (*ocr.Extractor, error) {
	m.mu.Lock()
	switch m.state {
	case stateReady:
		e := m.engine
		m.mu.Unlock()
		return e, nil
	case stateFailed:
		err := m.initErr
		m.mu.Unlock()
		return nil, err
	case stateUninitialized:
		m.state = stateInitializing
		m.done = make(chan struct{})
		m.mu.Unlock()
		m.initialize()
		return m.Get(ctx)
	default: // stateInitializing
		done := m.done
		m.mu.Unlock()
		select {
		case <-done:
			return m.Get(ctx)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (m *EngineManager) initialize() {
	m.logger.Info("engine.init.start")
	engine, err := m.newEngine()

	m.mu.Lock()
	if err != nil {
		m.state = stateFailed
		m.initErr = err
		m.logger.Error("engine.init.failed", "error", err)
	} else {
		m.state = stateReady
		m.engine = engine
		m.logger.Info("engine.init.ok")
	}
	close(m.done)
	m.mu.Unlock()
}
