package engine

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
)

// Factory starts a new engine handle.
type Factory func() (Engine, error)

// Session bounds the lifetime of exactly one engine handle. While the
// session is open, interrupt and termination signals shut the engine down
// before the signal's default disposition resumes, so the external process
// is never orphaned. Close always tears the engine down, suppressing and
// logging shutdown errors, and restores normal signal handling.
//
// One handle is owned at a time; re-entrant Open returns ErrSessionActive.
type Session struct {
	factory Factory

	mu   sync.Mutex
	id   uuid.UUID
	eng  Engine
	sigc chan os.Signal
	done chan struct{}
}

// NewSession creates a session that obtains engine handles from factory.
func NewSession(factory Factory) *Session {
	return &Session{factory: factory, id: uuid.New()}
}

// Open starts an engine handle and installs the signal guard. Startup
// errors propagate unchanged and leave the session inactive.
func (s *Session) Open(ctx context.Context) (Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.eng != nil {
		return nil, ErrSessionActive
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eng, err := s.factory()
	if err != nil {
		return nil, err
	}
	s.eng = eng
	s.installGuard()

	slog.Info("engine session opened", "session", s.id)
	return eng, nil
}

// Close shuts the engine down if still active and restores signal
// handling. Shutdown errors are logged and suppressed so cleanup is
// unconditional. Safe to call when already closed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

// Active reports whether the session currently owns a live engine handle.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng != nil
}

func (s *Session) closeLocked() {
	if s.eng != nil {
		if err := s.eng.Quit(); err != nil {
			slog.Warn("error during engine shutdown", "session", s.id, "error", err)
		}
		s.eng = nil
		slog.Info("engine session closed", "session", s.id)
	}
	s.removeGuard()
}

// installGuard routes SIGINT and SIGTERM through engine shutdown, then
// re-raises the signal with its default disposition so normal process
// termination behavior is preserved.
func (s *Session) installGuard() {
	s.sigc = make(chan os.Signal, 1)
	s.done = make(chan struct{})
	signal.Notify(s.sigc, os.Interrupt, syscall.SIGTERM)

	go func(sigc chan os.Signal, done chan struct{}) {
		select {
		case sig := <-sigc:
			slog.Warn("signal received, shutting engine down", "signal", sig)
			s.Close()
			if sysSig, ok := sig.(syscall.Signal); ok {
				signal.Reset(sysSig)
				_ = syscall.Kill(os.Getpid(), sysSig)
			}
		case <-done:
		}
	}(s.sigc, s.done)
}

func (s *Session) removeGuard() {
	if s.sigc == nil {
		return
	}
	signal.Stop(s.sigc)
	close(s.done)
	s.sigc = nil
	s.done = nil
}
