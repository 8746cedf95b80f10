package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/rs/zerolog/log"
)

// State is the engine pool lifecycle.
type State int

const (
	// StateEmpty: no browser has been launched yet.
	StateEmpty State = iota
	// StateHealthy: the cached browser is believed usable.
	StateHealthy
	// StateSuspect: an error suggested the session is dead; the next
	// Acquire recreates the browser.
	StateSuspect
)

// EnginePool owns zero or one live headless-browser instances. The browser
// is created on first need or after invalidation, reused across renders, and
// torn down only on process exit. Acquire/Invalidate are safe for concurrent
// use; concurrency within the browser happens at the page level, one page
// per render.
type EnginePool struct {
	mu      sync.Mutex
	state   State
	browser *rod.Browser
	launch  *launcher.Launcher
}

// NewEnginePool creates an empty pool; no browser is launched until the
// first Acquire.
func NewEnginePool() *EnginePool {
	return &EnginePool{}
}

// Acquire returns the cached browser, launching a fresh one when the pool
// is empty or the previous instance was invalidated.
func (p *EnginePool) Acquire() (*rod.Browser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateHealthy && p.browser != nil {
		return p.browser, nil
	}

	p.closeLocked()

	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	p.launch = l
	p.browser = browser
	p.state = StateHealthy
	log.Info().Msg("headless browser launched")
	return p.browser, nil
}

// Invalidate marks the cached browser as dead. The instance is discarded
// immediately; the next Acquire launches a replacement.
func (p *EnginePool) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.browser == nil {
		return
	}
	log.Warn().Msg("discarding headless browser after session failure")
	p.state = StateSuspect
	p.closeLocked()
}

// Close tears the pool down on shutdown.
func (p *EnginePool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	p.state = StateEmpty
}

func (p *EnginePool) closeLocked() {
	if p.browser != nil {
		if err := p.browser.Close(); err != nil {
			log.Debug().Err(err).Msg("browser close failed")
		}
		p.browser = nil
	}
	if p.launch != nil {
		p.launch.Kill()
		p.launch = nil
	}
}

// IsSessionError reports whether an error suggests the browser session
// itself is dead (as opposed to a transient per-page failure). Detection is
// by error class where possible and message pattern otherwise, since the
// protocol flattens most session failures into plain errors.
func IsSessionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"session", "browser", "target closed", "websocket",
		"connection is closed", "use of closed network connection",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
