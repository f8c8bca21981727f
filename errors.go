package pax

import (
	"fmt"
	"log/slog"
	"sync"
)

// ParseError reports a PAXEL grammar failure.
type ParseError struct {
	Kind string
	Span string
}

func (e *ParseError) Error() string { return fmt.Sprintf("pax: parse error (%s) at %s", e.Kind, e.Span) }

// ResolveError reports an identifier unknown at compile time. Resolve
// errors abort compilation and are never logged per-frame.
type ResolveError struct {
	Symbol string
}

func (e *ResolveError) Error() string { return "pax: unresolved identifier " + e.Symbol }

// LayoutError reports a layout that cannot be inverted; InvertLayout
// returns it when the parent transform is singular. ComposeLayout returns
// no errors, and no node's transform is reset to identity on this error.
type LayoutError struct {
	IDChain string
	Reason  string
}

func (e *LayoutError) Error() string { return "pax: layout error on " + e.IDChain + ": " + e.Reason }

// NonInvertibleLayoutError is the specific LayoutError raised by inversion
// when non-zero skew is combined with a percent anchor.
type NonInvertibleLayoutError struct {
	IDChain string
}

func (e *NonInvertibleLayoutError) Error() string {
	return "pax: non-invertible layout on " + e.IDChain
}

// RenderError reports a render sink failure (missing image or font). The
// chassis is expected to retry on a subsequent tick.
type RenderError struct {
	Path string
	Why  string
}

func (e *RenderError) Error() string { return "pax: render error for " + e.Path + ": " + e.Why }

// HandlerPanic wraps a recovered panic from a user event handler.
type HandlerPanic struct {
	IDChain string
	Recov any
}

func (e *HandlerPanic) Error() string {
	return fmt.Sprintf("pax: handler panic on %s: %v", e.IDChain, e.Recov)
}

// logGate suppresses repeated per-frame error logs to at most once per
// (idChain, key), since a busy handler can otherwise log-storm every tick.
type logGate struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newLogGate() *logGate {
	return &logGate{seen: make(map[string]struct{})}
}

func (g *logGate) logOnce(logger *slog.Logger, idChain, key, msg string, args ...any) {
	k := idChain + "\x00" + key
	g.mu.Lock()
	_, already := g.seen[k]
	if !already {
		g.seen[k] = struct{}{}
	}
	g.mu.Unlock()
	if already {
		return
	}
	logger.Warn(msg, append([]any{"id_chain", idChain, "key", key}, args...)...)
}

// forget clears a suppressed key, allowing it to log again.
func (g *logGate) forget(idChain, key string) {
	g.mu.Lock()
	delete(g.seen, idChain+"\x00"+key)
	g.mu.Unlock()
}
