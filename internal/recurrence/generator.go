package recurrence

import (
	"context"
	"math/big"
	"sync"
)

// TermGenerator produces the terms of one recurrence sequentially. It
// maintains O(1) state (two big.Int values) and produces each subsequent
// term with a single multiply-subtract step, which makes it suitable for
// streaming scenarios such as the /terms HTTP endpoint, where the full
// sequence never needs to be resident at once.
//
// For whole-prefix analysis use Generate instead, which returns the
// indexed slice the divisibility checkers require.
//
// Thread Safety:
// A TermGenerator serializes its own state transitions, but the sequence
// of values observed by interleaved callers is unspecified. Use one
// generator per goroutine.
type TermGenerator struct {
	// params is the recurrence being generated.
	params Params
	// prev holds x(index-1); nil until the generator has passed x(0).
	prev *big.Int
	// current holds x(index) once started.
	current *big.Int
	// index is the position of current in the sequence.
	index int
	// started indicates whether Next has been called at least once.
	started bool
	mu      sync.Mutex
}

// NewTermGenerator creates a generator positioned before x(0). The first
// call to Next returns x(0).
func NewTermGenerator(params Params) *TermGenerator {
	return &TermGenerator{params: params}
}

// Next advances the generator and returns the next term. The first call
// returns x(0), the second x(1), and each later call applies the
// recurrence step.
//
// Parameters:
//   - ctx: The context for managing cancellation.
//
// Returns:
//   - *big.Int: The next term. The returned value is a copy and is safe
//     to modify.
//   - error: An error if the context is cancelled.
func (g *TermGenerator) Next(ctx context.Context) (*big.Int, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started {
		g.started = true
		g.current = new(big.Int).Set(g.params.X0)
		return new(big.Int).Set(g.current), nil
	}

	g.index++
	if g.index == 1 {
		g.prev = g.current
		g.current = new(big.Int).Set(g.params.X1)
		return new(big.Int).Set(g.current), nil
	}

	// x(i) = P*x(i-1) - Q*x(i-2)
	next := new(big.Int).Mul(g.params.P, g.current)
	next.Sub(next, new(big.Int).Mul(g.params.Q, g.prev))
	g.prev, g.current = g.current, next

	return new(big.Int).Set(g.current), nil
}

// Current returns the current term without advancing.
// If Next has never been called, returns nil.
func (g *TermGenerator) Current() *big.Int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started {
		return nil
	}
	return new(big.Int).Set(g.current)
}

// Index returns the index of the current term. If Next has never been
// called, returns 0.
func (g *TermGenerator) Index() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.index
}

// Reset rewinds the generator to before x(0). After Reset, the next call
// to Next returns x(0) again.
func (g *TermGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prev = nil
	g.current = nil
	g.index = 0
	g.started = false
}
