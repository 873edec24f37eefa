package recurrence

import (
	"context"
	"math/big"
	"testing"
)

func TestTermGeneratorFirstCalls(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	g := NewTermGenerator(NewParamsFromInt64(1, -1, 2, 1))

	if got := g.Current(); got != nil {
		t.Errorf("Current before Next = %s, want nil", got)
	}

	first, err := g.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first.Cmp(big.NewInt(2)) != 0 {
		t.Errorf("first term = %s, want 2", first)
	}
	if g.Index() != 0 {
		t.Errorf("Index after first Next = %d, want 0", g.Index())
	}

	second, err := g.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if second.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("second term = %s, want 1", second)
	}

	third, err := g.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if third.Cmp(big.NewInt(3)) != 0 {
		t.Errorf("third term = %s, want 3 (Lucas)", third)
	}
	if g.Index() != 2 {
		t.Errorf("Index = %d, want 2", g.Index())
	}
}

func TestTermGeneratorMatchesGenerate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	params := NewParamsFromInt64(2, -1, 0, 1)
	seq := Generate(params, 30)
	g := NewTermGenerator(params)

	for i := 0; i <= 30; i++ {
		term, err := g.Next(ctx)
		if err != nil {
			t.Fatalf("Next at index %d: %v", i, err)
		}
		if term.Cmp(seq[i]) != 0 {
			t.Errorf("streamed x(%d) = %s, want %s", i, term, seq[i])
		}
	}
	if g.Index() != 30 {
		t.Errorf("Index = %d, want 30", g.Index())
	}
}

func TestTermGeneratorReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	g := NewTermGenerator(NewParamsFromInt64(1, -1, 0, 1))
	for i := 0; i < 5; i++ {
		if _, err := g.Next(ctx); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}

	// Mutating a returned term must not corrupt the generator state.
	term, err := g.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	term.SetInt64(-999)

	next, err := g.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if next.Cmp(big.NewInt(8)) != 0 {
		t.Errorf("x(6) = %s, want 8", next)
	}
}

func TestTermGeneratorReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	g := NewTermGenerator(NewParamsFromInt64(1, -1, 0, 1))
	for i := 0; i < 10; i++ {
		if _, err := g.Next(ctx); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}

	g.Reset()
	if g.Index() != 0 {
		t.Errorf("Index after Reset = %d, want 0", g.Index())
	}
	if g.Current() != nil {
		t.Error("Current after Reset should be nil")
	}

	first, err := g.Next(ctx)
	if err != nil {
		t.Fatalf("Next after Reset: %v", err)
	}
	if first.Sign() != 0 {
		t.Errorf("first term after Reset = %s, want 0", first)
	}
}

func TestTermGeneratorContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewTermGenerator(NewParamsFromInt64(1, -1, 0, 1))
	if _, err := g.Next(ctx); err == nil {
		t.Fatal("Next with cancelled context should fail")
	}
}
