package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Outcome is the settled result of one fan-out call: exactly one of Value or
// Err is meaningful. Key attributes the outcome to its input.
type Outcome[T any] struct {
	Key   string
	Value T
	Err   error
}

func (o Outcome[T]) OK() bool { return o.Err == nil }

// SettleAll calls fn once per key with at most limit calls in flight and
// waits for every call to settle. A failing call never cancels or hides its
// siblings: the returned slice has one Outcome per key, in key order.
//
// Calls started after ctx is done settle immediately with ctx.Err().
func SettleAll[T any](ctx context.Context, keys []string, limit int, fn func(ctx context.Context, i int) (T, error)) []Outcome[T] {
	outcomes := make([]Outcome[T], len(keys))
	if len(keys) == 0 {
		return outcomes
	}
	if limit <= 0 {
		limit = 1
	}

	// Each goroutine writes only its own slot; Wait is the barrier.
	var g errgroup.Group
	g.SetLimit(limit)
	for i, key := range keys {
		outcomes[i].Key = key
		g.Go(func() error {
			v, err := settle(ctx, i, fn)
			outcomes[i].Value = v
			outcomes[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func settle[T any](ctx context.Context, i int, fn func(ctx context.Context, i int) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return v, ctxErr
	}
	return fn(ctx, i)
}
