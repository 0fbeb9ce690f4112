package preset

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pthm-cable/nebula/config"
)

// ErrBusy is returned when a generation is already in flight.
var ErrBusy = errors.New("preset: generation already running")

// Result is the outcome of one asynchronous generation. On success Config
// holds the fragment merged over the base that was active at request time.
type Result struct {
	Prompt string
	Config config.ParticleConfig
	Err    error
}

// Async runs generations off the frame loop. At most one request is in
// flight; the frame loop polls for the result once per frame.
type Async struct {
	gen     Generator
	timeout time.Duration
	now     func() time.Time

	results chan Result
	cancel  context.CancelFunc
	busy    bool
}

// NewAsync wraps gen. A zero timeout means no deadline beyond the parent
// context.
func NewAsync(gen Generator, timeout time.Duration) *Async {
	return &Async{
		gen:     gen,
		timeout: timeout,
		now:     time.Now,
		results: make(chan Result, 1),
	}
}

// Start launches a generation merging over base. The caller keeps using its
// current config until Poll delivers a result.
func (a *Async) Start(ctx context.Context, base config.ParticleConfig, prompt string) error {
	if a.busy {
		return ErrBusy
	}

	if a.timeout > 0 {
		ctx, a.cancel = context.WithTimeout(ctx, a.timeout)
	} else {
		ctx, a.cancel = context.WithCancel(ctx)
	}
	a.busy = true
	base = base.Clone()

	go func(ctx context.Context, cancel context.CancelFunc) {
		defer cancel()
		start := a.now()
		frag, err := a.gen.Generate(ctx, prompt)
		res := Result{Prompt: prompt, Err: err}
		if err == nil {
			res.Config = Merge(base, frag, a.now())
		}
		slog.Info("preset generation finished",
			"prompt", prompt,
			"elapsed", a.now().Sub(start),
			"ok", err == nil,
		)
		a.results <- res
	}(ctx, a.cancel)

	return nil
}

// Poll returns the finished result, if any, without blocking.
func (a *Async) Poll() (Result, bool) {
	select {
	case res := <-a.results:
		a.busy = false
		a.cancel = nil
		return res, true
	default:
		return Result{}, false
	}
}

// Busy reports whether a generation is in flight.
func (a *Async) Busy() bool {
	return a.busy
}

// Wait blocks until the in-flight generation finishes or ctx is done.
func (a *Async) Wait(ctx context.Context) (Result, error) {
	if !a.busy {
		return Result{}, errors.New("preset: no generation running")
	}
	select {
	case res := <-a.results:
		a.busy = false
		a.cancel = nil
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Cancel aborts the in-flight generation. Its result still arrives through
// Poll, carrying the context error.
func (a *Async) Cancel() {
	if a.cancel != nil {
		a.cancel()
	}
}
