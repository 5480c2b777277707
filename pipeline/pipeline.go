// Package pipeline drives record sets produced by a single reader through a
// fixed pool of worker goroutines and back to a sink, in the reader's
// original order, with bounded memory and fail-fast error propagation.
package pipeline

import (
	"container/heap"
	"context"

	"golang.org/x/sync/errgroup"
)

// RecordSet is satisfied by every batch type a reader produces
// (FASTARecordSet, FASTQRecordSet, FASTXRecordSet): it can be emptied in
// place so the pipeline can recycle its backing allocations.
type RecordSet interface {
	Reset()
}

// Source is satisfied by a *FASTAReader, *FASTQReader, or *FASTXReader: the
// single producer that owns the underlying byte source exclusively.
type Source[T RecordSet] interface {
	ReadRecordSet(rs *T) (bool, error)
}

// Worker transforms one record set into a result. state is whatever
// Config.NewWorkerState produced for the calling goroutine; it is never
// shared across workers and is opaque to the pipeline.
type Worker[T RecordSet, R any] func(rs *T, state any) (R, error)

// Sink consumes one (record set, result) pair. It is called from a single
// goroutine, strictly in the order the reader produced the sets, once per
// set until the sink or a worker fails; sets still pending at that point
// are not passed to it.
type Sink[T RecordSet, R any] func(rs *T, result R) error

// Config controls the pipeline's shape.
type Config[T RecordSet] struct {
	// Workers is the size of the worker pool (N in the design). Defaults
	// to 4 if zero or negative.
	Workers int
	// QueueDepth is the small constant Q added to Workers to size every
	// bounded channel in the pipeline. Defaults to 2.
	QueueDepth int
	// NewRecordSet allocates a fresh, empty *T. Required.
	NewRecordSet func() *T
	// NewWorkerState is called once per worker goroutine to build its
	// opaque per-thread state. May be nil if workers are stateless.
	NewWorkerState func() any
}

func (c Config[T]) withDefaults() Config[T] {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.QueueDepth <= 0 {
		c.QueueDepth = 2
	}
	return c
}

type dispatchItem[T RecordSet] struct {
	seq uint64
	rs  *T
}

type resultItem[T RecordSet, R any] struct {
	seq    uint64
	rs     *T
	result R
}

// resultHeap orders resultItems by ascending sequence number so the
// collector can release them to the sink in the reader's original order
// regardless of which worker finishes first.
type resultHeap[T RecordSet, R any] []resultItem[T, R]

func (h resultHeap[T, R]) Len() int           { return len(h) }
func (h resultHeap[T, R]) Less(i, j int) bool { return h[i].seq < h[j].seq }
func (h resultHeap[T, R]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *resultHeap[T, R]) Push(x any) {
	*h = append(*h, x.(resultItem[T, R]))
}

func (h *resultHeap[T, R]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Run drives src through cfg.Workers worker goroutines and one collector
// goroutine that restores input order before calling sink. It returns the
// first error encountered by the reader, any worker, or the sink. All
// goroutines have exited by the time Run returns.
//
// Cancelling ctx has the same effect as a worker error: the reader stops
// refilling, workers finish their current record set and exit, and Run
// returns ctx.Err() (or the pipeline's own error, whichever was recorded
// first).
func Run[T RecordSet, R any](ctx context.Context, src Source[T], work Worker[T, R], sink Sink[T, R], cfg Config[T]) error {
	cfg = cfg.withDefaults()
	if cfg.NewRecordSet == nil {
		panic("pipeline: Config.NewRecordSet is required")
	}
	capacity := cfg.Workers + cfg.QueueDepth

	dispatchCh := make(chan dispatchItem[T], capacity)
	recycleCh := make(chan *T, capacity)
	resultCh := make(chan resultItem[T, R], capacity)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// Reader: the sole producer. It owns src exclusively and is never
	// touched by a worker.
	g.Go(func() error {
		defer close(dispatchCh)
		var seq uint64
		for {
			var rs *T
			select {
			case rs = <-recycleCh:
			default:
				rs = cfg.NewRecordSet()
			}
			ok, err := src.ReadRecordSet(rs)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			select {
			case dispatchCh <- dispatchItem[T]{seq: seq, rs: rs}:
				seq++
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	// Workers: N consumers/producers, each with its own opaque state,
	// pulling from the one dispatch channel and pushing tagged results to
	// the collector.
	for i := 0; i < cfg.Workers; i++ {
		g.Go(func() error {
			var state any
			if cfg.NewWorkerState != nil {
				state = cfg.NewWorkerState()
			}
			for {
				select {
				case item, open := <-dispatchCh:
					if !open {
						return nil
					}
					out, err := work(item.rs, state)
					if err != nil {
						return err
					}
					select {
					case resultCh <- resultItem[T, R]{seq: item.seq, rs: item.rs, result: out}:
					case <-ctx.Done():
						return ctx.Err()
					}
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}

	// Collector: the only goroutine that calls sink. It reorders results
	// by sequence number with a min-heap and a next-expected counter,
	// releasing a strict prefix at a time; anything after a gap caused by
	// a failed set simply never releases.
	collectorDone := make(chan error, 1)
	go func() {
		pending := &resultHeap[T, R]{}
		heap.Init(pending)
		var nextSeq uint64
		var sinkErr error

		release := func() {
			for pending.Len() > 0 && (*pending)[0].seq == nextSeq {
				item := heap.Pop(pending).(resultItem[T, R])
				if sinkErr == nil && sink != nil {
					sinkErr = sink(item.rs, item.result)
					if sinkErr != nil {
						cancel()
					}
				}
				item.rs.Reset()
				select {
				case recycleCh <- item.rs:
				default:
				}
				nextSeq++
			}
		}

		for res := range resultCh {
			heap.Push(pending, res)
			release()
		}
		collectorDone <- sinkErr
	}()

	err := g.Wait()
	close(resultCh)
	if sinkErr := <-collectorDone; sinkErr != nil && (err == nil || err == context.Canceled) {
		err = sinkErr
	}
	return err
}
