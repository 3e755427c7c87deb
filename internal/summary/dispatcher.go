package summary

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// LargeFileThreshold is the input size, in bytes, at which parsing moves off
// the caller's goroutine.
const LargeFileThreshold = 100_000

// parseRequest and parseResponse are the only message kinds exchanged with
// the background goroutine.
type parseRequest struct {
	Content   string
	RequestID uint64
}

type parseResponse struct {
	Result    Result
	RequestID uint64
}

// Dispatcher decides per request whether the caller should parse
// synchronously or wait for the background goroutine, owns the debounce
// timer, and drops responses superseded by a newer request. Each Dispatcher
// owns exactly one background goroutine, started lazily on the first large
// request and terminated by Close. It is not a process-wide singleton; every
// consumer creates its own.
type Dispatcher struct {
	logger *zap.Logger

	mu        sync.Mutex
	timer     *time.Timer
	nextID    uint64 // last issued request identifier
	parsing   bool
	result    *Result
	closed    bool
	started   bool
	onResult  func(Result)
	requests  chan parseRequest
	responses chan parseResponse
	done      chan struct{}
	workers   sync.WaitGroup

	// overridable in tests
	summarize func(string) Result
	debounce  func(size int) time.Duration
}

// NewDispatcher creates an idle dispatcher. The logger may not be nil;
// pass zap.NewNop() when logging is unwanted.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		logger:    logger,
		requests:  make(chan parseRequest, 1),
		responses: make(chan parseResponse, 1),
		done:      make(chan struct{}),
		summarize: Summarize,
		debounce:  debounceDelay,
	}
}

// OnResult registers a callback invoked (on the dispatcher's goroutine) each
// time a non-stale background result lands. Must be set before the first
// RequestParse.
func (d *Dispatcher) OnResult(fn func(Result)) {
	d.mu.Lock()
	d.onResult = fn
	d.mu.Unlock()
}

// debounceDelay tiers the debounce interval by input size: bigger buffers get
// a longer quiet period before a parse is dispatched.
func debounceDelay(size int) time.Duration {
	switch {
	case size > 10_000_000:
		return time.Second
	case size > 1_000_000:
		return 500 * time.Millisecond
	default:
		return 300 * time.Millisecond
	}
}

// RequestParse routes one parse request. It returns false when the content is
// small enough that the caller must parse synchronously via oplog; any stale
// background state is cleared so it cannot shadow the synchronous result.
// At or above LargeFileThreshold it returns true and schedules a background
// parse after the size-tiered debounce delay; each call cancels the previous
// pending timer, so rapid successive edits coalesce into one parse.
func (d *Dispatcher) RequestParse(content string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if len(content) < LargeFileThreshold {
		// Invalidate any in-flight background parse.
		d.nextID++
		d.parsing = false
		d.result = nil
		return false
	}

	d.parsing = true
	delay := d.debounce(len(content))
	d.timer = time.AfterFunc(delay, func() {
		d.dispatch(content)
	})
	return true
}

// dispatch runs after the debounce quiet period: it issues the next request
// identifier and hands the content to the background goroutine.
func (d *Dispatcher) dispatch(content string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.ensureStarted()
	d.nextID++
	req := parseRequest{Content: content, RequestID: d.nextID}
	d.mu.Unlock()

	d.logger.Debug("dispatching background parse",
		zap.Uint64("request_id", req.RequestID),
		zap.Int("size", len(req.Content)))

	select {
	case d.requests <- req:
	case <-d.done:
	}
}

// ensureStarted lazily spins up the worker and receiver goroutines.
// Callers hold d.mu.
func (d *Dispatcher) ensureStarted() {
	if d.started {
		return
	}
	d.started = true
	d.workers.Add(2)
	go d.runWorker()
	go d.runReceiver()
}

// runWorker parses requests sequentially and reports results back on the
// response channel. It never touches dispatcher state directly.
func (d *Dispatcher) runWorker() {
	defer d.workers.Done()
	for {
		select {
		case <-d.done:
			return
		case req := <-d.requests:
			res := d.summarize(req.Content)
			select {
			case d.responses <- parseResponse{Result: res, RequestID: req.RequestID}:
			case <-d.done:
				return
			}
		}
	}
}

// runReceiver applies responses, discarding any whose identifier is not the
// most recently issued one. Delivery order from the worker is FIFO, but the
// caller-visible guarantee is stronger: at most the latest request's result
// ever applies.
func (d *Dispatcher) runReceiver() {
	defer d.workers.Done()
	for {
		select {
		case <-d.done:
			return
		case resp := <-d.responses:
			d.apply(resp)
		}
	}
}

func (d *Dispatcher) apply(resp parseResponse) {
	d.mu.Lock()
	if d.closed || resp.RequestID != d.nextID {
		d.mu.Unlock()
		d.logger.Debug("dropping stale parse result",
			zap.Uint64("request_id", resp.RequestID))
		return
	}
	res := resp.Result
	d.result = &res
	d.parsing = false
	fn := d.onResult
	d.mu.Unlock()

	d.logger.Debug("background parse complete",
		zap.Uint64("request_id", resp.RequestID),
		zap.Int("total_ops", res.TotalOps),
		zap.Duration("parse_time", res.ParseTime))

	if fn != nil {
		fn(res)
	}
}

// Parsing reports whether a background parse is pending or in flight.
func (d *Dispatcher) Parsing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.parsing
}

// Result returns the latest applied background result, or nil when none is
// current (including after a small-input request cleared it).
func (d *Dispatcher) Result() *Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.result
}

// Close cancels any pending debounce timer and terminates the background
// goroutines. An in-progress parse finishes but its result is discarded.
// Safe to call more than once; the dispatcher is unusable afterwards.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	started := d.started
	close(d.done)
	d.mu.Unlock()

	if started {
		d.workers.Wait()
	}
}
