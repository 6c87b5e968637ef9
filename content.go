package cove

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Default content fetch timeouts.
const (
	InitialTimeout = 10 * time.Second // first message that creates a card
	NoteTimeout    = 30 * time.Second // follow-up note on an existing card
)

// Notices appended to a card when its content fetch fails.
const (
	TimeoutNotice = "\n\nTimeout: the request took too long to respond"
	noticePrefix  = "\n\nError: "
)

// ContentRequest is what the engine sends to the content service.
type ContentRequest struct {
	CardID   string
	ChatID   string
	UserName string
	Text     string
	Category string
	// Note is true for a follow-up on an existing card.
	Note bool
}

// ContentResponse is a successful content service answer.
type ContentResponse struct {
	Content string
	Rich    *RichContent
}

// ContentService produces card content for a user message. Implementations
// must honor ctx cancellation.
type ContentService interface {
	Submit(ctx context.Context, req ContentRequest) (ContentResponse, error)
}

// ContentServiceFunc adapts a function to ContentService.
type ContentServiceFunc func(ctx context.Context, req ContentRequest) (ContentResponse, error)

// Submit calls f.
func (f ContentServiceFunc) Submit(ctx context.Context, req ContentRequest) (ContentResponse, error) {
	return f(ctx, req)
}

// StatusError reports a non-success response from the content service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("content service returned status %d", e.Code)
}

// failureNotice returns the text appended to a card for a failed fetch.
func failureNotice(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutNotice
	}
	var se *StatusError
	if errors.As(err, &se) {
		return noticePrefix + se.Error()
	}
	return noticePrefix + err.Error()
}

// contentResult is a finished fetch waiting to be applied on the event path.
type contentResult struct {
	req  ContentRequest
	resp ContentResponse
	err  error
}

// contentTask groups the in-flight fetches of one card under a context that
// is cancelled when the card is removed.
type contentTask struct {
	ctx      context.Context
	cancel   context.CancelFunc
	inflight int
}

// contentTasks runs fetches in background goroutines. Goroutines never touch
// the store: they hand results to the owning Session through the results
// channel, which the Session drains from Update.
type contentTasks struct {
	svc            ContentService
	logger         *log.Logger
	initialTimeout time.Duration
	noteTimeout    time.Duration

	base    context.Context
	stop    context.CancelFunc
	results chan contentResult
	tasks   map[string]*contentTask
	wg      sync.WaitGroup
}

const resultBuffer = 64

func newContentTasks(svc ContentService, logger *log.Logger, initial, note time.Duration) *contentTasks {
	if initial <= 0 {
		initial = InitialTimeout
	}
	if note <= 0 {
		note = NoteTimeout
	}
	base, stop := context.WithCancel(context.Background())
	return &contentTasks{
		svc:            svc,
		logger:         logger,
		initialTimeout: initial,
		noteTimeout:    note,
		base:           base,
		stop:           stop,
		results:        make(chan contentResult, resultBuffer),
		tasks:          make(map[string]*contentTask),
	}
}

// start launches a fetch for req.CardID. It does not block.
func (ct *contentTasks) start(req ContentRequest) {
	task, ok := ct.tasks[req.CardID]
	if !ok {
		ctx, cancel := context.WithCancel(ct.base)
		task = &contentTask{ctx: ctx, cancel: cancel}
		ct.tasks[req.CardID] = task
	}
	task.inflight++

	timeout := ct.initialTimeout
	if req.Note {
		timeout = ct.noteTimeout
	}

	ct.logger.Debug("content fetch started", "card", req.CardID, "note", req.Note, "timeout", timeout)

	ct.wg.Add(1)
	go func(ctx context.Context) {
		defer ct.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		resp, err := ct.svc.Submit(ctx, req)
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = errors.Join(err, ctxErr)
		}
		select {
		case ct.results <- contentResult{req: req, resp: resp, err: err}:
		case <-ct.base.Done():
		}
	}(task.ctx)
}

// finish records that one fetch of cardID completed and reports whether the
// card still has fetches in flight.
func (ct *contentTasks) finish(cardID string) bool {
	task, ok := ct.tasks[cardID]
	if !ok {
		return false
	}
	task.inflight--
	if task.inflight > 0 {
		return true
	}
	task.cancel()
	delete(ct.tasks, cardID)
	return false
}

// cancel aborts every fetch of cardID. It is only called on card removal.
func (ct *contentTasks) cancel(cardID string) {
	task, ok := ct.tasks[cardID]
	if !ok {
		return
	}
	task.cancel()
	delete(ct.tasks, cardID)
	ct.logger.Debug("content fetch cancelled", "card", cardID)
}

// pending returns the number of cards with fetches in flight.
func (ct *contentTasks) pending() int { return len(ct.tasks) }

// drain returns every finished result without blocking.
func (ct *contentTasks) drain(buf []contentResult) []contentResult {
	for {
		select {
		case r := <-ct.results:
			buf = append(buf, r)
		default:
			return buf
		}
	}
}

// wait blocks until every fetch goroutine has finished and returns their
// results. Results are received while waiting so a full channel never
// stalls a sender.
func (ct *contentTasks) wait(buf []contentResult) []contentResult {
	done := make(chan struct{})
	go func() {
		ct.wg.Wait()
		close(done)
	}()
	for {
		select {
		case r := <-ct.results:
			buf = append(buf, r)
		case <-done:
			return ct.drain(buf)
		}
	}
}

// close cancels all fetches and waits for their goroutines.
func (ct *contentTasks) close() {
	ct.stop()
	ct.wg.Wait()
	ct.tasks = make(map[string]*contentTask)
}
