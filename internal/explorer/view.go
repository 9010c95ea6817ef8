package explorer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// FailureMessage is shown to the user whenever an exploration fails.
const FailureMessage = "Failed to explore phrase. Please try again."

var ErrBusy = errors.New("exploration already in progress")

type explorerClient interface {
	Explore(ctx context.Context, phrase string) (ExplorationResult, error)
}

// Notifier shows transient messages to the user.
type Notifier interface {
	Notify(msg string)
}

type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) {
	f(msg)
}

// View is the explore screen state: the current query, whether a request is
// in flight and the last successful result.
type View struct {
	client   explorerClient
	notifier Notifier

	mu      sync.Mutex
	query   string
	loading bool
	result  *ExplorationResult
}

func NewView(client explorerClient, notifier Notifier) *View {
	if client == nil {
		panic("explorer client is required")
	}
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}

	return &View{
		client:   client,
		notifier: notifier,
	}
}

func (v *View) SetQuery(q string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = q
}

func (v *View) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Result returns the last successful result or nil.
func (v *View) Result() *ExplorationResult {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.result == nil {
		return nil
	}
	res := *v.result
	return &res
}

// Submit explores the current query. Blank queries are ignored. While a
// request is in flight further calls return ErrBusy. On failure the user is
// notified and the previous result is kept.
func (v *View) Submit(ctx context.Context) error {
	v.mu.Lock()
	if strings.TrimSpace(v.query) == "" {
		v.mu.Unlock()
		return nil
	}
	if v.loading {
		v.mu.Unlock()
		return ErrBusy
	}
	v.loading = true
	query := v.query
	v.mu.Unlock()

	res, err := v.client.Explore(ctx, query)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false

	if err != nil {
		slog.Error("explore phrase failed", "phrase", query, "error", err)
		v.notifier.Notify(FailureMessage)
		return err
	}

	v.result = &res
	return nil
}
