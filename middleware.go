package easysql

import (
	"context"
	"sync"
	"time"

	"github.com/ashenguard/easysql/adapter"
	"github.com/ashenguard/easysql/dialect"
	"github.com/ashenguard/easysql/sqlerr"
)

// StatementEvent describes one statement sent to the adapter.
type StatementEvent struct {
	SQL      string
	Args     []any
	Query    bool // false for Exec
	Start    time.Time
	End      time.Time
	Duration time.Duration
	Err      error
}

// Middleware intercepts statements. It must call next to run the statement.
type Middleware func(ctx context.Context, event *StatementEvent, next func() error) error

// hooked runs statements through the registered middlewares before
// handing them to the wrapped adapter.
type hooked struct {
	inner adapter.Adapter

	mu          sync.RWMutex
	middlewares []Middleware
}

func (h *hooked) use(m Middleware) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.middlewares = append(h.middlewares, m)
}

func (h *hooked) chain() []Middleware {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.middlewares
}

func (h *hooked) run(ctx context.Context, event *StatementEvent, exec func() error) error {
	middlewares := h.chain()
	event.Start = time.Now()

	var next func() error
	index := 0
	next = func() error {
		if index >= len(middlewares) {
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Err = err
			return err
		}
		m := middlewares[index]
		index++
		return m(ctx, event, next)
	}
	return next()
}

var errNoAdapter = sqlerr.State("no execution adapter")

func (h *hooked) Query(ctx context.Context, sql string, args ...any) ([]adapter.Row, error) {
	if h.inner == nil {
		return nil, errNoAdapter
	}
	var rows []adapter.Row
	err := h.run(ctx, &StatementEvent{SQL: sql, Args: args, Query: true}, func() error {
		var err error
		rows, err = h.inner.Query(ctx, sql, args...)
		return err
	})
	return rows, err
}

func (h *hooked) Exec(ctx context.Context, sql string, args ...any) (adapter.ExecResult, error) {
	if h.inner == nil {
		return adapter.ExecResult{}, errNoAdapter
	}
	var res adapter.ExecResult
	err := h.run(ctx, &StatementEvent{SQL: sql, Args: args}, func() error {
		var err error
		res, err = h.inner.Exec(ctx, sql, args...)
		return err
	})
	return res, err
}

func (h *hooked) Dialect() dialect.Dialect {
	if h.inner == nil {
		return dialect.MySQL
	}
	return h.inner.Dialect()
}

// LoggingMiddleware logs every statement with its duration.
func LoggingMiddleware(logger func(format string, args ...any)) Middleware {
	return func(ctx context.Context, event *StatementEvent, next func() error) error {
		err := next()
		if err != nil {
			logger("[easysql] %s %v failed after %v: %v", event.SQL, event.Args, event.Duration, err)
		} else {
			logger("[easysql] %s %v took %v", event.SQL, event.Args, event.Duration)
		}
		return err
	}
}

// TimingMiddleware reports the duration of every statement.
func TimingMiddleware(onTiming func(sql string, duration time.Duration)) Middleware {
	return func(ctx context.Context, event *StatementEvent, next func() error) error {
		err := next()
		onTiming(event.SQL, event.Duration)
		return err
	}
}
