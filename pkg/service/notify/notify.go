package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/utils/logging"
)

// Logger writes notifications to the context logger
type Logger struct{}

// Notify implements interfaces.Notifier
func (Logger) Notify(ctx context.Context, n model.Notification) {
	logger := logging.From(ctx)
	if n.Level == types.NotificationError {
		logger.Warn("notification", "level", n.Level, "message", n.Message)
		return
	}
	logger.Info("notification", "level", n.Level, "message", n.Message)
}

// Console prints notifications as colored lines, green for success, blue for info and red for errors
type Console struct {
	w     io.Writer
	mu    sync.Mutex
	marks map[types.NotificationLevel]*color.Color
}

// ConsoleOption configures a Console
type ConsoleOption func(*Console)

// WithoutColor disables ANSI colors
func WithoutColor() ConsoleOption {
	return func(c *Console) {
		for _, m := range c.marks {
			m.DisableColor()
		}
	}
}

// NewConsole creates a Console writing to w
func NewConsole(w io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		w: w,
		marks: map[types.NotificationLevel]*color.Color{
			types.NotificationSuccess: color.New(color.FgGreen, color.Bold),
			types.NotificationInfo:    color.New(color.FgBlue, color.Bold),
			types.NotificationError:   color.New(color.FgRed, color.Bold),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify implements interfaces.Notifier
func (c *Console) Notify(ctx context.Context, n model.Notification) {
	mark, ok := c.marks[n.Level]
	if !ok {
		mark = color.New(color.Reset)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "%s %s\n", mark.Sprintf("[%s]", n.Level), n.Message); err != nil {
		logging.From(ctx).Warn("failed to print notification", "error", err)
	}
}

// DefaultRecorderSize is the number of notifications a Recorder keeps by default
const DefaultRecorderSize = 50

// Recorder keeps the most recent notifications in memory
type Recorder struct {
	mu   sync.RWMutex
	buf  []model.Notification
	next int
	full bool
}

// NewRecorder creates a Recorder holding up to size notifications
func NewRecorder(size int) *Recorder {
	if size <= 0 {
		size = DefaultRecorderSize
	}
	return &Recorder{buf: make([]model.Notification, size)}
}

// Notify implements interfaces.Notifier
func (r *Recorder) Notify(_ context.Context, n model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = n
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

// List returns the recorded notifications, newest first
func (r *Recorder) List() []model.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := r.next
	if r.full {
		count = len(r.buf)
	}

	out := make([]model.Notification, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, r.buf[(r.next-i+len(r.buf))%len(r.buf)])
	}
	return out
}

type multi []interfaces.Notifier

// Multi fans a notification out to every notifier in order. Nil notifiers are skipped.
func Multi(notifiers ...interfaces.Notifier) interfaces.Notifier {
	var m multi
	for _, n := range notifiers {
		if n != nil {
			m = append(m, n)
		}
	}
	return m
}

func (m multi) Notify(ctx context.Context, n model.Notification) {
	for _, sink := range m {
		sink.Notify(ctx, n)
	}
}
