package observer

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/unprompted/internal/capture"
	"github.com/dshills/unprompted/internal/kernel"
	"github.com/dshills/unprompted/internal/present"
	"go.uber.org/zap"
)

// DefaultTrustedPrefixes are the cell prefixes skipped when no others are
// configured.
var DefaultTrustedPrefixes = []string{"%bob", "%%bob"}

// State is the observer's position in a session.
type State int

const (
	// StateUninitialized means no cell has finished yet.
	StateUninitialized State = iota
	// StateGreeted means the banner was shown for the first cell.
	StateGreeted
	// StateReporting means at least one later cell has been handled.
	StateReporting
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateGreeted:
		return "greeted"
	case StateReporting:
		return "reporting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Critic reviews a cell's source and captured outputs.
type Critic interface {
	Critique(ctx context.Context, code string, items []capture.Item) (string, error)
}

// Renderer shows feedback blocks to the user.
type Renderer interface {
	Render(b present.Block) error
}

// Options configures an Observer.
type Options struct {
	// TrustedPrefixes suppress critique for cells starting with any of them.
	// Nil means DefaultTrustedPrefixes; an empty non-nil slice trusts nothing.
	TrustedPrefixes []string
	// Version is shown in the banner.
	Version string
	// Verbose logs every captured item before a critique is requested.
	Verbose bool
	Logger  *zap.Logger
}

// Observer implements kernel.Hooks.
type Observer struct {
	streams  *capture.Streams
	critic   Critic
	renderer Renderer
	opts     Options
	logger   *zap.Logger

	buf     capture.Buffer
	restore func()
	rawCell string
	state   State
}

var _ kernel.Hooks = (*Observer)(nil)

// New creates an Observer that intercepts streams.
func New(streams *capture.Streams, critic Critic, renderer Renderer, opts Options) *Observer {
	if opts.TrustedPrefixes == nil {
		opts.TrustedPrefixes = DefaultTrustedPrefixes
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Observer{
		streams:  streams,
		critic:   critic,
		renderer: renderer,
		opts:     opts,
		logger:   logger,
	}
}

// State returns the current session state.
func (o *Observer) State() State {
	return o.state
}

// Items returns what has been captured for the current cell.
func (o *Observer) Items() []capture.Item {
	return o.buf.Items()
}

// PreExecute clears the buffer and installs the interceptors.
func (o *Observer) PreExecute() {
	o.logger.Debug("pre_execute")
	if o.restore != nil {
		// A previous cell never reached PostExecute.
		o.restore()
	}
	o.buf.Reset()
	o.restore = o.streams.Intercept(&o.buf)
}

// PreRunCell records the cell's source.
func (o *Observer) PreRunCell(info kernel.CellInfo) {
	o.logger.Debug("pre_run_cell", zap.String("cell", info.CellID))
	o.rawCell = info.RawCell
}

// PostExecute restores the original streams and display function.
func (o *Observer) PostExecute() {
	o.logger.Debug("post_execute")
	if o.restore != nil {
		o.restore()
		o.restore = nil
	}
}

// PostRunCell adds the cell's result and errors to the buffer, then shows
// the banner (first cell) or requests and renders a critique. Critique
// errors are returned to the caller unchanged.
func (o *Observer) PostRunCell(ctx context.Context, res kernel.ExecutionResult) error {
	o.logger.Debug("post_run_cell", zap.Int("execution_count", res.ExecutionCount))

	if res.Result != nil {
		o.buf.Append(res.Result)
	}
	if res.ErrorBeforeExec != nil {
		o.buf.Append(res.ErrorBeforeExec)
	}
	if res.ErrorInExec != nil {
		o.buf.Append(res.ErrorInExec)
	}

	if o.state == StateUninitialized {
		o.state = StateGreeted
		return o.renderer.Render(present.Banner(o.opts.Version))
	}
	o.state = StateReporting

	if o.trusted(o.rawCell) {
		o.logger.Debug("skipping trusted cell", zap.String("cell", res.Info.CellID))
		return nil
	}

	items := o.buf.Items()
	if o.opts.Verbose {
		o.logger.Info("collected items", zap.Int("count", len(items)))
		for i, it := range items {
			o.logger.Info("item",
				zap.Int("index", i),
				zap.String("kind", string(it.Kind)),
				zap.String("value", it.String()))
		}
	}

	text, err := o.critic.Critique(ctx, o.rawCell, items)
	if err != nil {
		return err
	}
	return o.renderer.Render(present.Critique(text))
}

func (o *Observer) trusted(src string) bool {
	for _, p := range o.opts.TrustedPrefixes {
		if p != "" && strings.HasPrefix(src, p) {
			return true
		}
	}
	return false
}
