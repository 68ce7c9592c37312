package kernel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/unprompted/internal/capture"
)

// DisplayDirEnv names the directory a shell cell can drop files into to have
// them displayed as rich outputs once the cell finishes.
const DisplayDirEnv = "UNPROMPTED_DISPLAY"

// ErrEmptyCell is returned for cells with no source.
var ErrEmptyCell = errors.New("empty cell")

// Runner executes the source of one cell. It writes through streams and may
// return a result value, which the kernel records as the cell's result.
type Runner interface {
	Run(ctx context.Context, cell Cell, streams *capture.Streams) (any, error)
}

// RunnerFunc adapts a plain function to Runner.
type RunnerFunc func(ctx context.Context, cell Cell, streams *capture.Streams) (any, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, cell Cell, streams *capture.Streams) (any, error) {
	return f(ctx, cell, streams)
}

// ShellRunner runs each cell as a shell script.
type ShellRunner struct {
	// Shell defaults to "sh".
	Shell string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is appended to the process environment.
	Env []string
}

// Run executes cell.Source with "<shell> -c". Files the script writes to
// $UNPROMPTED_DISPLAY are displayed in name order after it exits: images as
// images, anything else as text.
func (r ShellRunner) Run(ctx context.Context, cell Cell, streams *capture.Streams) (any, error) {
	if strings.TrimSpace(cell.Source) == "" {
		return nil, ErrEmptyCell
	}
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}

	displayDir, err := os.MkdirTemp("", "unprompted-display-")
	if err != nil {
		return nil, fmt.Errorf("creating display dir: %w", err)
	}
	defer os.RemoveAll(displayDir)

	cmd := exec.CommandContext(ctx, shell, "-c", cell.Source)
	cmd.Dir = r.Dir
	cmd.Env = append(append(os.Environ(), r.Env...), DisplayDirEnv+"="+displayDir)
	// os/exec copies each pipe in its own goroutine; both may land in the
	// same capture buffer.
	var mu sync.Mutex
	cmd.Stdout = &lockedWriter{mu: &mu, w: streams.Stdout}
	cmd.Stderr = &lockedWriter{mu: &mu, w: streams.Stderr}

	runErr := cmd.Run()
	if err := displayFiles(displayDir, streams.Display); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return nil, fmt.Errorf("cell %s: %w", cell.ID, runErr)
	}
	return nil, nil
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func displayFiles(dir string, display capture.DisplayFunc) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading display dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if display == nil {
			continue
		}
		var v any
		if mime := http.DetectContentType(data); strings.HasPrefix(mime, "image/") {
			v = capture.Image{MIME: mime, Data: data, Name: name}
		} else {
			v = string(data)
		}
		if err := display(v); err != nil {
			return fmt.Errorf("displaying %s: %w", name, err)
		}
	}
	return nil
}
