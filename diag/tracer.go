package diag

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"strconv"

	"braces.dev/errtrace"
)

// Tracer traces the network path to a host.
// On failure the returned output holds whatever diagnostic text the tracer produced.
type Tracer interface {
	Trace(ctx context.Context, host string) (string, error)
}

// TracerFunc is a [Tracer] implementation based on a function.
type TracerFunc func(ctx context.Context, host string) (string, error)

func (f TracerFunc) Trace(ctx context.Context, host string) (string, error) {
	return errtrace.Wrap2(f(ctx, host))
}

// DefaultMaxHops is the default hop limit of [CommandTracer].
const DefaultMaxHops = 15

// CommandTracer runs the operating system trace utility:
// "traceroute -m <hops> <host>" or "tracert <host>" on Windows.
// The run is bounded by the utility's own timeouts and ctx.
type CommandTracer struct {
	// Command overrides the trace utility name or path.
	Command string
	// MaxHops limits the trace length. Ignored on Windows.
	// If zero, [DefaultMaxHops] is used.
	MaxHops int
}

func (t *CommandTracer) command(host string) (string, []string) {
	if runtime.GOOS == "windows" {
		name := "tracert"
		if t.Command != "" {
			name = t.Command
		}
		return name, []string{host}
	}

	name := "traceroute"
	if t.Command != "" {
		name = t.Command
	}
	hops := t.MaxHops
	if hops <= 0 {
		hops = DefaultMaxHops
	}
	return name, []string{"-m", strconv.Itoa(hops), host}
}

// Trace runs the trace utility and returns its standard output.
// If the utility fails, the output is its standard error, or standard output when stderr is empty.
func (t *CommandTracer) Trace(ctx context.Context, host string) (string, error) {
	name, args := t.command(host)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return stderr.String(), errtrace.Wrap(err)
		}
		return stdout.String(), errtrace.Wrap(err)
	}
	return stdout.String(), nil
}

var defTracer = &CommandTracer{}

// DefaultTracer returns the default trace utility runner.
func DefaultTracer() *CommandTracer { return defTracer }
