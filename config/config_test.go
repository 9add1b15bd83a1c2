package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/sipreg/config"
	"github.com/ghettovoice/sipreg/diag"
	"github.com/ghettovoice/sipreg/dns"
	"github.com/ghettovoice/sipreg/transport"
)

func writeFile(t *testing.T, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("os.WriteFile(%q) error = %v, want nil", path, err)
	}
	return path
}

func ptr[T any](v T) *T { return &v }

// protoCmp compares optional protocols without calling Proto.Equal through a nil pointer.
var protoCmp = cmp.Comparer(func(a, b *transport.Proto) bool {
	return (a == nil && b == nil) || (a != nil && b != nil && a.Equal(*b))
})

func TestDefault(t *testing.T) {
	t.Parallel()

	got, want := config.Default(), config.Default()
	if diff := cmp.Diff(got, want, protoCmp); diff != "" {
		t.Errorf("config.Default() = %+v, want %+v\ndiff (-got +want):\n%v", got, want, diff)
	}
	if got.Transport.Proto != nil {
		t.Errorf("config.Default().Transport.Proto = %v, want nil", *got.Transport.Proto)
	}
	if got.Registration.DefaultTransport != transport.ProtoUDP {
		t.Errorf("config.Default().Registration.DefaultTransport = %q, want %q",
			got.Registration.DefaultTransport, transport.ProtoUDP)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nope.yaml")
		got, err := config.Load(path)
		if err != nil {
			t.Fatalf("config.Load(%q) error = %v, want nil", path, err)
		}
		if diff := cmp.Diff(got, config.Default(), protoCmp); diff != "" {
			t.Errorf("config.Load(%q) = %+v, want %+v\ndiff (-got +want):\n%v", path, got, config.Default(), diff)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, `
log:
  level: debug
  format: json
transport:
  protocol: TLS
  max_connections: 0
diagnostics:
  port: 5080
  tcp_timeout: 2s
  name_server: 9.9.9.9
  discover_services: true
registration:
  timeout: 45s
  default_transport: tcp
`)
		got, err := config.Load(path)
		if err != nil {
			t.Fatalf("config.Load(%q) error = %v, want nil", path, err)
		}

		want := config.Default()
		want.Log = config.Log{Level: "debug", Format: "json"}
		want.Transport = transport.ConfigOverrides{
			Proto:          ptr(transport.Proto("TLS")),
			MaxConnections: ptr(0),
		}
		want.Diagnostics.Port = 5080
		want.Diagnostics.TCPTimeout = 2 * time.Second
		want.Diagnostics.NameServer = "9.9.9.9"
		want.Diagnostics.DiscoverServices = true
		want.Registration = config.Registration{Timeout: 45 * time.Second, DefaultTransport: transport.ProtoTCP}
		if diff := cmp.Diff(got, want, protoCmp); diff != "" {
			t.Errorf("config.Load(%q) = %+v, want %+v\ndiff (-got +want):\n%v", path, got, want, diff)
		}

		wantTp := transport.Config{Proto: transport.ProtoTLS, Port: 5061, MaxConnections: 0}
		if diff := cmp.Diff(got.TransportConfig(), wantTp); diff != "" {
			t.Errorf("cfg.TransportConfig() = %+v, want %+v\ndiff (-got +want):\n%v", got.TransportConfig(), wantTp, diff)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "log: [")
		if _, err := config.Load(path); !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("config.Load(%q) error = %v, want %v", path, err, config.ErrInvalidConfig)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, `
log:
  level: loud
transport:
  protocol: sctp
diagnostics:
  port: 70000
registration:
  timeout: -1s
`)
		_, err := config.Load(path)
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Fatalf("config.Load(%q) error = %v, want %v", path, err, config.ErrInvalidConfig)
		}
		for _, frag := range []string{
			`unknown log level "loud"`,
			`transport: unknown protocol "sctp"`,
			"diagnostics: port 70000 out of range",
			"registration: negative timeout -1s",
		} {
			if !strings.Contains(err.Error(), frag) {
				t.Errorf("config.Load(%q) error = %q, want to contain %q", path, err, frag)
			}
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := config.Default().Validate(); err != nil {
		t.Errorf("config.Default().Validate() = %v, want nil", err)
	}

	cfg := config.Default()
	cfg.Registration.DefaultTransport = "ws"
	if err := cfg.Validate(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("cfg.Validate() = %v, want %v", err, config.ErrInvalidConfig)
	}
}

func TestConfig_ProberOptions(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Diagnostics.NameServer = "1.1.1.1:53"
	cfg.Diagnostics.TraceMaxHops = 5

	opts := cfg.ProberOptions(nil, nil)
	res, ok := opts.Resolver.(*dns.Resolver)
	if !ok {
		t.Fatalf("opts.Resolver = %T, want *dns.Resolver", opts.Resolver)
	}
	if res.NameServer != "1.1.1.1:53" || res.Timeout != 5*time.Second {
		t.Errorf("resolver = {NameServer: %q, Timeout: %v}, want {1.1.1.1:53, 5s}", res.NameServer, res.Timeout)
	}
	if tr, ok := opts.Tracer.(*diag.CommandTracer); !ok || tr.MaxHops != 5 {
		t.Errorf("opts.Tracer = %+v, want *diag.CommandTracer with MaxHops 5", opts.Tracer)
	}
	if opts.Services != nil {
		t.Errorf("opts.Services = %v, want nil", opts.Services)
	}

	cfg.Diagnostics.DiscoverServices = true
	if opts := cfg.ProberOptions(nil, nil); opts.Services == nil {
		t.Error("opts.Services = nil, want resolver")
	}
}

func TestConfig_OrchestratorOptions(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Diagnostics.Port = 5080
	cfg.Registration.Timeout = 45 * time.Second
	cfg.Registration.DefaultTransport = transport.ProtoTLS

	opts := cfg.OrchestratorOptions(nil, nil)
	if _, ok := opts.Diagnoser.(*diag.Prober); !ok {
		t.Errorf("opts.Diagnoser = %T, want *diag.Prober", opts.Diagnoser)
	}
	if opts.Timeout != 45*time.Second {
		t.Errorf("opts.Timeout = %v, want 45s", opts.Timeout)
	}
	if opts.DiagnosticPort != 5080 {
		t.Errorf("opts.DiagnosticPort = %d, want 5080", opts.DiagnosticPort)
	}
	if opts.DefaultTransport != transport.ProtoTLS {
		t.Errorf("opts.DefaultTransport = %q, want %q", opts.DefaultTransport, transport.ProtoTLS)
	}
}
