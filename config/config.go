// Package config loads the sipreg YAML configuration file.
package config

//go:generate errtrace -w .

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/sipreg/diag"
	"github.com/ghettovoice/sipreg/dns"
	"github.com/ghettovoice/sipreg/internal/errorutil"
	"github.com/ghettovoice/sipreg/log"
	"github.com/ghettovoice/sipreg/metrics"
	"github.com/ghettovoice/sipreg/registration"
	"github.com/ghettovoice/sipreg/transport"
)

// ErrInvalidConfig is returned by [Config.Validate] and [Load] for malformed configuration.
const ErrInvalidConfig errorutil.Error = "invalid config"

// Config is the sipreg configuration.
type Config struct {
	Log          Log                       `yaml:"log"`
	Transport    transport.ConfigOverrides `yaml:"transport"`
	Diagnostics  Diagnostics               `yaml:"diagnostics"`
	Registration Registration              `yaml:"registration"`
}

// Log configures the process logger.
type Log struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is one of console, dev, text or json.
	Format string `yaml:"format"`
}

// Diagnostics configures the connectivity prober.
type Diagnostics struct {
	Port         int           `yaml:"port"`
	TCPTimeout   time.Duration `yaml:"tcp_timeout"`
	TraceMaxHops int           `yaml:"trace_max_hops"`
	// NameServer is the "host[:port]" of the DNS server used for NAPTR queries.
	// Empty means the system resolver configuration.
	NameServer       string        `yaml:"name_server,omitempty"`
	DNSTimeout       time.Duration `yaml:"dns_timeout"`
	DiscoverServices bool          `yaml:"discover_services"`
}

// Registration configures the registration orchestrator.
type Registration struct {
	Timeout          time.Duration   `yaml:"timeout"`
	DefaultTransport transport.Proto `yaml:"default_transport"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log: Log{
			Level:  "info",
			Format: string(log.FormatConsole),
		},
		Diagnostics: Diagnostics{
			Port:         transport.DefaultPort,
			TCPTimeout:   diag.DefaultTCPTimeout,
			TraceMaxHops: diag.DefaultMaxHops,
			DNSTimeout:   5 * time.Second,
		},
		Registration: Registration{
			Timeout:          registration.DefaultTimeout,
			DefaultTransport: transport.ProtoUDP,
		},
	}
}

// DefaultPath returns the default config file path: <user config dir>/sipreg/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "sipreg.yaml")
	}
	return filepath.Join(dir, "sipreg", "config.yaml")
}

// Load reads the configuration from the YAML file at path on top of [Default].
// A missing file is not an error, the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, errtrace.Wrap(err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidConfig, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return cfg, nil
}

// Validate reports all problems of the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, errorutil.NewWrapperError(ErrInvalidConfig, err))
	}
	if _, err := log.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, errorutil.NewWrapperError(ErrInvalidConfig, err))
	}

	if p := c.Transport.Proto; p != nil && !p.IsKnown() {
		errs = append(errs, invalid("transport: unknown protocol %q", *p))
	}
	if p := c.Transport.Port; p != nil && (*p < 0 || *p > 65535) {
		errs = append(errs, invalid("transport: port %d out of range", *p))
	}
	if n := c.Transport.MaxConnections; n != nil && *n < 0 {
		errs = append(errs, invalid("transport: negative max_connections %d", *n))
	}

	d := c.Diagnostics
	if d.Port < 0 || d.Port > 65535 {
		errs = append(errs, invalid("diagnostics: port %d out of range", d.Port))
	}
	if d.TCPTimeout < 0 {
		errs = append(errs, invalid("diagnostics: negative tcp_timeout %s", d.TCPTimeout))
	}
	if d.DNSTimeout < 0 {
		errs = append(errs, invalid("diagnostics: negative dns_timeout %s", d.DNSTimeout))
	}
	if d.TraceMaxHops < 0 || d.TraceMaxHops > 255 {
		errs = append(errs, invalid("diagnostics: trace_max_hops %d out of range", d.TraceMaxHops))
	}

	r := c.Registration
	if r.Timeout < 0 {
		errs = append(errs, invalid("registration: negative timeout %s", r.Timeout))
	}
	if r.DefaultTransport != "" && !r.DefaultTransport.IsKnown() {
		errs = append(errs, invalid("registration: unknown default_transport %q", r.DefaultTransport))
	}

	return errtrace.Wrap(errorutil.JoinPrefix("config validation failed:", errs...))
}

func invalid(format string, args ...any) error {
	return errorutil.NewWrapperError(ErrInvalidConfig, append([]any{format}, args...)...) //errtrace:skip
}

// Logger builds the logger described by the log section.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	f, err := log.ParseFormat(c.Log.Format)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return log.New(w, lvl, f), nil
}

// TransportConfig resolves the transport section into a transport configuration.
func (c *Config) TransportConfig() transport.Config {
	return transport.NewConfig(&c.Transport)
}

// ProberOptions builds prober options from the diagnostics section.
func (c *Config) ProberOptions(logger *slog.Logger, m *metrics.Metrics) *diag.ProberOptions {
	d := c.Diagnostics
	res := &dns.Resolver{
		NameServer: d.NameServer,
		Timeout:    d.DNSTimeout,
	}
	opts := &diag.ProberOptions{
		Resolver:   res,
		Tracer:     &diag.CommandTracer{MaxHops: d.TraceMaxHops},
		TCPTimeout: d.TCPTimeout,
		Log:        logger,
		Metrics:    m,
	}
	if d.DiscoverServices {
		opts.Services = res
	}
	return opts
}

// OrchestratorOptions builds orchestrator options from the diagnostics and registration sections.
func (c *Config) OrchestratorOptions(logger *slog.Logger, m *metrics.Metrics) *registration.Options {
	return &registration.Options{
		Diagnoser:        diag.NewProber(c.ProberOptions(logger, m)),
		Timeout:          c.Registration.Timeout,
		DiagnosticPort:   c.Diagnostics.Port,
		DefaultTransport: c.Registration.DefaultTransport,
		Log:              logger,
		Metrics:          m,
	}
}
