// Package diag probes SIP server connectivity and assembles diagnostic reports.
package diag

//go:generate errtrace -w .

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipreg/dns"
	"github.com/ghettovoice/sipreg/internal/errorutil"
	"github.com/ghettovoice/sipreg/log"
	"github.com/ghettovoice/sipreg/metrics"
	"github.com/ghettovoice/sipreg/transport"
	"github.com/ghettovoice/sipreg/uri"
)

// ErrInvalidURI is returned by [Prober.Diagnose] when no domain can be extracted from the SIP URI.
const ErrInvalidURI errorutil.Error = "Invalid SIP URI format"

const (
	recInvalidURI   = "Please provide a valid SIP URI (e.g., sip:user@domain.com)"
	recDNS          = "Check if the domain name is correct or if your DNS server is working properly."
	recTCPTimeout   = "The server might be down or a firewall might be blocking the connection."
	recTCPError     = "Check if the server is running and accessible from your network."
	recTCPBadTarget = "Check your network connection and server details."
	recTrace        = "The network path could not be traced, rely on the DNS and TCP results."
)

// Recommendation returns a human-readable recommendation for an error returned by [Prober.Diagnose].
// It returns empty string for unknown errors.
func Recommendation(err error) string {
	if errors.Is(err, ErrInvalidURI) {
		return recInvalidURI
	}
	return ""
}

// DefaultTCPTimeout is the default hard timeout of the TCP reachability stage.
const DefaultTCPTimeout = 5 * time.Second

// IPResolver resolves domains to IP addresses.
type IPResolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// ConnDialer dials connections to remote addresses.
type ConnDialer interface {
	DialConn(ctx context.Context, network string, raddr netip.AddrPort) (net.Conn, error)
}

// ConnDialerFunc is a [ConnDialer] implementation based on a function.
type ConnDialerFunc func(ctx context.Context, network string, raddr netip.AddrPort) (net.Conn, error)

func (f ConnDialerFunc) DialConn(ctx context.Context, network string, raddr netip.AddrPort) (net.Conn, error) {
	return errtrace.Wrap2(f(ctx, network, raddr))
}

// NetConnDialer is a connection dialer based on [net.Dialer].
type NetConnDialer struct {
	net.Dialer
}

// DialConn dials a connection to the specified remote address.
func (d *NetConnDialer) DialConn(ctx context.Context, network string, raddr netip.AddrPort) (net.Conn, error) {
	return errtrace.Wrap2(d.DialContext(ctx, network, raddr.String()))
}

var defConnDialer = &NetConnDialer{}

// DefaultConnDialer returns the default connection dialer.
func DefaultConnDialer() *NetConnDialer { return defConnDialer }

// ProberOptions contains prober options.
type ProberOptions struct {
	// Resolver is used in the DNS stage.
	// If nil, [dns.DefaultResolver] is used.
	Resolver IPResolver
	// Dialer is used in the TCP stage.
	// If nil, [DefaultConnDialer] is used.
	Dialer ConnDialer
	// Tracer is used in the traceroute stage.
	// If nil, [DefaultTracer] is used.
	Tracer Tracer
	// Services enables SIP service discovery (NAPTR/SRV) when set.
	Services dns.ServiceResolver
	// TCPTimeout is a hard timeout of the TCP stage.
	// If zero, [DefaultTCPTimeout] is used.
	TCPTimeout time.Duration
	// Log is a logger used to log diagnostic stages.
	// If nil, [log.Default] is used.
	Log *slog.Logger
	// Metrics collects stage durations and outcomes. Optional.
	Metrics *metrics.Metrics
}

func (o *ProberOptions) resolver() IPResolver {
	if o == nil || o.Resolver == nil {
		return dns.DefaultResolver()
	}
	return o.Resolver
}

func (o *ProberOptions) dialer() ConnDialer {
	if o == nil || o.Dialer == nil {
		return DefaultConnDialer()
	}
	return o.Dialer
}

func (o *ProberOptions) tracer() Tracer {
	if o == nil || o.Tracer == nil {
		return DefaultTracer()
	}
	return o.Tracer
}

func (o *ProberOptions) services() dns.ServiceResolver {
	if o == nil {
		return nil
	}
	return o.Services
}

func (o *ProberOptions) tcpTimeout() time.Duration {
	if o == nil || o.TCPTimeout <= 0 {
		return DefaultTCPTimeout
	}
	return o.TCPTimeout
}

func (o *ProberOptions) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Default()
	}
	return o.Log
}

func (o *ProberOptions) metrics() *metrics.Metrics {
	if o == nil {
		return nil
	}
	return o.Metrics
}

// Prober runs SIP connectivity diagnostics.
// Stages of one diagnostic run are strictly sequential.
// Prober is safe for concurrent use.
type Prober struct {
	resolver   IPResolver
	dialer     ConnDialer
	tracer     Tracer
	services   dns.ServiceResolver
	tcpTimeout time.Duration
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// NewProber creates a new prober.
// Options are optional, default options are used if nil.
func NewProber(opts *ProberOptions) *Prober {
	return &Prober{
		resolver:   opts.resolver(),
		dialer:     opts.dialer(),
		tracer:     opts.tracer(),
		services:   opts.services(),
		tcpTimeout: opts.tcpTimeout(),
		log:        opts.log(),
		metrics:    opts.metrics(),
	}
}

// CheckDNS resolves the domain and reports the first resolved address.
func (p *Prober) CheckDNS(ctx context.Context, domain string) *DNSResult {
	start := time.Now()
	res := p.checkDNS(ctx, domain)
	p.metrics.ObserveStage(metrics.StageDNS, res.Success, time.Since(start))
	p.log.LogAttrs(ctx, slog.LevelDebug, "DNS stage finished",
		slog.String("domain", domain),
		slog.Bool("success", res.Success),
		slog.Any("address", res.Address),
		slog.String("error", res.Error),
	)
	return res
}

func (p *Prober) checkDNS(ctx context.Context, domain string) *DNSResult {
	ips, err := p.resolver.LookupIP(ctx, "ip", domain)
	if err == nil && len(ips) == 0 {
		err = &net.DNSError{Err: "no such host", Name: domain, IsNotFound: true}
	}
	if err != nil {
		return &DNSResult{
			Error:          err.Error(),
			Recommendation: recDNS,
		}
	}

	addr, _ := netip.AddrFromSlice(ips[0])
	addr = addr.Unmap()
	return &DNSResult{
		Success: true,
		Address: addr,
		Message: fmt.Sprintf("Successfully resolved %s to %s", domain, addr),
	}
}

// TestTCP tries to open a TCP connection to the address and port within the prober TCP timeout.
// Exactly one outcome is reported: connected, timed out or failed.
// The connection is closed in all cases.
func (p *Prober) TestTCP(ctx context.Context, addr netip.Addr, port int) *TCPResult {
	start := time.Now()
	res := p.testTCP(ctx, addr, port)
	p.metrics.ObserveStage(metrics.StageTCP, res.Success, time.Since(start))
	p.log.LogAttrs(ctx, slog.LevelDebug, "TCP stage finished",
		slog.Any("address", addr),
		slog.Int("port", port),
		slog.Bool("success", res.Success),
		slog.String("error", res.Error),
	)
	return res
}

func (p *Prober) testTCP(ctx context.Context, addr netip.Addr, port int) *TCPResult {
	if !addr.IsValid() || port <= 0 || port > 0xFFFF {
		return &TCPResult{
			Error:          fmt.Sprintf("invalid target address %s:%d", addr, port),
			Recommendation: recTCPBadTarget,
		}
	}

	raddr := netip.AddrPortFrom(addr, uint16(port))

	ctx, cancel := context.WithTimeout(ctx, p.tcpTimeout)
	defer cancel()

	conn, err := p.dialer.DialConn(ctx, "tcp", raddr)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		if errorutil.IsTimeoutErr(err) {
			return &TCPResult{
				Error:          "Connection timed out",
				Recommendation: recTCPTimeout,
			}
		}
		return &TCPResult{
			Error:          err.Error(),
			Recommendation: recTCPError,
		}
	}
	conn.Close()

	return &TCPResult{
		Success: true,
		Message: "Successfully connected to " + raddr.String(),
	}
}

// RunTraceroute traces the network path to the host.
// The tracer output is captured verbatim.
func (p *Prober) RunTraceroute(ctx context.Context, host string) *TraceResult {
	start := time.Now()
	out, err := p.tracer.Trace(ctx, host)
	res := &TraceResult{Success: err == nil, Output: out}
	if err != nil {
		res.Error = err.Error()
		res.Recommendation = recTrace
	}
	p.metrics.ObserveStage(metrics.StageTraceroute, res.Success, time.Since(start))
	p.log.LogAttrs(ctx, slog.LevelDebug, "traceroute stage finished",
		slog.String("host", host),
		slog.Bool("success", res.Success),
		slog.String("error", res.Error),
	)
	return res
}

// DiscoverServices looks up SIP services advertised by the domain.
// It returns nil if service discovery is not configured.
func (p *Prober) DiscoverServices(ctx context.Context, domain string) ([]*dns.Service, error) {
	if p.services == nil {
		return nil, nil
	}

	start := time.Now()
	svcs, err := dns.LookupSIPServices(ctx, p.services, domain)
	p.metrics.ObserveStage(metrics.StageServices, err == nil, time.Since(start))
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return svcs, nil
}

// Diagnose runs the diagnostic pipeline against the SIP URI.
// If port is zero, the default SIP port 5060 is used.
//
// Connectivity failures are reported in the returned report, never as errors.
// If no domain can be extracted from the URI, Diagnose returns [ErrInvalidURI]
// and no stage runs.
func (p *Prober) Diagnose(ctx context.Context, sipURI string, port int) (*Report, error) {
	domain, ok := uri.ExtractDomain(sipURI)
	if !ok {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidURI, "no domain in %q", sipURI))
	}
	if port == 0 {
		port = transport.DefaultPort
	}

	rep := &Report{
		SIPURI:    sipURI,
		Domain:    domain,
		Port:      port,
		Timestamp: time.Now().UTC(),
	}

	rep.Tests.DNS = p.CheckDNS(ctx, domain)
	if rep.Tests.DNS.Success {
		rep.Tests.TCP = p.TestTCP(ctx, rep.Tests.DNS.Address, port)
		if !rep.Tests.TCP.Success {
			rep.Tests.Traceroute = p.RunTraceroute(ctx, domain)
		}

		svcs, err := p.DiscoverServices(ctx, domain)
		if err != nil {
			p.log.LogAttrs(ctx, slog.LevelDebug, "SIP service discovery failed",
				slog.String("domain", domain),
				slog.Any("error", err),
			)
		}
		rep.Services = svcs
	}

	rep.assess()
	p.metrics.ObserveDiagnostic(rep.OverallSuccess)

	lvl := slog.LevelDebug
	if !rep.OverallSuccess {
		lvl = slog.LevelWarn
	}
	p.log.LogAttrs(ctx, lvl, "SIP connectivity diagnostic finished", slog.Any("report", rep))
	return rep, nil
}
