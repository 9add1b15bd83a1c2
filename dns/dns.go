// Package dns resolves SIP server addresses and advertised SIP services.
package dns

//go:generate errtrace -w .

import (
	"cmp"
	"context"
	"net"
	"slices"
	"time"

	"braces.dev/errtrace"
	"github.com/miekg/dns"

	"github.com/ghettovoice/sipreg/internal/errorutil"
)

// DefaultTimeout bounds a single DNS exchange.
const DefaultTimeout = 5 * time.Second

const defaultConfigPath = "/etc/resolv.conf"

// Resolver looks up the records needed to reach a SIP server.
// The zero value uses the system resolver configuration.
type Resolver struct {
	// NameServer is the "host[:port]" of the DNS server to query.
	// It applies to all lookups. If empty, the system configuration is used.
	NameServer string
	// Timeout bounds a single DNS exchange.
	// If zero, [DefaultTimeout] is used.
	Timeout time.Duration
	// ConfigPath is the resolv.conf path read for NAPTR queries when NameServer is empty.
	// If empty, "/etc/resolv.conf" is used.
	ConfigPath string
}

func (r *Resolver) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultTimeout
}

func (r *Resolver) nameServer() string {
	if _, _, err := net.SplitHostPort(r.NameServer); err != nil {
		return net.JoinHostPort(r.NameServer, "53")
	}
	return r.NameServer
}

// std returns the standard library resolver pinned to NameServer, if any.
func (r *Resolver) std() *net.Resolver {
	if r.NameServer == "" {
		return net.DefaultResolver
	}
	ns := r.nameServer()
	return &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
			d := net.Dialer{Timeout: r.timeout()}
			return errtrace.Wrap2(d.DialContext(ctx, network, ns))
		},
	}
}

// servers returns the name servers to try in order.
func (r *Resolver) servers() ([]string, error) {
	if r.NameServer != "" {
		return []string{r.nameServer()}, nil
	}

	path := r.ConfigPath
	if path == "" {
		path = defaultConfigPath
	}
	conf, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if len(conf.Servers) == 0 {
		return nil, errtrace.Wrap(&net.DNSError{Err: "no DNS servers configured", Name: path})
	}

	addrs := make([]string, len(conf.Servers))
	for i, s := range conf.Servers {
		addrs[i] = net.JoinHostPort(s, conf.Port)
	}
	return addrs, nil
}

// exchange sends the query to the configured servers until one answers.
// Truncated UDP answers are retried over TCP.
func (r *Resolver) exchange(ctx context.Context, host string, qtype uint16) (*dns.Msg, error) {
	servers, err := r.servers()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	q := new(dns.Msg)
	q.SetQuestion(dns.Fqdn(host), qtype)
	q.RecursionDesired = true

	var lastErr error
	for _, srv := range servers {
		c := &dns.Client{Timeout: r.timeout()}
		res, _, err := c.ExchangeContext(ctx, q, srv)
		if err == nil && res.Truncated {
			c.Net = "tcp"
			res, _, err = c.ExchangeContext(ctx, q, srv)
		}
		if err != nil {
			lastErr = &net.DNSError{
				Err:       err.Error(),
				Name:      host,
				Server:    srv,
				IsTimeout: errorutil.IsTimeoutErr(err),
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if res.Rcode != dns.RcodeSuccess {
			return nil, errtrace.Wrap(&net.DNSError{
				Err:        dns.RcodeToString[res.Rcode],
				Name:       host,
				Server:     srv,
				IsNotFound: res.Rcode == dns.RcodeNameError,
			})
		}
		return res, nil
	}
	return nil, errtrace.Wrap(lastErr)
}

// LookupIP returns the addresses of host.
// IPv4 addresses are returned in their 4-byte form.
func (r *Resolver) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	ips, err := r.std().LookupIP(ctx, network, host)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	for i := range ips {
		if v4 := ips[i].To4(); v4 != nil {
			ips[i] = v4
		}
	}
	return ips, nil
}

type SRV = net.SRV

// LookupSRV returns the SRV records of _service._proto.host.
// If service and proto are empty, host is queried directly.
func (r *Resolver) LookupSRV(ctx context.Context, service, proto, host string) ([]*SRV, error) {
	_, srvs, err := r.std().LookupSRV(ctx, service, proto, host)
	return srvs, errtrace.Wrap(err)
}

// NAPTR is a naming authority pointer record (RFC 3403).
type NAPTR struct {
	Order      uint16
	Preference uint16
	// Flags is "s" when Replacement names an SRV record.
	Flags string
	// Service is the resolution service, for SIP one of
	// "SIP+D2U", "SIP+D2T" or "SIPS+D2T".
	Service     string
	Regexp      string
	Replacement string
}

// LookupNAPTR returns the NAPTR records of host in processing order:
// by Order, then by Preference.
func (r *Resolver) LookupNAPTR(ctx context.Context, host string) ([]*NAPTR, error) {
	res, err := r.exchange(ctx, host, dns.TypeNAPTR)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	var recs []*NAPTR
	for _, rr := range res.Answer {
		n, ok := rr.(*dns.NAPTR)
		if !ok {
			continue
		}
		recs = append(recs, &NAPTR{
			Order:       n.Order,
			Preference:  n.Preference,
			Flags:       n.Flags,
			Service:     n.Service,
			Regexp:      n.Regexp,
			Replacement: n.Replacement,
		})
	}
	slices.SortStableFunc(recs, func(a, b *NAPTR) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), cmp.Compare(a.Preference, b.Preference))
	})
	return recs, nil
}

var defResolver = &Resolver{}

// DefaultResolver returns the resolver backed by the system configuration.
func DefaultResolver() *Resolver { return defResolver }
