package dns

import (
	"context"
	"slices"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipreg/internal/errorutil"
	"github.com/ghettovoice/sipreg/transport"
)

// ServiceResolver looks up the records used for SIP server discovery (RFC 3263).
type ServiceResolver interface {
	LookupSRV(ctx context.Context, service, proto, host string) ([]*SRV, error)
	LookupNAPTR(ctx context.Context, host string) ([]*NAPTR, error)
}

// Service is a SIP service advertised by a domain.
type Service struct {
	Proto    transport.Proto `json:"protocol"`
	Target   string          `json:"target"`
	Port     uint16          `json:"port"`
	Priority uint16          `json:"priority"`
	Weight   uint16          `json:"weight"`
}

var naptrServices = map[string]transport.Proto{
	"SIP+D2U":  transport.ProtoUDP,
	"SIP+D2T":  transport.ProtoTCP,
	"SIPS+D2T": transport.ProtoTLS,
}

var srvProtos = []transport.Proto{transport.ProtoUDP, transport.ProtoTCP, transport.ProtoTLS}

// srvName returns the SRV service and proto labels of the transport,
// e.g. "sips" and "tcp" for TLS.
func srvName(tp transport.Proto) (service, proto string) {
	service, proto = "sip", "udp"
	if tp.Secure() {
		service = "sips"
	}
	if tp.Reliable() {
		proto = "tcp"
	}
	return service, proto
}

// LookupSIPServices discovers SIP services of the domain.
// NAPTR records are followed first; if they yield nothing, the well-known
// _sip._udp, _sip._tcp and _sips._tcp SRV records are queried.
// "Not found" answers are not errors. An error is returned only if no service was found
// and at least one lookup failed for another reason.
func LookupSIPServices(ctx context.Context, r ServiceResolver, domain string) ([]*Service, error) {
	var (
		svcs []*Service
		errs []error
	)

	naptrs, err := r.LookupNAPTR(ctx, domain)
	if err != nil && !errorutil.IsNotFoundErr(err) {
		errs = append(errs, err)
	}
	for _, rec := range naptrs {
		tp, ok := naptrServices[strings.ToUpper(rec.Service)]
		if !ok || !strings.EqualFold(rec.Flags, "s") || rec.Replacement == "" {
			continue
		}
		if slices.ContainsFunc(svcs, func(s *Service) bool { return s.Proto == tp }) {
			continue
		}

		srvs, err := r.LookupSRV(ctx, "", "", rec.Replacement)
		if err != nil {
			if !errorutil.IsNotFoundErr(err) {
				errs = append(errs, err)
			}
			continue
		}
		svcs = appendServices(svcs, tp, srvs)
	}

	if len(svcs) == 0 {
		for _, tp := range srvProtos {
			service, proto := srvName(tp)
			srvs, err := r.LookupSRV(ctx, service, proto, domain)
			if err != nil {
				if !errorutil.IsNotFoundErr(err) {
					errs = append(errs, err)
				}
				continue
			}
			svcs = appendServices(svcs, tp, srvs)
		}
	}

	if len(svcs) == 0 && len(errs) > 0 {
		return nil, errtrace.Wrap(errorutil.JoinPrefix("SIP service discovery for "+domain+" failed", errs...))
	}
	return svcs, nil
}

func appendServices(svcs []*Service, tp transport.Proto, srvs []*SRV) []*Service {
	for _, srv := range srvs {
		svcs = append(svcs, &Service{
			Proto:    tp,
			Target:   strings.TrimSuffix(srv.Target, "."),
			Port:     srv.Port,
			Priority: srv.Priority,
			Weight:   srv.Weight,
		})
	}
	return svcs
}
