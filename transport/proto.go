// Package transport selects and encodes the transport protocol used for SIP signaling.
//
// It builds transport configurations with per-protocol default ports,
// annotates SIP URIs with the "transport" parameter and proposes substitute
// protocols when one of them fails.
package transport

//go:generate errtrace -w .

import (
	"log/slog"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipreg/internal/errorutil"
)

// Proto is a SIP transport protocol.
// The value is the lowercase name used in the "transport" URI parameter.
type Proto string

const (
	ProtoUDP Proto = "udp"
	ProtoTCP Proto = "tcp"
	ProtoTLS Proto = "tls"
)

// Default ports.
const (
	DefaultPort    = 5060
	DefaultTLSPort = 5061
)

// ParseProto parses a known transport protocol name in any case.
func ParseProto(s string) (Proto, error) {
	p := Proto(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsKnown() {
		return "", errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown transport protocol %q", s))
	}
	return p, nil
}

// ToLower returns the lowercase form of the protocol.
func (p Proto) ToLower() Proto { return Proto(strings.ToLower(string(p))) }

// ToUpper returns the uppercase form of the protocol.
func (p Proto) ToUpper() Proto { return Proto(strings.ToUpper(string(p))) }

// Equal compares the protocol with another one case-insensitively.
func (p Proto) Equal(val any) bool {
	var other Proto
	switch v := val.(type) {
	case Proto:
		other = v
	case *Proto:
		if v == nil {
			return false
		}
		other = *v
	case string:
		other = Proto(v)
	default:
		return false
	}
	return strings.EqualFold(string(p), string(other))
}

// IsKnown reports whether the protocol is one of UDP, TCP or TLS.
func (p Proto) IsKnown() bool {
	return p.Equal(ProtoUDP) || p.Equal(ProtoTCP) || p.Equal(ProtoTLS)
}

// Reliable reports whether the protocol is stream based.
func (p Proto) Reliable() bool { return p.Equal(ProtoTCP) || p.Equal(ProtoTLS) }

// Secure reports whether the protocol is TLS.
func (p Proto) Secure() bool { return p.Equal(ProtoTLS) }

// DefaultPort returns the default port of the protocol: 5060 for UDP and TCP,
// 5061 for TLS and 0 for unknown protocols.
func (p Proto) DefaultPort() int {
	switch p.ToLower() {
	case ProtoUDP, ProtoTCP:
		return DefaultPort
	case ProtoTLS:
		return DefaultTLSPort
	default:
		return 0
	}
}

func (p Proto) String() string { return string(p) }

// LogValue implements [slog.LogValuer].
func (p Proto) LogValue() slog.Value { return slog.StringValue(string(p.ToUpper())) }
