package transport

import "strings"

const transportParam = ";transport="

// FormatURI annotates the SIP URI with the transport parameter.
//
// A URI that already has a ";transport=" parameter (in any case) is returned unchanged.
// Otherwise, if the URI has other parameters, "transport=<p>;" is inserted right
// after the first ';', keeping the order of the existing parameters.
// If there are no parameters, ";transport=<p>" is appended.
// Empty p means UDP.
func FormatURI(sipURI string, p Proto) string {
	if strings.Contains(strings.ToLower(sipURI), transportParam) {
		return sipURI
	}
	if p == "" {
		p = ProtoUDP
	}
	p = p.ToLower()

	if i := strings.IndexByte(sipURI, ';'); i >= 0 {
		return sipURI[:i] + transportParam + string(p) + sipURI[i:]
	}
	return sipURI + transportParam + string(p)
}

// SuggestAlternatives returns the transports to try after the failed one, most preferred first.
// The failed transport name is matched case-insensitively:
//
//	udp   -> tcp, tls
//	tcp   -> tls, udp
//	tls   -> tcp, udp
//	other -> tcp, tls, udp
func SuggestAlternatives[T ~string](failed T) []Proto {
	switch Proto(failed).ToLower() {
	case ProtoUDP:
		return []Proto{ProtoTCP, ProtoTLS}
	case ProtoTCP:
		return []Proto{ProtoTLS, ProtoUDP}
	case ProtoTLS:
		return []Proto{ProtoTCP, ProtoUDP}
	default:
		return []Proto{ProtoTCP, ProtoTLS, ProtoUDP}
	}
}
