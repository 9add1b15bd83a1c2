package transport_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/sipreg/internal/errorutil"
	"github.com/ghettovoice/sipreg/transport"
)

func ptr[T any](v T) *T { return &v }

func TestParseProto(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    transport.Proto
		wantErr error
	}{
		{"udp", transport.ProtoUDP, nil},
		{"TCP", transport.ProtoTCP, nil},
		{" Tls ", transport.ProtoTLS, nil},
		{"sctp", "", errorutil.ErrInvalidArgument},
		{"", "", errorutil.ErrInvalidArgument},
	}
	for _, c := range cases {
		got, err := transport.ParseProto(c.in)
		if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
			t.Errorf("transport.ParseProto(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.in, err, c.wantErr, diff)
			continue
		}
		if got != c.want {
			t.Errorf("transport.ParseProto(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestProto_DefaultPort(t *testing.T) {
	t.Parallel()

	cases := map[transport.Proto]int{
		transport.ProtoUDP: 5060,
		transport.ProtoTCP: 5060,
		transport.ProtoTLS: 5061,
		"TLS":              5061,
		"sctp":             0,
	}
	for p, want := range cases {
		if got := p.DefaultPort(); got != want {
			t.Errorf("Proto(%q).DefaultPort() = %d, want %d", p, got, want)
		}
	}
}

func TestProto_Reliable_Secure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		p                        transport.Proto
		wantReliable, wantSecure bool
	}{
		{transport.ProtoUDP, false, false},
		{transport.ProtoTCP, true, false},
		{transport.ProtoTLS, true, true},
		{"TLS", true, true},
		{"sctp", false, false},
	}
	for _, c := range cases {
		if got := c.p.Reliable(); got != c.wantReliable {
			t.Errorf("Proto(%q).Reliable() = %v, want %v", c.p, got, c.wantReliable)
		}
		if got := c.p.Secure(); got != c.wantSecure {
			t.Errorf("Proto(%q).Secure() = %v, want %v", c.p, got, c.wantSecure)
		}
	}
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   *transport.ConfigOverrides
		want transport.Config
	}{
		{
			name: "nil overrides",
			in:   nil,
			want: transport.Config{Proto: transport.ProtoUDP, Port: 5060, MaxConnections: 16},
		},
		{
			name: "empty overrides",
			in:   &transport.ConfigOverrides{},
			want: transport.Config{Proto: transport.ProtoUDP, Port: 5060, MaxConnections: 16},
		},
		{
			name: "tls default port",
			in:   &transport.ConfigOverrides{Proto: ptr(transport.ProtoTLS)},
			want: transport.Config{Proto: transport.ProtoTLS, Port: 5061, MaxConnections: 16},
		},
		{
			name: "tcp explicit port",
			in:   &transport.ConfigOverrides{Proto: ptr(transport.ProtoTCP), Port: ptr(15060)},
			want: transport.Config{Proto: transport.ProtoTCP, Port: 15060, MaxConnections: 16},
		},
		{
			name: "unknown protocol keeps zero port",
			in:   &transport.ConfigOverrides{Proto: ptr(transport.Proto("sctp"))},
			want: transport.Config{Proto: "sctp", Port: 0, MaxConnections: 16},
		},
		{
			name: "all fields",
			in: &transport.ConfigOverrides{
				Proto:          ptr(transport.Proto("TCP")),
				PublicAddress:  ptr("203.0.113.10"),
				BoundAddress:   ptr("0.0.0.0"),
				QoSType:        ptr(3),
				MaxConnections: ptr(0),
			},
			want: transport.Config{
				Proto:          transport.ProtoTCP,
				Port:           5060,
				PublicAddress:  "203.0.113.10",
				BoundAddress:   "0.0.0.0",
				QoSType:        3,
				MaxConnections: 0,
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got := transport.NewConfig(c.in)
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("transport.NewConfig(%+v) = %+v, want %+v\ndiff (-got +want):\n%v", c.in, got, c.want, diff)
			}
		})
	}
}

func TestFormatURI(t *testing.T) {
	t.Parallel()

	cases := []struct {
		uri   string
		proto transport.Proto
		want  string
	}{
		{"sip:alice@example.com", transport.ProtoTCP, "sip:alice@example.com;transport=tcp"},
		{"sip:alice@example.com:5060", transport.ProtoUDP, "sip:alice@example.com:5060;transport=udp"},
		{"sip:alice@example.com", "", "sip:alice@example.com;transport=udp"},
		{"sip:alice@example.com", "TLS", "sip:alice@example.com;transport=tls"},
		{"sip:alice@example.com;lr;foo=bar", transport.ProtoTLS, "sip:alice@example.com;transport=tls;lr;foo=bar"},
		{"sip:alice@example.com;transport=udp", transport.ProtoTCP, "sip:alice@example.com;transport=udp"},
		{"sip:alice@example.com;lr;transport=udp", transport.ProtoTCP, "sip:alice@example.com;lr;transport=udp"},
		{"sip:alice@example.com;TRANSPORT=UDP", transport.ProtoTCP, "sip:alice@example.com;TRANSPORT=UDP"},
	}
	for _, c := range cases {
		if got := transport.FormatURI(c.uri, c.proto); got != c.want {
			t.Errorf("transport.FormatURI(%q, %q) = %q, want %q", c.uri, c.proto, got, c.want)
		}
	}
}

func TestFormatURI_Properties(t *testing.T) {
	t.Parallel()

	uris := []string{
		"sip:alice@example.com",
		"sip:alice@example.com:5080",
		"alice@example.com;a=1",
		"sip:alice@example.com;a=1;b=2;c",
		"example.com;",
	}
	for _, u := range uris {
		for _, p := range []transport.Proto{transport.ProtoUDP, transport.ProtoTCP, transport.ProtoTLS} {
			got := transport.FormatURI(u, p)

			if n := strings.Count(got, "transport="); n != 1 {
				t.Errorf("transport.FormatURI(%q, %q) = %q has %d transport params, want 1", u, p, got, n)
			}
			if again := transport.FormatURI(got, transport.ProtoTLS); again != got {
				t.Errorf("transport.FormatURI(%q, tls) = %q, want unchanged", got, again)
			}

			wantParams := strings.Split(u, ";")[1:]
			gotParams := slices.DeleteFunc(strings.Split(got, ";")[1:], func(s string) bool {
				return strings.HasPrefix(s, "transport=")
			})
			if diff := cmp.Diff(gotParams, wantParams, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("transport.FormatURI(%q, %q) params mismatch\ndiff (-got +want):\n%v", u, p, diff)
			}
		}
	}
}

func TestSuggestAlternatives(t *testing.T) {
	t.Parallel()

	cases := []struct {
		failed string
		want   []transport.Proto
	}{
		{"udp", []transport.Proto{transport.ProtoTCP, transport.ProtoTLS}},
		{"UDP", []transport.Proto{transport.ProtoTCP, transport.ProtoTLS}},
		{"tcp", []transport.Proto{transport.ProtoTLS, transport.ProtoUDP}},
		{"Tls", []transport.Proto{transport.ProtoTCP, transport.ProtoUDP}},
		{"sctp", []transport.Proto{transport.ProtoTCP, transport.ProtoTLS, transport.ProtoUDP}},
		{"", []transport.Proto{transport.ProtoTCP, transport.ProtoTLS, transport.ProtoUDP}},
	}
	for _, c := range cases {
		got := transport.SuggestAlternatives(c.failed)
		if diff := cmp.Diff(got, c.want); diff != "" {
			t.Errorf("transport.SuggestAlternatives(%q) = %v, want %v\ndiff (-got +want):\n%v", c.failed, got, c.want, diff)
		}
		if slices.ContainsFunc(got, func(p transport.Proto) bool { return p.Equal(c.failed) }) {
			t.Errorf("transport.SuggestAlternatives(%q) = %v contains the failed transport", c.failed, got)
		}
	}

	if got := transport.SuggestAlternatives(transport.ProtoTCP); len(got) != 2 {
		t.Errorf("transport.SuggestAlternatives(ProtoTCP) = %v, want 2 alternatives", got)
	}
}
