package uri_test

import (
	"testing"

	"github.com/ghettovoice/sipreg/uri"
)

func TestExtractDomain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     string
		want   string
		wantOk bool
	}{
		{"sip:alice@example.com:5060;foo=bar", "example.com", true},
		{"sip:alice@example.com", "example.com", true},
		{"alice@example.com", "example.com", true},
		{"sip:example.com:5061", "example.com", true},
		{"example.com;transport=tcp", "example.com", true},
		{"<sip:bob@biloxi.example.com>", "biloxi.example.com", true},
		{"sip:bob@10.0.0.1;transport=udp", "10.0.0.1", true},
		{"sips:bob@secure.example.com", "secure.example.com", true},
		{"not a uri", "not a uri", true},
		{"", "", false},
		{":5060", "", false},
		{";transport=tcp", "", false},
	}
	for _, c := range cases {
		got, ok := uri.ExtractDomain(c.in)
		if got != c.want || ok != c.wantOk {
			t.Errorf("uri.ExtractDomain(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.wantOk)
		}
	}
}
