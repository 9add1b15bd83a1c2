package diag

import (
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"strings"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/sipreg/dns"
)

// DNSResult is the outcome of the DNS stage.
type DNSResult struct {
	Success        bool       `json:"success"`
	Address        netip.Addr `json:"address,omitzero"`
	Message        string     `json:"message,omitempty"`
	Error          string     `json:"error,omitempty"`
	Recommendation string     `json:"recommendation,omitempty"`
}

// TCPResult is the outcome of the TCP reachability stage.
type TCPResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}

// TraceResult is the outcome of the traceroute stage.
type TraceResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
	// Recommendation is never part of the report recommendations.
	Recommendation string `json:"recommendation,omitempty"`
}

// Tests holds the per-stage results of a diagnostic run.
// TCP is nil when the DNS stage failed, Traceroute is nil unless the TCP stage failed.
type Tests struct {
	DNS        *DNSResult   `json:"dns"`
	TCP        *TCPResult   `json:"tcp,omitempty"`
	Traceroute *TraceResult `json:"traceroute,omitempty"`
}

// Report is a result of a SIP connectivity diagnostic.
type Report struct {
	SIPURI    string    `json:"sipUri"`
	Domain    string    `json:"domain"`
	Port      int       `json:"port"`
	Timestamp time.Time `json:"timestamp"`
	Tests     Tests     `json:"tests"`
	// Services are SIP services advertised by the domain.
	// They are informational and never affect OverallSuccess.
	Services        []*dns.Service `json:"services,omitempty"`
	OverallSuccess  bool           `json:"overallSuccess"`
	Recommendations []string       `json:"recommendations,omitempty"`
}

// Standing recommendations appended to every failed report.
var standingRecommendations = []string{
	"Consider trying alternative transport protocols (TCP/TLS instead of UDP)",
	"Check if your network or ISP is blocking SIP traffic",
	"Verify the SIP server is operational by contacting your provider",
}

func (r *Report) assess() {
	r.OverallSuccess = r.Tests.DNS != nil && r.Tests.DNS.Success &&
		r.Tests.TCP != nil && r.Tests.TCP.Success
	if r.OverallSuccess {
		r.Recommendations = nil
		return
	}

	recs := make([]string, 0, 2+len(standingRecommendations))
	if r.Tests.DNS != nil && !r.Tests.DNS.Success {
		recs = append(recs, r.Tests.DNS.Recommendation)
	}
	if r.Tests.TCP != nil && !r.Tests.TCP.Success {
		recs = append(recs, r.Tests.TCP.Recommendation)
	}
	r.Recommendations = append(recs, standingRecommendations...)
}

// FailedStage returns the name of the first failed gating stage, or empty string.
func (r *Report) FailedStage() string {
	if r == nil {
		return ""
	}
	switch {
	case r.Tests.DNS == nil || !r.Tests.DNS.Success:
		return "dns"
	case r.Tests.TCP == nil || !r.Tests.TCP.Success:
		return "tcp"
	default:
		return ""
	}
}

func (r *Report) LogValue() slog.Value {
	if r == nil {
		return slog.Value{}
	}
	attrs := []slog.Attr{
		slog.String("sip_uri", r.SIPURI),
		slog.String("domain", r.Domain),
		slog.Int("port", r.Port),
		slog.Bool("overall_success", r.OverallSuccess),
	}
	if stage := r.FailedStage(); stage != "" {
		attrs = append(attrs, slog.String("failed_stage", stage))
	}
	if len(r.Services) > 0 {
		attrs = append(attrs, slog.Int("services", len(r.Services)))
	}
	return slog.GroupValue(attrs...)
}

// WriteText writes a human-readable summary of the report to w.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "SIP URI:  %s\n", r.SIPURI)
	fmt.Fprintf(&sb, "Target:   %s:%d\n", r.Domain, r.Port)
	fmt.Fprintf(&sb, "Checked:  %s\n", r.Timestamp.Format(time.RFC3339))

	if dr := r.Tests.DNS; dr != nil {
		writeStage(&sb, "DNS", dr.Success, dr.Message, dr.Error)
	}
	if tr := r.Tests.TCP; tr != nil {
		writeStage(&sb, "TCP", tr.Success, tr.Message, tr.Error)
	}
	if tr := r.Tests.Traceroute; tr != nil {
		writeStage(&sb, "Traceroute", tr.Success, "", tr.Error)
		if out := strings.TrimRight(tr.Output, "\n"); out != "" {
			for line := range strings.SplitSeq(out, "\n") {
				sb.WriteString("    ")
				sb.WriteString(line)
				sb.WriteByte('\n')
			}
		}
	}

	if len(r.Services) > 0 {
		sb.WriteString("Services:\n")
		for _, s := range r.Services {
			fmt.Fprintf(&sb, "  %-4s %s:%d (priority %d, weight %d)\n",
				s.Proto.ToUpper(), s.Target, s.Port, s.Priority, s.Weight)
		}
	}

	if r.OverallSuccess {
		sb.WriteString("Result:   OK\n")
	} else {
		sb.WriteString("Result:   FAILED\n")
		sb.WriteString("Recommendations:\n")
		for _, rec := range r.Recommendations {
			sb.WriteString("  - ")
			sb.WriteString(rec)
			sb.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, sb.String())
	return errtrace.Wrap(err)
}

func writeStage(sb *strings.Builder, name string, ok bool, msg, errMsg string) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	fmt.Fprintf(sb, "%-10s%s", name+":", status)
	switch {
	case ok && msg != "":
		sb.WriteString(" (" + msg + ")")
	case !ok && errMsg != "":
		sb.WriteString(" (" + errMsg + ")")
	}
	sb.WriteByte('\n')
}
