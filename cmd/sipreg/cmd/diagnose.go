package cmd

import (
	"encoding/json"
	"io"

	"braces.dev/errtrace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/sipreg/diag"
	"github.com/ghettovoice/sipreg/internal/errorutil"
	"github.com/ghettovoice/sipreg/metrics"
)

// errDiagnosticFailed makes the command exit non-zero when the server is unreachable.
const errDiagnosticFailed errorutil.Error = "SIP server is not reachable"

func newDiagnoseCommand(st *state) *cobra.Command {
	var (
		port        int
		asJSON      bool
		services    bool
		showMetrics bool
	)

	c := &cobra.Command{
		Use:   "diagnose <sip-uri>",
		Short: "Check DNS resolution and TCP reachability of a SIP server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				st.cfg.Diagnostics.Port = port
			}
			if services {
				st.cfg.Diagnostics.DiscoverServices = true
			}

			reg := prometheus.NewRegistry()
			m, err := metrics.New(reg)
			if err != nil {
				return errtrace.Wrap(err)
			}

			prober := diag.NewProber(st.cfg.ProberOptions(st.log, m))
			rep, err := prober.Diagnose(cmd.Context(), args[0], st.cfg.Diagnostics.Port)
			if err != nil {
				return errtrace.Wrap(err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep); err != nil {
					return errtrace.Wrap(err)
				}
			} else if err := rep.WriteText(out); err != nil {
				return errtrace.Wrap(err)
			}

			if showMetrics {
				if err := writeMetrics(out, reg); err != nil {
					return errtrace.Wrap(err)
				}
			}

			if !rep.OverallSuccess {
				return errtrace.Wrap(errDiagnosticFailed)
			}
			return nil
		},
	}

	f := c.Flags()
	f.IntVarP(&port, "port", "p", 0, "SIP port to probe (default from config, 5060)")
	f.BoolVar(&asJSON, "json", false, "print the report as JSON")
	f.BoolVar(&services, "services", false, "discover advertised SIP services (NAPTR/SRV)")
	f.BoolVar(&showMetrics, "metrics", false, "print collected metrics in Prometheus text format")
	return c
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return errtrace.Wrap(err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}
