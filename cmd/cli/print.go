package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/hamed0406/apihealth/internal/domain"
	"github.com/hamed0406/apihealth/internal/monitor"
)

const timeLayout = "2006-01-02 15:04:05"

func printDashboard(w io.Writer, d *monitor.Dashboard) {
	if r := d.Result; r != nil {
		fmt.Fprintf(w, "%s\n  status:   %d %s\n  health:   %s\n  time:     %.1f ms\n",
			r.TargetURL, r.StatusCode, r.StatusText, r.HealthCategory, r.ResponseTimeMS)
		if r.ErrorMessage != nil {
			fmt.Fprintf(w, "  error:    %s\n", *r.ErrorMessage)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "Recent checks")
	printChecks(w, d.RecentChecks)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Uptime")
	printUptime(w, d.UptimeStats)
}

func printChecks(w io.Writer, checks []domain.ProbeRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECKED\tURL\tSTATUS\tUP\tMS\tERROR")
	for _, c := range checks {
		errMsg := ""
		if c.ErrorMessage != nil {
			errMsg = *c.ErrorMessage
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%.1f\t%s\n",
			c.CheckedAt.Local().Format(timeLayout), c.TargetURL, statusCell(c.StatusCode), c.IsUp, c.ResponseTimeMS, errMsg)
	}
	tw.Flush()
}

func printUptime(w io.Writer, stats []domain.UptimeSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tUP/TOTAL\tUPTIME\tLAST CHECKED")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d/%d\t%.2f%%\t%s\n",
			s.TargetURL, s.Up, s.Total, s.UptimePercent, s.LastChecked.Local().Format(timeLayout))
	}
	tw.Flush()
}

func printFavorites(w io.Writer, eps []domain.Endpoint) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tURL")
	for _, e := range eps {
		fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.URL)
	}
	tw.Flush()
}

func statusCell(code int) string {
	if code == domain.NoResponse {
		return "-"
	}
	return strconv.Itoa(code)
}

