// Package uptime computes per-target availability from probe history.
package uptime

import (
	"cmp"
	"slices"

	"github.com/hamed0406/apihealth/internal/domain"
)

// Aggregate returns one summary per distinct target URL in records.
//
// records must be ordered newest-first: the first record seen for a target
// provides its LastChecked. URLs are grouped by exact string equality.
// Summaries are ordered by LastChecked descending, then by URL ascending.
func Aggregate(records []domain.ProbeRecord) []domain.UptimeSummary {
	index := make(map[string]int)
	out := make([]domain.UptimeSummary, 0)

	for _, r := range records {
		i, ok := index[r.TargetURL]
		if !ok {
			i = len(out)
			index[r.TargetURL] = i
			out = append(out, domain.UptimeSummary{
				TargetURL:   r.TargetURL,
				LastChecked: r.CheckedAt,
			})
		}
		out[i].Total++
		if r.IsUp {
			out[i].Up++
		}
	}

	for i := range out {
		out[i].UptimePercent = Percent(out[i].Up, out[i].Total)
	}

	slices.SortStableFunc(out, func(a, b domain.UptimeSummary) int {
		if c := b.LastChecked.Compare(a.LastChecked); c != 0 {
			return c
		}
		return cmp.Compare(a.TargetURL, b.TargetURL)
	})
	return out
}

// Percent is up/total*100, or 0 when total is 0.
func Percent(up, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(up) / float64(total) * 100
}
