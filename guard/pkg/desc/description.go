package desc

import (
	"fmt"

	"snoreguard/guard/pkg/report"
)

const rowLimit = 12

func Wrap(desc string) string {
	return "```" + desc + "```"
}

// HourlyProfile renders the intraday profile as a fixed-width table for
// report embeds. Rows are chronological; an asterisk marks buckets with
// an active intervention.
func HourlyProfile(hourly []report.HourlyBucket) string {
	if len(hourly) == 0 {
		return ""
	}

	rows := hourly
	truncated := 0
	if len(rows) > rowLimit {
		truncated = len(rows) - rowLimit
		rows = rows[:rowLimit]
	}

	desc := fmt.Sprintf("%5s %5s %5s\n", "", "int", "min")
	for _, bucket := range rows {
		mark := " "
		if bucket.Intervention {
			mark = "*"
		}
		desc += fmt.Sprintf("%5s %5d %5d %s\n",
			bucket.Hour, bucket.Intensity, bucket.DurationMinutes, mark,
		)
	}
	if truncated > 0 {
		desc += fmt.Sprintf("… %d more\n", truncated)
	}

	return Wrap(desc)
}
