package infrastructure

import (
	"log/slog"

	hours "poiharvest/internal/modules/hours/domain"
)

// slovenianDays lists full names next to abbreviations: "ponedeljek" contains "ned" and
// only the longer token keeps it from resolving to Sunday.
var slovenianDays = map[string]hours.Weekday{
	"ponedeljek": hours.Monday,
	"torek":      hours.Tuesday,
	"sreda":      hours.Wednesday,
	"četrtek":    hours.Thursday,
	"petek":      hours.Friday,
	"sobota":     hours.Saturday,
	"nedelja":    hours.Sunday,

	"pon": hours.Monday,
	"tor": hours.Tuesday,
	"sre": hours.Wednesday,
	"čet": hours.Thursday,
	"pet": hours.Friday,
	"sob": hours.Saturday,
	"ned": hours.Sunday,
}

// englishDays matches three-letter keys and, by containment, full names in any case.
var englishDays = map[string]hours.Weekday{
	"mon": hours.Monday,
	"tue": hours.Tuesday,
	"wed": hours.Wednesday,
	"thu": hours.Thursday,
	"fri": hours.Friday,
	"sat": hours.Saturday,
	"sun": hours.Sunday,
}

// renderHours collects entries with locale and logs the skipped entries once per store.
func renderHours(locale *hours.Locale, entries []hours.Entry, source, ref string) string {
	table := locale.Collect(entries)
	return renderTable(table, source, ref)
}

func renderTable(table *hours.TimeTable, source, ref string) string {
	if skipped := table.Diagnostics(); len(skipped) > 0 {
		slog.Warn("opening hours entries skipped",
			slog.String("source", source),
			slog.String("ref", ref),
			slog.Int("count", len(skipped)),
			slog.String("entries", hours.Summary(skipped)),
		)
	}
	return table.Render()
}
