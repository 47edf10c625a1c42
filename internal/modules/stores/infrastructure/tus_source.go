package infrastructure

import (
	"context"
	"fmt"
	"sort"

	hours "poiharvest/internal/modules/hours/domain"
	"poiharvest/internal/modules/stores/application/port"
	"poiharvest/internal/modules/stores/domain"
	"poiharvest/internal/shared/normalization"
)

const (
	TusSourceName = "tus_si"
	TusBaseURL    = "https://www.tus.si"

	tusWorkHoursPath = "/wp-admin/admin-ajax.php?action=creatim_work_hours_ajax&async=false"
)

var tusBrand = domain.Brand{Name: "Tuš", Country: "SI"}

// Hours look like "mon": "08:00 - 20:00"; a closed day is published as 00:00 - 00:00.
var tusLocale = hours.MustLocale(hours.LocaleConfig{
	DayTokens:     englishDays,
	TimeFormat:    hours.LayoutColon,
	ClosedMarkers: []string{"00:00 - 00:00", "00:00-00:00"},
})

// TusSource harvests Tuš stores.
type TusSource struct {
	rest *RESTClient
}

func NewTusSource(rest *RESTClient) *TusSource {
	return &TusSource{rest: rest}
}

func (s *TusSource) Name() string { return TusSourceName }

func (s *TusSource) Fetch(ctx context.Context) ([]*domain.Feature, error) {
	payload, err := s.rest.GetJSON(ctx, tusWorkHoursPath)
	if err != nil {
		return nil, err
	}
	rows := normalization.AsInterfaceSlice(payload)
	if rows == nil {
		return nil, fmt.Errorf("%w: tus payload is not a list", port.ErrSourceUnavailable)
	}

	features := make([]*domain.Feature, 0, len(rows))
	for _, raw := range rows {
		if f := decodeTusRow(normalization.AsMap(raw)); f != nil {
			features = append(features, f)
		}
	}
	return features, nil
}

func decodeTusRow(row map[string]any) *domain.Feature {
	if row == nil {
		return nil
	}
	f := domain.NewFeature(TusSourceName, tusBrand, normalization.AsString(row["id"]))
	f.Name = normalization.AsString(row["title"])
	f.Phone = normalization.FirstOfList(normalization.AsString(row["phone"]), ";")
	f.Email = normalization.FirstOfList(normalization.FirstNonEmpty(
		normalization.AsString(row["emailHU"]),
		normalization.AsString(row["email"]),
	), ";")
	f.Lat = normalization.AsDecimal(row["y"])
	f.Lon = normalization.AsDecimal(row["x"])
	f.Street = normalization.AsString(row["street"])
	// upstream swaps the two fields
	f.Postcode = normalization.AsString(row["city"])
	f.City = normalization.AsString(row["post"])

	workHours := normalization.AsMap(row["workHours"])
	days := make([]string, 0, len(workHours))
	for day := range workHours {
		days = append(days, day)
	}
	sort.Strings(days)

	entries := make([]hours.Entry, 0, len(days))
	for _, day := range days {
		entries = append(entries, hours.Entry{Days: day, Hours: normalization.AsString(workHours[day])})
	}
	f.OpeningHours = renderHours(tusLocale, entries, TusSourceName, f.Ref)
	return f
}
