package infrastructure

import (
	"context"
	"fmt"
	"strings"

	hours "poiharvest/internal/modules/hours/domain"
	"poiharvest/internal/modules/stores/application/port"
	"poiharvest/internal/modules/stores/domain"
	"poiharvest/internal/shared/normalization"
)

const (
	TriDVASourceName = "3dva_si"
	TriDVABaseURL    = "https://trafika3dva.si"

	triDVAMapPointsPath = "/DesktopModules/Trafika3Dva/api/Map/getMapPoints"
)

var triDVABrand = domain.Brand{
	Name:     "3DVA",
	Wikidata: "Q1941592",
	Country:  "SI",
	Extras:   domain.CategoryShopNewsagent,
}

// Schedule rows name days separately ("Četrtek") or together ("tor., sre."), the
// working week as "pon. do pet.", and breaks with "," or "in". Holidays ("praz") are
// left out of the table and end up as diagnostics.
var triDVALocale = hours.MustLocale(hours.LocaleConfig{
	DayTokens:     slovenianDays,
	Ranges:        []hours.DayRange{{Phrase: "pon. do pet.", First: hours.Monday, Last: hours.Friday}},
	TimeFormat:    hours.LayoutColon,
	Separators:    []string{","},
	Conjunctions:  []string{"in"},
	ClosedMarkers: []string{"zaprto"},
})

// TriDVASource harvests 3DVA newsagents.
type TriDVASource struct {
	rest *RESTClient
}

func NewTriDVASource(rest *RESTClient) *TriDVASource {
	return &TriDVASource{rest: rest}
}

func (s *TriDVASource) Name() string { return TriDVASourceName }

func (s *TriDVASource) Fetch(ctx context.Context) ([]*domain.Feature, error) {
	payload, err := s.rest.PostJSON(ctx, triDVAMapPointsPath, nil)
	if err != nil {
		return nil, err
	}
	stores := normalization.AsInterfaceSlice(payload)
	if stores == nil {
		return nil, fmt.Errorf("%w: 3dva payload is not a list", port.ErrSourceUnavailable)
	}

	features := make([]*domain.Feature, 0, len(stores))
	for _, raw := range stores {
		if f := decodeTriDVAStore(normalization.AsMap(raw)); f != nil {
			features = append(features, f)
		}
	}
	return features, nil
}

func decodeTriDVAStore(store map[string]any) *domain.Feature {
	if store == nil {
		return nil
	}
	f := domain.NewFeature(TriDVASourceName, triDVABrand, normalization.AsString(store["TrafikaId"]))
	f.Name = normalization.AsString(store["Naziv"])
	f.AddrFull = strings.Join(nonEmpty(
		normalization.AsString(store["Naslov"]),
		normalization.AsString(store["Posta"]),
		normalization.AsString(store["Kraj"]),
	), " ")
	f.Lat = normalization.AsDecimal(store["Lat"])
	f.Lon = normalization.AsDecimal(store["Long"])
	if phone := normalization.AsString(store["phone"]); phone != "" {
		f.Phone = "+" + strings.TrimPrefix(phone, "+")
	}

	var entries []hours.Entry
	for _, raw := range normalization.AsInterfaceSlice(store["DelovniCasi"]) {
		row := normalization.AsMap(raw)
		entries = append(entries, hours.Entry{
			Days:  normalization.AsString(row["Naziv"]),
			Hours: normalization.AsString(row["Vrednost"]),
		})
	}
	f.OpeningHours = renderHours(triDVALocale, entries, TriDVASourceName, f.Ref)

	for _, raw := range normalization.AsInterfaceSlice(store["Storitve"]) {
		service := normalization.AsMap(raw)
		active := normalization.AsBool(service["Aktivna"]) && normalization.AsString(service["Naziv"]) == "Loto"
		domain.ApplyYesNo("sells:lottery", f, active)
	}
	return f
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
