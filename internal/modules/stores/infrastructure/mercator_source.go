package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	hours "poiharvest/internal/modules/hours/domain"
	"poiharvest/internal/modules/stores/application/port"
	"poiharvest/internal/modules/stores/domain"
	"poiharvest/internal/shared/normalization"
)

const (
	MercatorSourceName = "mercator_si"
	MercatorBaseURL    = "https://mojm.mercator.si"

	mercatorStoresPath = "/v1/logistics/stores/list"
)

var mercatorBrand = domain.Brand{Name: "Mercator", Wikidata: "Q738412", Country: "SI"}

var mercatorDayKeys = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var mercatorLocale = hours.MustLocale(hours.LocaleConfig{
	DayTokens:     englishDays,
	TimeFormat:    hours.LayoutColon,
	ClosedMarkers: []string{"ZAPRTO"},
})

var mercatorCategories = map[string]domain.Category{
	"Supermarket":         domain.CategoryShopSupermarket,
	"Hipermarket":         domain.CategoryShopSupermarket,
	"Živilska prodajalna": domain.CategoryShopConvenience,
	"Maxi":                domain.CategoryShopConvenience,
	"Tehnika in gradnja":  domain.CategoryShopHardware,
	"Restavracija":        domain.CategoryRestaurant,
	"Bar/okrepčevalnica":  domain.CategoryCafe,
}

// MercatorSource harvests Mercator stores. Exception dates published next to the
// weekly hours are ignored.
type MercatorSource struct {
	rest *RESTClient
}

func NewMercatorSource(rest *RESTClient) *MercatorSource {
	return &MercatorSource{rest: rest}
}

func (s *MercatorSource) Name() string { return MercatorSourceName }

func (s *MercatorSource) Fetch(ctx context.Context) ([]*domain.Feature, error) {
	payload, err := s.rest.GetJSON(ctx, mercatorStoresPath)
	if err != nil {
		return nil, err
	}
	if !normalization.AsBool(normalization.Path(payload, "data", "success")) {
		return nil, fmt.Errorf("%w: mercator reported an unsuccessful response", port.ErrSourceUnavailable)
	}

	locations := normalization.AsInterfaceSlice(normalization.Path(payload, "data", "data", "locations"))
	features := make([]*domain.Feature, 0, len(locations))
	for _, raw := range locations {
		if f := decodeMercatorStore(normalization.AsMap(raw)); f != nil {
			features = append(features, f)
		}
	}
	return features, nil
}

func decodeMercatorStore(store map[string]any) *domain.Feature {
	if store == nil {
		return nil
	}
	f := domain.NewFeature(MercatorSourceName, mercatorBrand, normalization.AsString(store["id"]))
	f.Name = normalization.AsString(store["name"])
	f.Lat = normalization.AsDecimal(store["latitude"])
	f.Lon = normalization.AsDecimal(store["longitude"])
	f.Street = normalization.AsString(store["address"])
	f.City = normalization.AsString(store["location"])
	f.Postcode = normalization.AsString(store["post"])

	openingHours := normalization.AsMap(store["openingHours"])
	entries := make([]hours.Entry, 0, len(mercatorDayKeys))
	for _, day := range mercatorDayKeys {
		entries = append(entries, hours.Entry{
			Days:  day,
			Hours: normalization.AsString(normalization.Path(openingHours, day, "display")),
		})
	}
	f.OpeningHours = renderHours(mercatorLocale, entries, MercatorSourceName, f.Ref)

	storeType := normalization.AsString(store["typeName"])
	if category, ok := mercatorCategories[storeType]; ok {
		domain.ApplyCategory(category, f)
	} else {
		slog.Warn("unknown store type", slog.String("source", MercatorSourceName), slog.String("ref", f.Ref), slog.String("type", storeType))
	}
	return f
}
