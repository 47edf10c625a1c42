package infrastructure

import (
	"context"
	"strings"

	hours "poiharvest/internal/modules/hours/domain"
	"poiharvest/internal/modules/stores/domain"
	"poiharvest/internal/shared/normalization"
)

const (
	TelekomSourceName = "telekom_si"
	TelekomBaseURL    = "https://cms.telekom.si"

	telekomGraphQLPath  = "/graphql"
	telekomWebsite      = "https://www.telekom.si"
	telekomPointOfSales = "74b7e783-c6c1-41a7-8253-daa675c84c16"
)

const telekomQuery = `
query getPointOfSales($pointOfSalesId: ID, $culture: String) {
    integrations {
        pointOfSalesIntegration {
            getPointOfSales(pointOfSalesId: $pointOfSalesId, culture: $culture) {
                items {
                ...pointOfSale
                }
            }
        }
    }
}
fragment pointOfSale on PointOfSale {
    name
    _url
    address
    postNumber
    postName
    email
    isEshop
    latitude
    longitude
    phoneNumber
    gsmNumber
    categories
    workingDays {
        dayOfWeek
        openinghours {
            openFrom
            openTo
        }
    }
}`

var telekomBrand = domain.Brand{
	Name:     "Telekom Slovenije",
	Wikidata: "Q1335433",
	Country:  "SI",
	Extras:   domain.CategoryShopTelecommunication,
}

// Days come as English names; times are written "8.00".
var telekomLocale = hours.MustLocale(hours.LocaleConfig{
	DayTokens:  englishDays,
	TimeFormat: hours.LayoutDot,
})

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

// TelekomSource harvests Telekom Slovenije shops. Field teams ("TEREN") and the
// e-shop are not physical locations and are skipped.
type TelekomSource struct {
	rest *RESTClient
}

func NewTelekomSource(rest *RESTClient) *TelekomSource {
	return &TelekomSource{rest: rest}
}

func (s *TelekomSource) Name() string { return TelekomSourceName }

func (s *TelekomSource) Fetch(ctx context.Context) ([]*domain.Feature, error) {
	payload, err := s.rest.PostJSON(ctx, telekomGraphQLPath, graphQLRequest{
		OperationName: "getPointOfSales",
		Query:         telekomQuery,
		Variables: map[string]any{
			"culture":        "sl-SI",
			"pointOfSalesId": telekomPointOfSales,
		},
	})
	if err != nil {
		return nil, err
	}

	items := normalization.AsInterfaceSlice(normalization.Path(payload,
		"data", "integrations", "pointOfSalesIntegration", "getPointOfSales", "items"))
	features := make([]*domain.Feature, 0, len(items))
	for _, raw := range items {
		item := normalization.AsMap(raw)
		if item == nil {
			continue
		}
		if strings.Contains(normalization.AsString(item["address"]), "TEREN") || normalization.AsBool(item["isEshop"]) {
			continue
		}
		features = append(features, decodeTelekomItem(item))
	}
	return features, nil
}

func decodeTelekomItem(item map[string]any) *domain.Feature {
	url := normalization.AsString(item["_url"])
	f := domain.NewFeature(TelekomSourceName, telekomBrand, url)
	f.Name = normalization.AsString(item["name"])
	f.Phone = normalization.FirstNonEmpty(normalization.AsString(item["phoneNumber"]), normalization.AsString(item["gsmNumber"]))
	f.Lat = normalization.AsDecimal(item["latitude"])
	f.Lon = normalization.AsDecimal(item["longitude"])
	f.Street = normalization.AsString(item["address"])
	f.Postcode = normalization.AsString(item["postNumber"])
	f.City = normalization.AsString(item["postName"])
	f.Email = normalization.AsString(item["email"])
	if url != "" {
		f.Website = telekomWebsite + url
	}

	// Open and close arrive as separate fields, so they go straight into the table.
	table := hours.NewTimeTable()
	for _, raw := range normalization.AsInterfaceSlice(item["workingDays"]) {
		workingDay := normalization.AsMap(raw)
		dayName := normalization.AsString(workingDay["dayOfWeek"])
		days := telekomLocale.Days(dayName)
		if len(days) == 0 {
			table.Note(hours.Diagnostic{Days: dayName, Err: hours.ErrUnrecognizedDayToken})
			continue
		}
		for _, rawRange := range normalization.AsInterfaceSlice(workingDay["openinghours"]) {
			oh := normalization.AsMap(rawRange)
			_ = table.AddDaysRange(days,
				normalization.AsString(oh["openFrom"]),
				normalization.AsString(oh["openTo"]),
				telekomLocale.Layout(),
			)
		}
	}
	f.OpeningHours = renderTable(table, TelekomSourceName, f.Ref)
	return f
}
