package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"poiharvest/internal/modules/stores/application/port"
	"poiharvest/internal/modules/stores/domain"
)

func newUpstream(t *testing.T, method, path, body string) *RESTClient {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method || r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return NewRESTClient(server.URL, ClientOptions{})
}

func byRef(features []*domain.Feature) map[string]*domain.Feature {
	out := make(map[string]*domain.Feature, len(features))
	for _, f := range features {
		out[f.Ref] = f
	}
	return out
}

const triDVAPayload = `[
  {
    "TrafikaId": 101, "Naziv": "Trafika BTC", "Naslov": "Šmartinska 152", "Posta": "1000", "Kraj": "Ljubljana",
    "Lat": "46,0660", "Long": 14.5447, "phone": "38612345678",
    "DelovniCasi": [
      {"Naziv": "pon. do pet.", "Vrednost": "7:00-12:00 in 13:00-19:00"},
      {"Naziv": "Sobota", "Vrednost": "8:00-13:00"},
      {"Naziv": "Nedelja", "Vrednost": "zaprto"},
      {"Naziv": "Prazniki", "Vrednost": "8:00-12:00"}
    ],
    "Storitve": [{"Naziv": "Loto", "Aktivna": true}, {"Naziv": "Stave", "Aktivna": false}]
  },
  {
    "TrafikaId": 102, "Naziv": "Trafika Center", "Naslov": "Čopova 1", "Posta": "1000", "Kraj": "Ljubljana",
    "Lat": 46.05, "Long": 14.50,
    "DelovniCasi": [
      {"Naziv": "tor., sre.", "Vrednost": "24 ur"},
      {"Naziv": "Četrtek", "Vrednost": "7:00 do 15:00"},
      {"Naziv": "Ponedeljek", "Vrednost": "6:00-14:00"}
    ],
    "Storitve": []
  }
]`

func TestTriDVASourceFetch(t *testing.T) {
	source := NewTriDVASource(newUpstream(t, http.MethodPost, triDVAMapPointsPath, triDVAPayload))

	features, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(features))
	}
	refs := byRef(features)

	btc := refs["101"]
	if btc == nil {
		t.Fatalf("missing feature 101")
	}
	if btc.OpeningHours != "Mo-Fr 07:00-12:00,13:00-19:00; Sa 08:00-13:00" {
		t.Fatalf("unexpected hours %q", btc.OpeningHours)
	}
	if btc.AddrFull != "Šmartinska 152 1000 Ljubljana" {
		t.Fatalf("unexpected address %q", btc.AddrFull)
	}
	if btc.Phone != "+38612345678" {
		t.Fatalf("unexpected phone %q", btc.Phone)
	}
	if btc.Lat == nil || btc.Lat.String() != "46.066" {
		t.Fatalf("unexpected lat %v", btc.Lat)
	}
	if btc.Extras["sells:lottery"] != "yes" || btc.Extras["shop"] != "newsagent" {
		t.Fatalf("unexpected extras %v", btc.Extras)
	}

	center := refs["102"]
	if center.OpeningHours != "Mo 06:00-14:00; Tu-We 00:00-24:00" {
		t.Fatalf("unexpected hours %q", center.OpeningHours)
	}
	if err := center.Validate(); err != nil {
		t.Fatalf("feature should validate: %v", err)
	}
}

func TestTriDVASourceLogsSkippedEntries(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	source := NewTriDVASource(newUpstream(t, http.MethodPost, triDVAMapPointsPath, triDVAPayload))
	if _, err := source.Fetch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	skipped := map[string]map[string]any{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		if record["msg"] == "opening hours entries skipped" {
			skipped[record["ref"].(string)] = record
		}
	}

	center, ok := skipped["102"]
	if !ok {
		t.Fatalf("expected a warning for store 102, got logs %s", buf.String())
	}
	if center["level"] != "WARN" || center["source"] != TriDVASourceName || center["count"] != float64(1) {
		t.Fatalf("unexpected warning %v", center)
	}
	entries, _ := center["entries"].(string)
	if !strings.Contains(entries, `days="Četrtek"`) || !strings.Contains(entries, `hours="7:00 do 15:00"`) {
		t.Fatalf("warning should carry the raw entry, got %q", entries)
	}

	btc, ok := skipped["101"]
	if !ok {
		t.Fatalf("expected a warning for store 101")
	}
	if entries, _ := btc["entries"].(string); !strings.Contains(entries, `days="Prazniki"`) {
		t.Fatalf("holiday row should be reported, got %q", entries)
	}
}

func TestMercatorSourceFetch(t *testing.T) {
	payload := `{"data": {"success": true, "data": {"locations": [
	  {"id": 5, "name": "Hipermarket Šiška", "latitude": "46.0700", "longitude": "14.4900",
	   "address": "Celovška 2", "location": "Ljubljana", "post": "1000", "typeName": "Hipermarket",
	   "openingHours": {
	     "monday": {"display": "07:00 - 21:00"}, "tuesday": {"display": "07:00 - 21:00"},
	     "wednesday": {"display": "07:00 - 21:00"}, "thursday": {"display": "07:00 - 21:00"},
	     "friday": {"display": "07:00 - 21:00"}, "saturday": {"display": "07:00 - 20:00"},
	     "sunday": {"display": "ZAPRTO"}},
	   "exceptions": []},
	  {"id": 6, "name": "Okrepčevalnica", "typeName": "Kiosk", "openingHours": {}}
	]}}}`
	source := NewMercatorSource(newUpstream(t, http.MethodGet, mercatorStoresPath, payload))

	features, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	refs := byRef(features)
	if got := refs["5"].OpeningHours; got != "Mo-Fr 07:00-21:00; Sa 07:00-20:00" {
		t.Fatalf("unexpected hours %q", got)
	}
	if refs["5"].Extras["shop"] != "supermarket" {
		t.Fatalf("expected supermarket category, got %v", refs["5"].Extras)
	}
	if refs["6"].OpeningHours != "" || refs["6"].Extras["shop"] != "" {
		t.Fatalf("unknown type must stay uncategorised with unknown hours, got %+v", refs["6"])
	}
}

func TestMercatorSourceRejectsUnsuccessfulResponse(t *testing.T) {
	source := NewMercatorSource(newUpstream(t, http.MethodGet, mercatorStoresPath, `{"data": {"success": false}}`))
	if _, err := source.Fetch(context.Background()); !errors.Is(err, port.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestTelekomSourceFetch(t *testing.T) {
	payload := `{"data": {"integrations": {"pointOfSalesIntegration": {"getPointOfSales": {"items": [
	  {"name": "Center Celje", "_url": "/prodajna-mesta/celje", "address": "Ljubljanska 1", "postNumber": "3000",
	   "postName": "Celje", "email": "celje@telekom.si", "isEshop": false, "latitude": 46.23, "longitude": 15.26,
	   "phoneNumber": "", "gsmNumber": "041 700 700",
	   "workingDays": [
	     {"dayOfWeek": "MONDAY", "openinghours": [{"openFrom": "8.00", "openTo": "12.00"}, {"openFrom": "13.00", "openTo": "19.00"}]},
	     {"dayOfWeek": "TUESDAY", "openinghours": [{"openFrom": "8.00", "openTo": "12.00"}, {"openFrom": "13.00", "openTo": "19.00"}]},
	     {"dayOfWeek": "SATURDAY", "openinghours": [{"openFrom": "8:00", "openTo": "12.00"}]}
	   ]},
	  {"name": "Terenska ekipa", "_url": "/teren", "address": "TEREN", "isEshop": false},
	  {"name": "Spletna trgovina", "_url": "/eshop", "address": "Online", "isEshop": true}
	]}}}}}`
	source := NewTelekomSource(newUpstream(t, http.MethodPost, telekomGraphQLPath, payload))

	features, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(features) != 1 {
		t.Fatalf("expected field teams and e-shops to be skipped, got %d features", len(features))
	}
	f := features[0]
	if f.OpeningHours != "Mo-Tu 08:00-12:00,13:00-19:00" {
		t.Fatalf("unexpected hours %q", f.OpeningHours)
	}
	if f.Phone != "041 700 700" || f.Website != "https://www.telekom.si/prodajna-mesta/celje" {
		t.Fatalf("unexpected contact fields %+v", f)
	}
	if f.Extras["shop"] != "telecommunication" {
		t.Fatalf("expected telecommunication shop, got %v", f.Extras)
	}
}

func TestTusSourceFetch(t *testing.T) {
	payload := `[
	  {"id": "77", "title": "Tuš Planet Celje", "phone": "03 123 45 67;03 765 43 21",
	   "emailHU": "", "email": "planet@tus.si;info@tus.si", "x": "15.2667", "y": "46.2397",
	   "street": "Mariborska 128", "city": "3000", "post": " Celje ",
	   "workHours": {"mon": "08:00 - 21:00", "tue": "08:00 - 21:00", "wed": "08:00 - 21:00",
	                 "thu": "08:00 - 21:00", "fri": "08:00 - 21:00", "sat": "08:00 - 20:00",
	                 "sun": "00:00 - 00:00"}}
	]`
	source := NewTusSource(newUpstream(t, http.MethodGet, "/wp-admin/admin-ajax.php", payload))

	features, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := features[0]
	if f.OpeningHours != "Mo-Fr 08:00-21:00; Sa 08:00-20:00" {
		t.Fatalf("unexpected hours %q", f.OpeningHours)
	}
	if f.Phone != "03 123 45 67" || f.Email != "planet@tus.si" {
		t.Fatalf("unexpected contact fields phone=%q email=%q", f.Phone, f.Email)
	}
	if f.Postcode != "3000" || f.City != "Celje" {
		t.Fatalf("unexpected address fields postcode=%q city=%q", f.Postcode, f.City)
	}
}

func TestRESTClientUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewRESTClient(server.URL, ClientOptions{RateLimit: 50, Burst: 2})
	if _, err := client.GetJSON(context.Background(), "/anything"); !errors.Is(err, port.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
