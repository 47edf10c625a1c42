package domain

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Brand carries the attributes every feature of a source shares.
type Brand struct {
	Name     string            `json:"brand,omitempty"`
	Wikidata string            `json:"brand_wikidata,omitempty"`
	Country  string            `json:"country,omitempty"`
	Extras   map[string]string `json:"-"`
}

// Feature is one harvested store location.
type Feature struct {
	Ref           string            `json:"ref" validate:"required"`
	Source        string            `json:"source" validate:"required"`
	Name          string            `json:"name,omitempty" validate:"required"`
	Brand         string            `json:"brand,omitempty"`
	BrandWikidata string            `json:"brand_wikidata,omitempty"`
	Lat           *decimal.Decimal  `json:"lat,omitempty"`
	Lon           *decimal.Decimal  `json:"lon,omitempty"`
	AddrFull      string            `json:"addr_full,omitempty"`
	Street        string            `json:"street_address,omitempty"`
	City          string            `json:"city,omitempty"`
	Postcode      string            `json:"postcode,omitempty"`
	Country       string            `json:"country,omitempty" validate:"omitempty,len=2"`
	Phone         string            `json:"phone,omitempty"`
	Email         string            `json:"email,omitempty" validate:"omitempty,email"`
	Website       string            `json:"website,omitempty" validate:"omitempty,url"`
	OpeningHours  string            `json:"opening_hours,omitempty"`
	Extras        map[string]string `json:"extras,omitempty"`
}

// NewFeature starts a feature for source with the brand attributes applied.
func NewFeature(source string, brand Brand, ref string) *Feature {
	f := &Feature{
		Ref:           strings.TrimSpace(ref),
		Source:        source,
		Brand:         brand.Name,
		BrandWikidata: brand.Wikidata,
		Country:       brand.Country,
	}
	for key, value := range brand.Extras {
		f.SetExtra(key, value)
	}
	return f
}

// SetExtra stores a tag, ignoring blank keys.
func (f *Feature) SetExtra(key, value string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if f.Extras == nil {
		f.Extras = make(map[string]string)
	}
	f.Extras[key] = value
}

// Key identifies the feature across harvest runs.
func (f *Feature) Key() string {
	return f.Source + ":" + f.Ref
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func featureValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the fields downstream consumers rely on.
func (f *Feature) Validate() error {
	return featureValidator().Struct(f)
}
