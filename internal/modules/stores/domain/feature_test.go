package domain

import "testing"

func TestFeatureValidate(t *testing.T) {
	brand := Brand{Name: "Mercator", Wikidata: "Q738412", Country: "SI"}

	tests := []struct {
		name    string
		mutate  func(*Feature)
		wantErr bool
	}{
		{name: "complete", mutate: func(f *Feature) {}},
		{name: "missing name", mutate: func(f *Feature) { f.Name = "" }, wantErr: true},
		{name: "missing ref", mutate: func(f *Feature) { f.Ref = "" }, wantErr: true},
		{name: "bad email", mutate: func(f *Feature) { f.Email = "not-an-email" }, wantErr: true},
		{name: "long country", mutate: func(f *Feature) { f.Country = "SVN" }, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := NewFeature("mercator_si", brand, " 42 ")
			f.Name = "Hipermarket Šiška"
			f.Email = "info@mercator.si"
			test.mutate(f)

			err := f.Validate()
			if test.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !test.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestNewFeatureAppliesBrand(t *testing.T) {
	brand := Brand{Name: "3DVA", Wikidata: "Q1941592", Country: "SI", Extras: CategoryShopNewsagent}
	f := NewFeature("3dva_si", brand, "17")

	if f.Brand != "3DVA" || f.BrandWikidata != "Q1941592" || f.Country != "SI" {
		t.Fatalf("brand attributes not applied: %+v", f)
	}
	if f.Extras["shop"] != "newsagent" {
		t.Fatalf("expected shop=newsagent, got %v", f.Extras)
	}
	if f.Key() != "3dva_si:17" {
		t.Fatalf("unexpected key %s", f.Key())
	}
}

func TestApplyYesNoKeepsPositive(t *testing.T) {
	f := &Feature{}
	ApplyYesNo("sells:lottery", f, false)
	if f.Extras["sells:lottery"] != "no" {
		t.Fatalf("expected no, got %q", f.Extras["sells:lottery"])
	}
	ApplyYesNo("sells:lottery", f, true)
	ApplyYesNo("sells:lottery", f, false)
	if f.Extras["sells:lottery"] != "yes" {
		t.Fatalf("expected yes to stick, got %q", f.Extras["sells:lottery"])
	}
}
