package domain

// Category is a set of tags describing what kind of place a feature is.
type Category map[string]string

var (
	CategoryShopSupermarket       = Category{"shop": "supermarket"}
	CategoryShopConvenience       = Category{"shop": "convenience"}
	CategoryShopHardware          = Category{"shop": "hardware"}
	CategoryShopNewsagent         = Category{"shop": "newsagent"}
	CategoryShopTelecommunication = Category{"shop": "telecommunication"}
	CategoryRestaurant            = Category{"amenity": "restaurant"}
	CategoryCafe                  = Category{"amenity": "cafe"}
)

// ApplyCategory copies the category tags onto the feature.
func ApplyCategory(category Category, f *Feature) {
	for key, value := range category {
		f.SetExtra(key, value)
	}
}

// ApplyYesNo sets key to "yes" or "no". An existing "yes" is never downgraded, so a
// service listed several times counts when any listing is active.
func ApplyYesNo(key string, f *Feature, value bool) {
	if value {
		f.SetExtra(key, "yes")
		return
	}
	if f.Extras[key] == "yes" {
		return
	}
	f.SetExtra(key, "no")
}
