// Package catalog provides read-only access to the static product dataset.
//
// The dataset is embedded at build time and loaded once; products are never
// mutated at runtime. All lookups operate on the in-memory slice.
package catalog

// Product is a single catalog record. Display fields carry both an English
// and an Arabic rendition; JSON tags follow the dataset's camelCase naming.
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	NameAr         string   `json:"nameAr"`
	Description    string   `json:"description"`
	DescriptionAr  string   `json:"descriptionAr"`
	Price          float64  `json:"price"`
	OriginalPrice  float64  `json:"originalPrice,omitempty"`
	Currency       string   `json:"currency"`
	Image          string   `json:"image"`
	Images         []string `json:"images,omitempty"`
	Category       string   `json:"category"`
	CategoryAr     string   `json:"categoryAr"`
	Size           string   `json:"size"`
	SizeAr         string   `json:"sizeAr"`
	Dimensions     string   `json:"dimensions"`
	Weight         string   `json:"weight"`
	BurnTime       string   `json:"burnTime"`
	MadeIn         string   `json:"madeIn"`
	MadeInAr       string   `json:"madeInAr"`
	Manufacturer   string   `json:"manufacturer"`
	ManufacturerAr string   `json:"manufacturerAr"`
	InStock        bool     `json:"inStock"`
	StockQuantity  int      `json:"stockQuantity"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"reviewCount"`
	Tags           []string `json:"tags"`
	Fragrance      string   `json:"fragrance"`
	FragranceAr    string   `json:"fragranceAr"`
	WaxType        string   `json:"waxType"`
	WaxTypeAr      string   `json:"waxTypeAr"`
	WickType       string   `json:"wickType"`
	WickTypeAr     string   `json:"wickTypeAr"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

// LocalizedName returns the display name for the given locale.
func (p Product) LocalizedName(locale string) string {
	if locale == LocaleAr {
		return p.NameAr
	}
	return p.Name
}

// Locales supported by the storefront.
const (
	LocaleEn = "en"
	LocaleAr = "ar"
)
