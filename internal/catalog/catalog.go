package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed data/products.json
var productsData []byte

// Catalog is a read-only view over the product dataset.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

// New builds a catalog from an already-decoded product slice.
// Useful for tests that need a controlled dataset.
func New(products []Product) *Catalog {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// Load decodes the embedded dataset. Called once at startup.
func Load() (*Catalog, error) {
	var products []Product
	if err := json.Unmarshal(productsData, &products); err != nil {
		return nil, fmt.Errorf("catalog: decode embedded dataset: %w", err)
	}
	return New(products), nil
}

// All returns every product in dataset order.
func (c *Catalog) All() []Product {
	return c.products
}

// ByID looks up a single product.
func (c *Catalog) ByID(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// ByCategory returns products whose English category matches, ignoring case.
func (c *Catalog) ByCategory(category string) []Product {
	var out []Product
	for _, p := range c.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// ByPriceRange returns products priced within [min, max] inclusive.
func (c *Catalog) ByPriceRange(min, max float64) []Product {
	var out []Product
	for _, p := range c.products {
		if p.Price >= min && p.Price <= max {
			out = append(out, p)
		}
	}
	return out
}

// InStock returns products currently flagged as available.
func (c *Catalog) InStock() []Product {
	var out []Product
	for _, p := range c.products {
		if p.InStock {
			out = append(out, p)
		}
	}
	return out
}

// Search performs a case-insensitive substring match over the localized
// name, description and fragrance fields plus the free-form tags.
func (c *Catalog) Search(query, locale string) []Product {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return nil
	}

	var out []Product
	for _, p := range c.products {
		name, description, fragrance := p.Name, p.Description, p.Fragrance
		if locale == LocaleAr {
			name, description, fragrance = p.NameAr, p.DescriptionAr, p.FragranceAr
		}
		if containsFold(name, term) || containsFold(description, term) || containsFold(fragrance, term) {
			out = append(out, p)
			continue
		}
		for _, tag := range p.Tags {
			if containsFold(tag, term) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Categories returns the distinct categories in dataset order for the
// given locale.
func (c *Catalog) Categories(locale string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.products {
		cat := p.Category
		if locale == LocaleAr {
			cat = p.CategoryAr
		}
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	return out
}

// containsFold reports whether s contains the already-lowercased term.
func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}
