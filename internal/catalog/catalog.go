// Package catalog holds the storefront's immutable product table.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"driphorizon/internal/domain"
)

// Catalog is a read-only product lookup. It is safe for concurrent use because it is never mutated
// after construction.
type Catalog struct {
	products map[string]domain.Product
	ordered  []domain.Product
}

// New copies products into a Catalog. Duplicate ids and non-positive prices are rejected.
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{products: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("catalog: product %q missing id or name", p.ID)
		}
		if p.UnitPriceCents <= 0 {
			return nil, fmt.Errorf("catalog: product %q has non-positive price", p.ID)
		}
		if _, dup := c.products[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		c.products[p.ID] = p
		c.ordered = append(c.ordered, p)
	}
	sort.Slice(c.ordered, func(i, j int) bool {
		return lessID(c.ordered[i].ID, c.ordered[j].ID)
	})
	return c, nil
}

// Lookup returns the product for id or domain.ErrNotFound.
func (c *Catalog) Lookup(id string) (domain.Product, error) {
	p, ok := c.products[strings.TrimSpace(id)]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

// List returns products ordered by id, narrowed to category when it is non-empty.
func (c *Catalog) List(category string) []domain.Product {
	category = strings.TrimSpace(category)
	out := make([]domain.Product, 0, len(c.ordered))
	for _, p := range c.ordered {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.ordered)
}

// lessID orders numeric ids numerically and everything else lexically.
func lessID(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
