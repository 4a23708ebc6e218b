// Package catalog holds the fixed product lookup table used by the sales simulator.
package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned by Lookup for an id outside the catalog.
var ErrProductNotFound = errors.New("product not found")

// Product is an immutable catalog row.
type Product struct {
	ID    int             `json:"product_id"`
	Name  string          `json:"product_name"`
	Brand string          `json:"brand"`
	Price decimal.Decimal `json:"current_price"`
	Units string          `json:"units"`
}

// Catalog is a product lookup table keyed by product id.
// Iteration order is the order products were added.
type Catalog struct {
	byID  map[int]Product
	order []int
}

// New builds a catalog. Ids must be unique and at least one product is required.
func New(products ...Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog requires at least one product")
	}

	c := &Catalog{
		byID:  make(map[int]Product, len(products)),
		order: make([]int, 0, len(products)),
	}
	for _, p := range products {
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		c.byID[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c, nil
}

// Default returns the four-row egg catalog.
func Default() *Catalog {
	c, err := New(
		Product{ID: 1, Name: "Ben Simmons egg", Brand: "Nike", Price: decimal.RequireFromString("0.99"), Units: "1 per pack"},
		Product{ID: 2, Name: "James Harden egg", Brand: "Adidas", Price: decimal.NewFromInt(100), Units: "1 per pack"},
		Product{ID: 3, Name: "NY media egg", Brand: "NYT", Price: decimal.RequireFromString("0.01"), Units: "12 per pack"},
		Product{ID: 4, Name: "Lebron James egg", Brand: "Nike", Price: decimal.RequireFromString("9.9"), Units: "1 per pack"},
	)
	if err != nil {
		// The literal table above has unique ids.
		panic(err)
	}
	return c
}

// Lookup returns the product with the given id.
func (c *Catalog) Lookup(id int) (Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return p, nil
}

// IDs returns product ids in catalog order.
func (c *Catalog) IDs() []int {
	return append([]int(nil), c.order...)
}

// Products returns all products in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.order)
}
