// Package sales simulates vendor sales of catalog products.
//
// The output is a demo table: it is printed and optionally exported to
// Parquet, but nothing else in simdata consumes it.
package sales

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nvandessel/simdata/internal/catalog"
	"github.com/nvandessel/simdata/internal/sampling"
)

// DefaultRecordCount is the number of simulated sales.
const DefaultRecordCount = 15

// secondsPerRecord spreads timestamps over Count minutes.
const secondsPerRecord = 60

// DefaultVendors are the vendor labels drawn uniformly for each sale.
var DefaultVendors = []string{"sixers", "LA Clipper", "NY Knicks", "LA Lakers"}

// Config controls a sales simulation.
type Config struct {
	Count   int
	Vendors []string
	// ProductWeights gives the probability of each catalog product, in catalog order.
	ProductWeights []float64
}

// DefaultConfig returns 15 sales over the default vendors with uniform product odds.
func DefaultConfig() Config {
	return Config{
		Count:          DefaultRecordCount,
		Vendors:        append([]string(nil), DefaultVendors...),
		ProductWeights: []float64{0.25, 0.25, 0.25, 0.25},
	}
}

// Record is one sale joined with its catalog product.
type Record struct {
	Timestamp    time.Time       `json:"nowtime"`
	Vendor       string          `json:"vendor"`
	ProductID    int             `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Brand        string          `json:"brand"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Units        string          `json:"units"`
}

// Simulate draws cfg.Count sales starting at now, ordered by timestamp.
//
// Draw order is fixed: timestamp offsets, then vendors, then product ids.
func Simulate(cfg Config, cat *catalog.Catalog, rng *rand.Rand, now time.Time) ([]Record, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("sales count must be positive, got %d", cfg.Count)
	}
	if err := sampling.CheckCount(cfg.Count); err != nil {
		return nil, fmt.Errorf("sales count: %w", err)
	}

	vendors, err := sampling.Uniform(cfg.Vendors)
	if err != nil {
		return nil, fmt.Errorf("vendor options: %w", err)
	}
	products, err := sampling.New(cat.IDs(), cfg.ProductWeights)
	if err != nil {
		return nil, fmt.Errorf("product probabilities: %w", err)
	}

	offsets, err := sampling.UniformOffsets(cfg.Count, float64(cfg.Count*secondsPerRecord), rng)
	if err != nil {
		return nil, fmt.Errorf("sampling timestamps: %w", err)
	}
	sort.Float64s(offsets)

	vendorDraws, err := vendors.Draw(cfg.Count, rng)
	if err != nil {
		return nil, fmt.Errorf("sampling vendors: %w", err)
	}
	productDraws, err := products.Draw(cfg.Count, rng)
	if err != nil {
		return nil, fmt.Errorf("sampling products: %w", err)
	}

	records := make([]Record, cfg.Count)
	for i := range records {
		p, err := cat.Lookup(productDraws[i])
		if err != nil {
			return nil, fmt.Errorf("joining sale %d: %w", i, err)
		}
		records[i] = Record{
			Timestamp:    now.Add(time.Duration(offsets[i] * float64(time.Second))),
			Vendor:       vendorDraws[i],
			ProductID:    p.ID,
			ProductName:  p.Name,
			Brand:        p.Brand,
			CurrentPrice: p.Price,
			Units:        p.Units,
		}
	}
	return records, nil
}
