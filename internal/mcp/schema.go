package mcp

import "github.com/nvandessel/simdata/internal/electoral"

// SimulateDivisionsInput defines the input for the simulate_divisions tool.
type SimulateDivisionsInput struct {
	Seed   *uint64 `json:"seed,omitempty" jsonschema:"Generator seed (default: the configured seed)"`
	Count  int     `json:"count,omitempty" jsonschema:"Number of divisions to draw (default: 151)"`
	Output string  `json:"output,omitempty" jsonschema:"CSV path relative to the server root. When empty nothing is written"`
}

// SimulateDivisionsOutput defines the output for the simulate_divisions tool.
type SimulateDivisionsOutput struct {
	RunID     string               `json:"run_id,omitempty" jsonschema:"Run id when the run was written to disk"`
	Seed      uint64               `json:"seed" jsonschema:"Seed used for the run"`
	Count     int                  `json:"count" jsonschema:"Number of divisions drawn"`
	Output    string               `json:"output,omitempty" jsonschema:"Path of the written CSV"`
	States    map[string]int       `json:"states" jsonschema:"Number of divisions per state"`
	Parties   map[string]int       `json:"parties" jsonschema:"Number of divisions per party"`
	Divisions []electoral.Division `json:"divisions" jsonschema:"Drawn divisions in order"`
}

// SimulateSalesInput defines the input for the simulate_sales tool.
type SimulateSalesInput struct {
	Seed  *uint64 `json:"seed,omitempty" jsonschema:"Generator seed (default: the configured seed)"`
	Count int     `json:"count,omitempty" jsonschema:"Number of sales records (default: 15)"`
}

// SimulateSalesOutput defines the output for the simulate_sales tool.
type SimulateSalesOutput struct {
	RunID   string    `json:"run_id" jsonschema:"Run id"`
	Seed    uint64    `json:"seed" jsonschema:"Seed used for the run"`
	Count   int       `json:"count" jsonschema:"Number of records"`
	Records []SaleRow `json:"records" jsonschema:"Sales records in timestamp order"`
}

// SaleRow is one sales record with its time and price rendered as text.
type SaleRow struct {
	Timestamp    string `json:"nowtime"`
	Vendor       string `json:"vendor"`
	ProductID    int    `json:"product_id"`
	ProductName  string `json:"product_name"`
	Brand        string `json:"brand"`
	CurrentPrice string `json:"current_price"`
	Units        string `json:"units"`
}
