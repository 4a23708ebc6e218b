package electoral

import "fmt"

// ValidationError describes one problem found in a division table.
type ValidationError struct {
	Row   int    `json:"row"`   // 1-based data row, 0 for table-level issues
	Field string `json:"field"` // "division", "state", "party", or "count"
	Value string `json:"value"`
	Issue string `json:"issue"` // "unknown-state", "unknown-party", "out-of-order", "empty", "count"
}

// String returns a human-readable description of the validation error.
func (e ValidationError) String() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s: %s", e.Issue, e.Value)
	}
	return fmt.Sprintf("row %d: %s %s %q", e.Row, e.Issue, e.Field, e.Value)
}

// Validate checks a division table against cfg:
// - exactly cfg.Count rows
// - names are "Division 1".."Division N" in order
// - every state and party belongs to the configured distributions
func Validate(divisions []Division, cfg Config) []ValidationError {
	var errs []ValidationError

	if len(divisions) != cfg.Count {
		errs = append(errs, ValidationError{
			Field: "count",
			Value: fmt.Sprintf("got %d rows, want %d", len(divisions), cfg.Count),
			Issue: "count",
		})
	}

	states := toSet(cfg.States.Values)
	parties := toSet(cfg.Parties.Values)

	for i, d := range divisions {
		row := i + 1
		if d.Name != DivisionName(row) {
			errs = append(errs, ValidationError{Row: row, Field: "division", Value: d.Name, Issue: "out-of-order"})
		}
		errs = append(errs, checkMember(row, "state", d.State, states)...)
		errs = append(errs, checkMember(row, "party", d.Party, parties)...)
	}

	return errs
}

func checkMember(row int, field, value string, allowed map[string]bool) []ValidationError {
	if value == "" {
		return []ValidationError{{Row: row, Field: field, Value: value, Issue: "empty"}}
	}
	if !allowed[value] {
		return []ValidationError{{Row: row, Field: field, Value: value, Issue: "unknown-" + field}}
	}
	return nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
