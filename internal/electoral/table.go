package electoral

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/nvandessel/simdata/internal/dataset"
)

// DefaultOutputPath is where the division table is written.
const DefaultOutputPath = "data/00-simulated_data/simulated_data.csv"

// Schema is the column layout of the division table.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "division", Type: arrow.BinaryTypes.String},
	{Name: "state", Type: arrow.BinaryTypes.String},
	{Name: "party", Type: arrow.BinaryTypes.String},
}, nil)

// Table builds an Arrow record with one row per division, in order.
// The caller releases the record.
func Table(divisions []Division) arrow.Record {
	b := array.NewRecordBuilder(memory.DefaultAllocator, Schema)
	defer b.Release()

	names := b.Field(0).(*array.StringBuilder)
	states := b.Field(1).(*array.StringBuilder)
	parties := b.Field(2).(*array.StringBuilder)
	for _, d := range divisions {
		names.Append(d.Name)
		states.Append(d.State)
		parties.Append(d.Party)
	}
	return b.NewRecord()
}

// WriteCSV writes divisions to path with a division,state,party header,
// replacing any existing file. The parent directory must already exist.
func WriteCSV(path string, divisions []Division) error {
	rec := Table(divisions)
	defer rec.Release()

	if err := dataset.WriteCSV(path, rec); err != nil {
		return fmt.Errorf("writing divisions: %w", err)
	}
	return nil
}

// WriteParquet writes divisions to path as Parquet.
func WriteParquet(path string, divisions []Division) error {
	rec := Table(divisions)
	defer rec.Release()

	if err := dataset.WriteParquet(path, rec); err != nil {
		return fmt.Errorf("writing divisions: %w", err)
	}
	return nil
}

// ReadCSV loads a division table previously written by WriteCSV.
func ReadCSV(path string) ([]Division, error) {
	rec, err := dataset.ReadCSV(path, Schema)
	if err != nil {
		return nil, fmt.Errorf("reading divisions: %w", err)
	}
	defer rec.Release()

	names := rec.Column(0).(*array.String)
	states := rec.Column(1).(*array.String)
	parties := rec.Column(2).(*array.String)

	divisions := make([]Division, rec.NumRows())
	for i := range divisions {
		divisions[i] = Division{
			Name:  names.Value(i),
			State: states.Value(i),
			Party: parties.Value(i),
		}
	}
	return divisions, nil
}
