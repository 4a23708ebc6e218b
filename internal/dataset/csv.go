package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	arrowcsv "github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// ErrHeaderMismatch is returned by ReadCSV when the header row does not match the schema.
var ErrHeaderMismatch = errors.New("csv header does not match schema")

// WriteCSV writes rec as comma-separated values with a header row, replacing
// any existing file at path.
func WriteCSV(path string, rec arrow.Record) error {
	return atomicWrite(path, func(w io.Writer) error {
		return EncodeCSV(w, rec)
	})
}

// EncodeCSV writes rec to w as comma-separated values with a header row.
func EncodeCSV(w io.Writer, rec arrow.Record) error {
	cw := arrowcsv.NewWriter(w, rec.Schema(),
		arrowcsv.WithComma(','),
		arrowcsv.WithHeader(true),
	)
	if err := cw.Write(rec); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	if err := cw.Flush(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// ReadCSV reads a CSV file with a header row into a single record.
// The header must name the schema fields in order. Only string columns are
// supported. The caller releases the record.
func ReadCSV(path string, schema *arrow.Schema) (arrow.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if err := checkHeader(br, schema); err != nil {
		return nil, err
	}

	r := arrowcsv.NewReader(br, schema,
		arrowcsv.WithComma(','),
		arrowcsv.WithHeader(false),
		arrowcsv.WithChunk(-1),
		arrowcsv.WithAllocator(memory.DefaultAllocator),
	)
	defer r.Release()

	var records []arrow.Record
	defer func() {
		for _, rec := range records {
			rec.Release()
		}
	}()
	for r.Next() {
		rec := r.Record()
		rec.Retain()
		records = append(records, rec)
	}
	if err := r.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	return concatRecords(schema, records), nil
}

// checkHeader consumes the header line from br and compares it to the schema.
func checkHeader(br *bufio.Reader, schema *arrow.Schema) error {
	header, err := csv.NewReader(strings.NewReader(readLine(br))).Read()
	if err != nil {
		return fmt.Errorf("reading csv header: %w", err)
	}

	fields := schema.Fields()
	if len(header) != len(fields) {
		return fmt.Errorf("%w: got %d columns, want %d", ErrHeaderMismatch, len(header), len(fields))
	}
	for i, f := range fields {
		if header[i] != f.Name {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrHeaderMismatch, i, header[i], f.Name)
		}
	}
	return nil
}

func readLine(br *bufio.Reader) string {
	line, _ := br.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// concatRecords merges chunks into one record. An empty input yields a zero-row record.
func concatRecords(schema *arrow.Schema, records []arrow.Record) arrow.Record {
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()

	if len(records) == 1 {
		records[0].Retain()
		return records[0]
	}

	for _, rec := range records {
		for col := 0; col < int(rec.NumCols()); col++ {
			appendColumn(b.Field(col), rec.Column(col))
		}
	}
	return b.NewRecord()
}

// appendColumn copies string values from src into dst. Other types are appended as nulls.
func appendColumn(dst array.Builder, src arrow.Array) {
	sb, ok := dst.(*array.StringBuilder)
	strs, isString := src.(*array.String)
	for i := 0; i < src.Len(); i++ {
		if !ok || !isString || src.IsNull(i) {
			dst.AppendNull()
			continue
		}
		sb.Append(strs.Value(i))
	}
}
