package dataset

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
)

// parquetChunkSize is the maximum row group length.
const parquetChunkSize = 1024

// WriteParquet writes rec as a snappy-compressed Parquet file, replacing any
// existing file at path.
func WriteParquet(path string, rec arrow.Record) error {
	return atomicWrite(path, func(w io.Writer) error {
		tbl := array.NewTableFromRecords(rec.Schema(), []arrow.Record{rec})
		defer tbl.Release()

		props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
		if err := pqarrow.WriteTable(tbl, w, parquetChunkSize, props, pqarrow.DefaultWriterProps()); err != nil {
			return fmt.Errorf("writing parquet: %w", err)
		}
		return nil
	})
}

// ReadParquet loads a Parquet file into a table. The caller releases the table.
func ReadParquet(ctx context.Context, path string) (arrow.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening parquet: %w", err)
	}
	defer f.Close()

	tbl, err := pqarrow.ReadTable(ctx, f, parquet.NewReaderProperties(memory.DefaultAllocator),
		pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("reading parquet: %w", err)
	}
	return tbl, nil
}
