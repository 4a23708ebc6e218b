package sales

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/nvandessel/simdata/internal/dataset"
)

// priceScale is the number of fractional digits stored for prices.
const priceScale = 2

// Schema is the column layout of the sales table.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "nowtime", Type: &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}},
	{Name: "vendor", Type: arrow.BinaryTypes.String},
	{Name: "product_id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "product_name", Type: arrow.BinaryTypes.String},
	{Name: "brand", Type: arrow.BinaryTypes.String},
	{Name: "current_price", Type: &arrow.Decimal128Type{Precision: 12, Scale: priceScale}},
	{Name: "units", Type: arrow.BinaryTypes.String},
}, nil)

// Table builds an Arrow record with one row per sale. The caller releases the record.
func Table(records []Record) arrow.Record {
	b := array.NewRecordBuilder(memory.DefaultAllocator, Schema)
	defer b.Release()

	ts := b.Field(0).(*array.TimestampBuilder)
	vendor := b.Field(1).(*array.StringBuilder)
	id := b.Field(2).(*array.Int64Builder)
	name := b.Field(3).(*array.StringBuilder)
	brand := b.Field(4).(*array.StringBuilder)
	price := b.Field(5).(*array.Decimal128Builder)
	units := b.Field(6).(*array.StringBuilder)

	for _, r := range records {
		ts.Append(arrow.Timestamp(r.Timestamp.UTC().UnixNano()))
		vendor.Append(r.Vendor)
		id.Append(int64(r.ProductID))
		name.Append(r.ProductName)
		brand.Append(r.Brand)
		price.Append(decimal128.FromI64(r.CurrentPrice.Round(priceScale).Shift(priceScale).IntPart()))
		units.Append(r.Units)
	}
	return b.NewRecord()
}

// WriteParquet writes records to path as Parquet.
func WriteParquet(path string, records []Record) error {
	rec := Table(records)
	defer rec.Release()

	if err := dataset.WriteParquet(path, rec); err != nil {
		return fmt.Errorf("writing sales: %w", err)
	}
	return nil
}
