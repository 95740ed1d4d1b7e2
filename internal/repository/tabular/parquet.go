package tabular

import (
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

// ReadParquet decodes a flat Parquet file into a table keyed by column name.
func ReadParquet(r io.ReaderAt, size int64) (Table, error) {
	file, err := parquet.OpenFile(r, size)
	if err != nil {
		return Table{}, fmt.Errorf("%w: open parquet: %v", ErrMalformed, err)
	}

	fields := file.Schema().Fields()
	table := Table{Columns: make([]string, 0, len(fields))}
	for _, field := range fields {
		table.Columns = append(table.Columns, field.Name())
	}

	reader := parquet.NewReader(file)
	defer reader.Close()

	for {
		row := make(map[string]interface{}, len(table.Columns))
		if err := reader.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Table{}, fmt.Errorf("%w: read parquet row %d: %v", ErrMalformed, len(table.Rows)+1, err)
		}
		table.Rows = append(table.Rows, Row(row))
	}
	return table, nil
}
