// Package dataframe loads delimited text tables into named string columns
// and converts them to float matrices for training.
package dataframe

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/born-ml/sprout/internal/parallel"
)

// DefaultSeparator is the field separator used when none is given.
const DefaultSeparator = ';'

var (
	// ErrNotCSV is returned by ReadCSV for paths without a .csv extension.
	ErrNotCSV = errors.New("imported file is not a CSV file")

	// ErrUnknownColumn is returned when a column name is not in the header.
	ErrUnknownColumn = errors.New("unknown column")
)

// Column is one named column of a DataFrame.
type Column struct {
	Name string
	Data []string
}

// Apply replaces every value with fn(value).
func (c *Column) Apply(fn func(string) string) {
	for i, v := range c.Data {
		c.Data[i] = fn(v)
	}
}

// Head returns the first n values.
func (c *Column) Head(n int) []string {
	return append([]string(nil), c.Data[:min(n, len(c.Data))]...)
}

// Floats parses every value as a float64.
func (c *Column) Floats() ([]float64, error) {
	out := make([]float64, len(c.Data))
	for i, v := range c.Data {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", c.Name, i, err)
		}
		out[i] = f
	}
	return out, nil
}

// DataFrame is a table of string values with one Column per header entry.
type DataFrame struct {
	header  []string
	rows    [][]string
	columns []*Column
}

// New builds a DataFrame. Rows shorter than the header yield empty values
// in the missing columns.
func New(header []string, rows [][]string) *DataFrame {
	df := &DataFrame{
		header:  append([]string(nil), header...),
		rows:    rows,
		columns: make([]*Column, len(header)),
	}
	for i, name := range header {
		data := make([]string, len(rows))
		for r, row := range rows {
			if i < len(row) {
				data[r] = row[i]
			}
		}
		df.columns[i] = &Column{Name: name, Data: data}
	}
	return df
}

// ReadCSV reads a delimited file. The first record is the header unless
// header is non-nil. A zero sep uses DefaultSeparator.
func ReadCSV(path string, sep rune, header []string) (*DataFrame, error) {
	if !strings.HasSuffix(path, ".csv") {
		return nil, fmt.Errorf("%w: %s", ErrNotCSV, path)
	}

	//nolint:gosec // G304: reading a user-specified dataset is intentional
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file, sep, header)
}

// Read parses delimited records from r. See ReadCSV.
func Read(r io.Reader, sep rune, header []string) (*DataFrame, error) {
	if sep == 0 {
		sep = DefaultSeparator
	}

	reader := csv.NewReader(r)
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if header == nil {
		if len(records) == 0 {
			return nil, errors.New("CSV file is empty or missing header")
		}
		header, records = records[0], records[1:]
	}

	return New(header, records), nil
}

// Header returns the column names.
func (df *DataFrame) Header() []string {
	return append([]string(nil), df.header...)
}

// Len returns the number of rows.
func (df *DataFrame) Len() int {
	return len(df.rows)
}

// Col returns the first column with the given name.
func (df *DataFrame) Col(name string) (*Column, bool) {
	for _, c := range df.columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Head returns the first n raw rows.
func (df *DataFrame) Head(n int) [][]string {
	return df.rows[:min(n, len(df.rows))]
}

// Matrix returns the named columns as float rows, one row per record.
// Values changed through Column.Apply are used. Large frames are parsed on
// several goroutines; the reported error is the one of the first bad row.
func (df *DataFrame) Matrix(names ...string) ([][]float64, error) {
	cols := make([]*Column, len(names))
	for j, name := range names {
		c, ok := df.Col(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
		cols[j] = c
	}

	out := make([][]float64, len(df.rows))
	err := parallel.For(len(out), func(i int) error {
		row := make([]float64, len(cols))
		for j, c := range cols {
			f, err := strconv.ParseFloat(strings.TrimSpace(c.Data[i]), 64)
			if err != nil {
				return fmt.Errorf("column %s row %d: %w", c.Name, i, err)
			}
			row[j] = f
		}
		out[i] = row
		return nil
	}, parallel.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return out, nil
}

// OneHot encodes a categorical column. Labels are the distinct values in
// sorted order; row i of the result has a 1 at the index of its label.
func (df *DataFrame) OneHot(name string) ([][]float64, []string, error) {
	c, ok := df.Col(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}

	index := make(map[string]int)
	for _, v := range c.Data {
		index[v] = 0
	}
	labels := make([]string, 0, len(index))
	for v := range index {
		labels = append(labels, v)
	}
	sort.Strings(labels)
	for i, v := range labels {
		index[v] = i
	}

	out := make([][]float64, len(c.Data))
	for i, v := range c.Data {
		out[i] = make([]float64, len(labels))
		out[i][index[v]] = 1
	}
	return out, labels, nil
}
