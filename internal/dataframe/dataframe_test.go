package dataframe

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "x;y;class\r\n0;1;on\r\n1;0;on\r\n1;1;off\r\n"

func TestRead(t *testing.T) {
	df, err := Read(strings.NewReader(sample), 0, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y", "class"}, df.Header())
	assert.Equal(t, 3, df.Len())
	assert.Equal(t, [][]string{{"0", "1", "on"}, {"1", "0", "on"}}, df.Head(2))
	assert.Len(t, df.Head(10), 3)

	class, ok := df.Col("class")
	require.True(t, ok)
	assert.Equal(t, []string{"on", "on", "off"}, class.Data)

	_, ok = df.Col("missing")
	assert.False(t, ok)
}

func TestReadWithHeader(t *testing.T) {
	df, err := Read(strings.NewReader("1,2\n3,4\n"), ',', []string{"a", "b"})
	require.NoError(t, err)

	m, err := df.Matrix("b", "a")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2, 1}, {4, 3}}, m)
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(strings.NewReader(""), ';', nil)
	assert.Error(t, err)
}

func TestRaggedRows(t *testing.T) {
	df := New([]string{"a", "b"}, [][]string{{"1"}, {"2", "3"}})

	b, ok := df.Col("b")
	require.True(t, ok)
	assert.Equal(t, []string{"", "3"}, b.Data)
}

func TestColumnApplyAndHead(t *testing.T) {
	df, err := Read(strings.NewReader(sample), ';', nil)
	require.NoError(t, err)

	x, _ := df.Col("x")
	x.Apply(func(v string) string { return v + ".5" })
	assert.Equal(t, []string{"0.5", "1.5"}, x.Head(2))

	m, err := df.Matrix("x")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5}, {1.5}, {1.5}}, m)
}

func TestMatrixErrors(t *testing.T) {
	df, err := Read(strings.NewReader(sample), ';', nil)
	require.NoError(t, err)

	_, err = df.Matrix("x", "nope")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = df.Matrix("class")
	assert.Error(t, err)
}

func TestOneHot(t *testing.T) {
	df, err := Read(strings.NewReader(sample), ';', nil)
	require.NoError(t, err)

	y, labels, err := df.OneHot("class")
	require.NoError(t, err)
	assert.Equal(t, []string{"off", "on"}, labels)
	assert.Equal(t, [][]float64{{0, 1}, {0, 1}, {1, 0}}, y)

	_, _, err = df.OneHot("nope")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	df, err := ReadCSV(path, ';', nil)
	require.NoError(t, err)
	assert.Equal(t, 3, df.Len())

	_, err = ReadCSV(filepath.Join(dir, "data.txt"), ';', nil)
	assert.ErrorIs(t, err, ErrNotCSV)

	_, err = ReadCSV(filepath.Join(dir, "absent.csv"), ';', nil)
	assert.Error(t, err)
}

func TestMatrixLargeFrame(t *testing.T) {
	n := 5000
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{strconv.Itoa(i), strconv.Itoa(-i)}
	}
	rows[4321][1] = "bad"

	df := New([]string{"a", "b"}, rows)
	_, err := df.Matrix("a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column b row 4321")

	rows[4321][1] = "-4321"
	m, err := df.Matrix("b", "a")
	require.NoError(t, err)
	require.Len(t, m, n)
	for i, row := range m {
		assert.Equal(t, []float64{float64(-i), float64(i)}, row)
	}
}
