package serialization

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStateDict(t *testing.T) map[string]*Tensor {
	t.Helper()
	weight, err := FromSlice([]float64{0.5, -0.25, 1e-9, 3}, 2, 2)
	require.NoError(t, err)
	bias, err := FromSlice([]float64{0, 0.125}, 2)
	require.NoError(t, err)
	return map[string]*Tensor{
		"layers.0.weight": weight,
		"layers.1.bias":   bias,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	stateDict := testStateDict(t)
	config := json.RawMessage(`{"activation":"RELU"}`)

	var buf bytes.Buffer
	err := Write(&buf, stateDict, Header{
		ModelType: "Network",
		Metadata:  map[string]string{"epoch": "3"},
		Config:    config,
	})
	require.NoError(t, err)

	loaded, header, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, header.FormatVersion)
	assert.Equal(t, "Network", header.ModelType)
	assert.Equal(t, "3", header.Metadata["epoch"])
	assert.JSONEq(t, string(config), string(header.Config))
	assert.False(t, header.CreatedAt.IsZero())
	require.Len(t, loaded, 2)
	for name, want := range stateDict {
		assert.Equal(t, want.Shape, loaded[name].Shape, name)
		assert.Equal(t, want.Data, loaded[name].Data, name)
	}
}

func TestWriteIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	header := Header{ModelType: "Network", CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, Write(&a, testStateDict(t), header))
	require.NoError(t, Write(&b, testStateDict(t), header))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestReadDetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testStateDict(t), Header{ModelType: "Network"}))

	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xFF

	_, _, err := Read(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	_, _, err = ReadWithOptions(bytes.NewReader(raw), ReaderOptions{SkipChecksumValidation: true})
	assert.NoError(t, err)
}

func TestReadRejectsBadInput(t *testing.T) {
	_, _, err := Read(bytes.NewReader([]byte("not a sprout file at all, but long enough to fill a fixed header!")))
	assert.ErrorIs(t, err, ErrInvalidMagic)

	_, _, err = Read(bytes.NewReader([]byte("SPRT")))
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testStateDict(t), Header{}))
	raw := buf.Bytes()
	raw[4] = 9
	_, _, err = Read(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

// encodeRaw lays out a .sprout stream from a hand-written header, bypassing
// the checks Write performs. The checksum matches data.
func encodeRaw(t *testing.T, header Header, data []byte, dataSize uint64) []byte {
	t.Helper()
	headerJSON, err := json.Marshal(header)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeFixedHeader(&buf, fixedHeader{
		Version:    FormatVersion,
		HeaderSize: uint64(len(headerJSON)),
		DataSize:   dataSize,
		Checksum:   ComputeChecksum(data),
	}))
	buf.Write(headerJSON)
	buf.Write(make([]byte, padding(int64(FixedHeaderSize+len(headerJSON)))))
	buf.Write(data)
	return buf.Bytes()
}

func TestReadRejectsOverflowingTensor(t *testing.T) {
	header := Header{
		FormatVersion: FormatVersion,
		ModelType:     "Network",
		Tensors: []TensorMeta{{
			Name:   "layers.0.weight",
			DType:  DTypeFloat64,
			Shape:  []int{1 << 59},
			Offset: 1 << 62,
			Size:   1 << 62,
		}},
	}
	data := make([]byte, elementSize)
	raw := encodeRaw(t, header, data, uint64(len(data)))

	tests := []struct {
		name    string
		level   ValidationLevel
		wantErr error
	}{
		{"strict", ValidationStrict, ErrShapeMismatch},
		{"normal", ValidationNormal, ErrOutOfBounds},
		{"none", ValidationNone, ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, _, err = ReadWithOptions(bytes.NewReader(raw), ReaderOptions{ValidationLevel: tt.level})
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadRejectsTruncatedData(t *testing.T) {
	header := Header{FormatVersion: FormatVersion, ModelType: "Network"}
	raw := encodeRaw(t, header, make([]byte, 16), MaxDataSize)

	_, _, err := Read(bytes.NewReader(raw))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestWriteRejectsInvalidTensors(t *testing.T) {
	var buf bytes.Buffer

	err := Write(&buf, map[string]*Tensor{"bad/name": NewTensor(1)}, Header{})
	assert.Error(t, err)

	err = Write(&buf, map[string]*Tensor{"w": {Shape: []int{2, 2}, Data: []float64{1}}}, Header{})
	assert.Error(t, err)
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.sprout")
	require.NoError(t, WriteFile(path, testStateDict(t), Header{ModelType: "Network"}))

	loaded, header, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Network", header.ModelType)

	w, err := Lookup(loaded, "layers.0.weight", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, w.Data[3])

	_, err = Lookup(loaded, "layers.0.weight", 4)
	assert.Error(t, err)
	_, err = Lookup(loaded, "missing", 1)
	assert.ErrorIs(t, err, ErrTensorNotFound)

	_, _, err = ReadFile(filepath.Join(t.TempDir(), "absent.sprout"))
	assert.Error(t, err)
}
