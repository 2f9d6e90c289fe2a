package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// ReaderOptions configures how a .sprout stream is decoded.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// Read decodes a .sprout stream with strict validation.
func Read(r io.Reader) (map[string]*Tensor, Header, error) {
	return ReadWithOptions(r, ReaderOptions{ValidationLevel: ValidationStrict})
}

// ReadWithOptions decodes a .sprout stream with custom options.
func ReadWithOptions(r io.Reader, opts ReaderOptions) (map[string]*Tensor, Header, error) {
	fixed, err := readFixedHeader(r)
	if err != nil {
		return nil, Header{}, err
	}

	// Read header JSON
	headerBytes := make([]byte, fixed.HeaderSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, Header{}, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	// Skip alignment padding
	//nolint:gosec // G115: header size was bounded by readFixedHeader
	pad := padding(int64(FixedHeaderSize) + int64(fixed.HeaderSize))
	if _, err := io.CopyN(io.Discard, r, pad); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read padding: %w", err)
	}

	//nolint:gosec // G115: data size is checked against the header before allocation
	if err := ValidateHeader(&header, int64(fixed.DataSize), opts.ValidationLevel); err != nil {
		return nil, Header{}, fmt.Errorf("validation failed: %w", err)
	}

	// Grow with the stream rather than trusting the declared size.
	//nolint:gosec // G115: DataSize was bounded by readFixedHeader
	data, err := io.ReadAll(io.LimitReader(r, int64(fixed.DataSize)))
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if uint64(len(data)) != fixed.DataSize {
		return nil, Header{}, fmt.Errorf("failed to read tensor data: %w", io.ErrUnexpectedEOF)
	}

	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(ComputeChecksum(data), fixed.Checksum); err != nil {
			return nil, Header{}, err
		}
	}

	stateDict := make(map[string]*Tensor, len(header.Tensors))
	for _, meta := range header.Tensors {
		t, err := decodeTensor(meta, data)
		if err != nil {
			return nil, Header{}, fmt.Errorf("failed to load tensor %s: %w", meta.Name, err)
		}
		stateDict[meta.Name] = t
	}

	return stateDict, header, nil
}

// ReadFile decodes a .sprout file with strict validation.
func ReadFile(path string) (map[string]*Tensor, Header, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Lookup returns a tensor from a state dictionary, checking its shape.
func Lookup(stateDict map[string]*Tensor, name string, shape ...int) (*Tensor, error) {
	t, ok := stateDict[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTensorNotFound, name)
	}
	if !t.HasShape(shape...) {
		return nil, &ValidationError{
			Err:     ErrShapeMismatch,
			Tensor:  name,
			Details: fmt.Sprintf("got %v, want %v", t.Shape, shape),
		}
	}
	return t, nil
}

// readFixedHeader reads and checks the 64-byte binary prefix.
func readFixedHeader(r io.Reader) (fixedHeader, error) {
	buf := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fixedHeader{}, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if string(buf[0:4]) != MagicBytes {
		return fixedHeader{}, ErrInvalidMagic
	}

	h := fixedHeader{
		Version:    binary.LittleEndian.Uint32(buf[4:8]),
		Flags:      binary.LittleEndian.Uint32(buf[8:12]),
		HeaderSize: binary.LittleEndian.Uint64(buf[16:24]),
		DataSize:   binary.LittleEndian.Uint64(buf[24:32]),
	}
	copy(h.Checksum[:], buf[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if h.Version != FormatVersion {
		return fixedHeader{}, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, h.Version, FormatVersion)
	}
	if h.HeaderSize > MaxHeaderSize {
		return fixedHeader{}, ErrHeaderTooLarge
	}
	if h.DataSize > MaxDataSize {
		return fixedHeader{}, &ValidationError{
			Err:     ErrDataTooLarge,
			Details: fmt.Sprintf("data size %d > max %d", h.DataSize, int64(MaxDataSize)),
		}
	}

	return h, nil
}

// decodeTensor slices one tensor out of the data section.
func decodeTensor(meta TensorMeta, data []byte) (*Tensor, error) {
	if meta.DType != DTypeFloat64 {
		return nil, fmt.Errorf("unsupported dtype: %s", meta.DType)
	}
	size := int64(len(data))
	if meta.Offset < 0 || meta.Size < 0 || meta.Offset > size || meta.Size > size-meta.Offset {
		return nil, fmt.Errorf("%w: offset=%d size=%d", ErrOutOfBounds, meta.Offset, meta.Size)
	}
	if meta.Size%elementSize != 0 {
		return nil, &ValidationError{
			Err:     ErrShapeMismatch,
			Tensor:  meta.Name,
			Details: fmt.Sprintf("size %d is not a multiple of %d", meta.Size, elementSize),
		}
	}

	t := &Tensor{
		Shape: append([]int(nil), meta.Shape...),
		Data:  make([]float64, meta.Size/elementSize),
	}
	raw := data[meta.Offset : meta.Offset+meta.Size]
	for i := range t.Data {
		t.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*elementSize:]))
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
