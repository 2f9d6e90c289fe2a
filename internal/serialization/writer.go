package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

// Write encodes a state dictionary with the given header to w.
//
// Tensor metadata, format version and checksum are filled in by Write;
// the caller supplies ModelType, Metadata and Config. A zero CreatedAt is
// replaced by the current UTC time.
func Write(w io.Writer, stateDict map[string]*Tensor, header Header) error {
	if len(stateDict) > MaxTensorCount {
		return &ValidationError{
			Err:     ErrTooManyTensors,
			Details: fmt.Sprintf("got %d, max %d", len(stateDict), MaxTensorCount),
		}
	}

	// Encode tensor data in name order
	var data bytes.Buffer
	header.Tensors = make([]TensorMeta, 0, len(stateDict))
	for _, name := range sortedNames(stateDict) {
		t := stateDict[name]
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tensor %s: %w", name, err)
		}

		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  DTypeFloat64,
			Shape:  append([]int(nil), t.Shape...),
			Offset: int64(data.Len()),
			Size:   int64(len(t.Data) * elementSize),
		})

		var buf [elementSize]byte
		for _, v := range t.Data {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			data.Write(buf[:])
		}
	}

	// Fill header defaults
	header.FormatVersion = FormatVersion
	header.SproutVersion = sproutVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if len(header.Config) > 0 {
		flags |= FlagHasConfig
	}

	fixed := fixedHeader{
		Version:    FormatVersion,
		Flags:      flags,
		HeaderSize: uint64(len(headerJSON)),
		DataSize:   uint64(data.Len()),
		Checksum:   ComputeChecksum(data.Bytes()),
	}

	if err := writeFixedHeader(w, fixed); err != nil {
		return err
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	//nolint:gosec // G115: header size is bounded by MaxHeaderSize
	pad := padding(int64(FixedHeaderSize) + int64(len(headerJSON)))
	if pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.Write(data.Bytes()); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}

	return nil
}

// WriteFile writes a state dictionary to a .sprout file, replacing any
// existing file at path.
func WriteFile(path string, stateDict map[string]*Tensor, header Header) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return Write(file, stateDict, header)
}

// writeFixedHeader writes the 64-byte binary prefix.
func writeFixedHeader(w io.Writer, h fixedHeader) error {
	buf := make([]byte, FixedHeaderSize)
	copy(buf[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.Flags)
	// 0x0C-0x0F reserved
	binary.LittleEndian.PutUint64(buf[16:24], h.HeaderSize)
	binary.LittleEndian.PutUint64(buf[24:32], h.DataSize)
	copy(buf[ChecksumOffset:ChecksumOffset+ChecksumSize], h.Checksum[:])

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	return nil
}
