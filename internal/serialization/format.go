package serialization

import (
	"encoding/json"
	"time"
)

// Format constants.
const (
	MagicBytes      = "SPRT"
	FormatVersion   = 1  // v1: fixed header with SHA-256 checksum
	HeaderAlignment = 64 // Align tensor data to 64 bytes
	FixedHeaderSize = 64 // Fixed header size (0x40 bytes)
	ChecksumOffset  = 0x20
	sproutVersion   = "0.3.0"
)

// DTypeFloat64 is the only element type stored in .sprout files.
const DTypeFloat64 = "float64"

// elementSize is the size in bytes of one float64 element.
const elementSize = 8

// Flags for the .sprout format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
	FlagHasConfig   uint32 = 1 << 1 // bit 1: model configuration included
)

// Header represents the JSON header of a .sprout file.
type Header struct {
	FormatVersion int               `json:"format_version"`   // Version of the .sprout format
	SproutVersion string            `json:"sprout_version"`   // Version of sprout that wrote the file
	ModelType     string            `json:"model_type"`       // Type of model (e.g., "Network", "SequenceModel")
	CreatedAt     time.Time         `json:"created_at"`       // When the file was created
	Tensors       []TensorMeta      `json:"tensors"`          // Tensor metadata
	Metadata      map[string]string `json:"metadata"`         // Custom metadata
	Config        json.RawMessage   `json:"config,omitempty"` // Model configuration (topology, labels, ...)
}

// TensorMeta describes a tensor in the .sprout file.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "layers.0.weight")
	DType  string `json:"dtype"`  // Data type, always "float64"
	Shape  []int  `json:"shape"`  // Tensor shape
	Offset int64  `json:"offset"` // Offset in the data section
	Size   int64  `json:"size"`   // Size in bytes
}

// fixedHeader is the binary prefix of every .sprout file.
type fixedHeader struct {
	Version    uint32
	Flags      uint32
	HeaderSize uint64
	DataSize   uint64
	Checksum   [ChecksumSize]byte
}

// dataOffset returns where the tensor data starts for a header of the given size.
func dataOffset(headerSize uint64) int64 {
	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	pos := int64(FixedHeaderSize) + int64(headerSize)
	return pos + padding(pos)
}

// padding returns the number of zero bytes needed to align pos.
func padding(pos int64) int64 {
	return (HeaderAlignment - (pos % HeaderAlignment)) % HeaderAlignment
}
