package serialization

import (
	"crypto/sha256"
	"io"
)

// ChecksumSize is the size of a SHA-256 digest.
const ChecksumSize = sha256.Size

// ComputeChecksum computes the SHA-256 checksum of data.
func ComputeChecksum(data []byte) [ChecksumSize]byte {
	return sha256.Sum256(data)
}

// ComputeChecksumReader computes the SHA-256 checksum of everything read from r.
func ComputeChecksumReader(r io.Reader) ([ChecksumSize]byte, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return [ChecksumSize]byte{}, err
	}
	var sum [ChecksumSize]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// ValidateChecksum returns ErrChecksumMismatch unless both digests match.
func ValidateChecksum(computed, stored [ChecksumSize]byte) error {
	if computed != stored {
		return ErrChecksumMismatch
	}
	return nil
}
