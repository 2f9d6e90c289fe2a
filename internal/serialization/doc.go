// Package serialization implements the .sprout record format used to persist
// network and sequence-model parameters.
//
// The format stores a JSON header followed by float64 tensor data:
//
//	Format Structure:
//	  [4 bytes:  Magic "SPRT"]
//	  [4 bytes:  Version (uint32 LE)]
//	  [4 bytes:  Flags (uint32 LE)]
//	  [4 bytes:  Reserved]
//	  [8 bytes:  Header Size (uint64 LE)]
//	  [8 bytes:  Data Size (uint64 LE)]
//	  [32 bytes: SHA-256 of the data section]
//	  [Header: JSON metadata]
//	  [Tensor data: little-endian float64, 64-byte aligned]
//
// Tensors are written in name order, so identical state dictionaries always
// produce identical data sections.
//
// Example usage:
//
//	header := serialization.Header{ModelType: "Network", Config: cfgJSON}
//	if err := serialization.WriteFile("model.sprout", stateDict, header); err != nil {
//	    return err
//	}
//
//	stateDict, header, err := serialization.ReadFile("model.sprout")
//	if err != nil {
//	    return err
//	}
package serialization
