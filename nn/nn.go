// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"io"
	"math/rand"

	"github.com/born-ml/sprout/internal/nn"
)

// Errors

var (
	// ErrConfiguration reports an invalid topology, label set, learning rate
	// or dataset.
	ErrConfiguration = nn.ErrConfiguration

	// ErrIO reports a missing or malformed persisted network.
	ErrIO = nn.ErrIO

	// ErrInputSize reports an input that does not match the input layer.
	ErrInputSize = nn.ErrInputSize

	// ErrTargetSize reports a target that does not match the output layer.
	ErrTargetSize = nn.ErrTargetSize
)

// RecordError describes why a persisted record could not be applied.
type RecordError = nn.RecordError

// Activations

// Activation selects the activation function of a Network.
type Activation = nn.Activation

// Supported activations.
const (
	ActivationSigmoid    = nn.ActivationSigmoid
	ActivationReLU       = nn.ActivationReLU
	ActivationCappedReLU = nn.ActivationCappedReLU
	ActivationTanh       = nn.ActivationTanh
)

// ParseActivation maps a persisted name ("SIGMOID", "RELU", "CAPPED RELU",
// "TANH") to an Activation.
func ParseActivation(name string) (Activation, error) {
	return nn.ParseActivation(name)
}

// Softmax converts raw scores into a probability distribution.
func Softmax(logits []float64) []float64 {
	return nn.Softmax(logits)
}

// Networks

// DefaultLearningRate is the learning rate of the sequence model's networks.
const DefaultLearningRate = nn.DefaultLearningRate

// NetworkConfig holds the construction parameters of a Network.
type NetworkConfig = nn.NetworkConfig

// Network is a fully connected feedforward network.
type Network = nn.Network

// NewNetwork creates a Network with randomly initialized weights.
//
// Example:
//
//	net, err := nn.NewNetwork(nn.NetworkConfig{
//	    Sizes:        []int{4, 8, 3},
//	    LearningRate: 0.05,
//	})
func NewNetwork(cfg NetworkConfig) (*Network, error) {
	return nn.NewNetwork(cfg)
}

// Record is the structured form of a Network.
type Record = nn.Record

// Connection is one persisted weight.
type Connection = nn.Connection

// LoadRecord builds a Network from a record.
func LoadRecord(rec Record) (*Network, error) {
	return nn.LoadRecord(rec)
}

// Undump reads a JSON record written by Network.Dump.
func Undump(r io.Reader) (*Network, error) {
	return nn.Undump(r)
}

// Checkpoint is a Network saved with training metadata.
type Checkpoint = nn.Checkpoint

// LoadCheckpoint reads a checkpoint written by Checkpoint.Save.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path)
}

// LoadFile reads a network written by Network.Save.
func LoadFile(path string) (*Network, error) {
	return nn.LoadFile(path)
}

// Recurrent cells

// CellParams are the 12 parameters of a RecurrentCell.
type CellParams = nn.CellParams

// RecurrentCell is a scalar LSTM-like unit.
type RecurrentCell = nn.RecurrentCell

// NewRecurrentCell creates a cell with parameters drawn from [0, 5).
func NewRecurrentCell(rng *rand.Rand) *RecurrentCell {
	return nn.NewRecurrentCell(rng)
}

// NewRecurrentCellWithParams creates a cell with fixed parameters.
func NewRecurrentCellWithParams(p CellParams) *RecurrentCell {
	return nn.NewRecurrentCellWithParams(p)
}

// Pipelines

// Estimator is anything that can be fitted to a dataset.
type Estimator = nn.Estimator

// Pipeline fits a chain of estimators in order.
type Pipeline = nn.Pipeline

// NewPipeline creates a Pipeline from its steps.
func NewPipeline(steps ...Estimator) *Pipeline {
	return nn.NewPipeline(steps...)
}
