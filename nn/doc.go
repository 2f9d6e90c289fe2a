// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides dense feedforward networks, scalar recurrent cells and
// their persistence.
//
// # Overview
//
// This package contains:
//   - Network: fully connected layers trained one example at a time
//   - Activations: SIGMOID, RELU, CAPPED RELU, TANH, plus Softmax
//   - RecurrentCell: a scalar LSTM-like unit with short- and long-term memory
//   - Persistence: JSON records (Dump/Undump) and .sprout checkpoints
//   - Pipeline: fits several estimators on the same dataset
//
// # Basic Usage
//
//	import "github.com/born-ml/sprout/nn"
//
//	func main() {
//	    net, err := nn.NewNetwork(nn.NetworkConfig{
//	        Sizes:        []int{2, 4, 2},
//	        Labels:       []string{"off", "on"},
//	        Activation:   nn.ActivationTanh,
//	        LearningRate: 0.1,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    for epoch := 0; epoch < 100; epoch++ {
//	        if err := net.Fit(X, Y); err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//
//	    label, err := net.Predict([]float64{1, 0})
//	}
//
// # Training Rules
//
// The output layer is always passed through Softmax after its activation.
// Backpropagation uses the sigmoid derivative for the output error, scales
// every weight step by the weight itself and updates layer 0 biases as
// well. See Network.Backpropagate for the exact rules.
//
// # Persistence
//
// JSON records keyed by (layer, from, to):
//
//	err := net.Dump(file)
//	net, err := nn.Undump(file)
//
// Binary checkpoints with metadata and a SHA-256 checksum:
//
//	err := (&nn.Checkpoint{Network: net, Metadata: meta}).Save("model.sprout")
//	checkpoint, err := nn.LoadCheckpoint("model.sprout")
//
// # Recurrent Cells
//
//	cell := nn.NewRecurrentCell(nil)
//	for _, x := range sequence {
//	    stm, ltm := cell.Step(x)
//	}
//	cell.Reset()
package nn
