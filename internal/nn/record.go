package nn

import (
	"encoding/json"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// Record is the structured form of a Network's topology and parameters.
//
// Connections are keyed by (layer, from, to) indices local to the network;
// a complete record lists every connection between every adjacent pair of
// layers exactly once.
type Record struct {
	Activation   Activation   `json:"activation"`
	LearningRate float64      `json:"learning_rate"`
	Sizes        []int        `json:"sizes"`
	Labels       []string     `json:"labels"`
	Biases       [][]float64  `json:"biases"`
	Connections  []Connection `json:"connections"`
}

// Connection is one persisted weight.
type Connection struct {
	Layer  int     `json:"layer"`
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight"`
}

// Record captures the current topology and parameters.
func (n *Network) Record() Record {
	rec := Record{
		Activation:   n.activation,
		LearningRate: n.learningRate,
		Sizes:        n.Sizes(),
		Labels:       n.Labels(),
		Biases:       make([][]float64, len(n.biases)),
	}

	for l, b := range n.biases {
		rec.Biases[l] = append([]float64(nil), b...)
	}
	for l, w := range n.weights {
		rows, cols := w.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				rec.Connections = append(rec.Connections, Connection{Layer: l, From: i, To: j, Weight: w.At(i, j)})
			}
		}
	}

	return rec
}

// LoadRecord builds a Network from a record.
//
// The topology is taken from rec.Sizes; every bias, weight, label and the
// learning rate are then overwritten from the record. Incomplete or
// inconsistent records return an error wrapping ErrIO.
func LoadRecord(rec Record) (*Network, error) {
	cfg := NetworkConfig{
		Sizes:        rec.Sizes,
		Labels:       rec.Labels,
		Activation:   rec.Activation,
		LearningRate: rec.LearningRate,
	}
	if rec.Labels == nil {
		return nil, &RecordError{Field: "labels", Details: "missing"}
	}
	labels, err := cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	n := newTopology(rec.Sizes, labels, rec.Activation, rec.LearningRate, newRand(nil))

	if len(rec.Biases) != len(rec.Sizes) {
		return nil, &RecordError{Field: "biases", Details: fmt.Sprintf("%d layers recorded, want %d", len(rec.Biases), len(rec.Sizes))}
	}
	for l, b := range rec.Biases {
		if len(b) != rec.Sizes[l] {
			return nil, &RecordError{Field: "biases", Details: fmt.Sprintf("layer %d has %d biases, want %d", l, len(b), rec.Sizes[l])}
		}
		copy(n.biases[l], b)
	}

	seen := make([][]bool, len(n.weights))
	for l := range n.weights {
		n.weights[l] = mat.NewDense(rec.Sizes[l], rec.Sizes[l+1], nil)
		seen[l] = make([]bool, rec.Sizes[l]*rec.Sizes[l+1])
	}
	for _, c := range rec.Connections {
		if c.Layer < 0 || c.Layer >= len(n.weights) ||
			c.From < 0 || c.From >= rec.Sizes[c.Layer] ||
			c.To < 0 || c.To >= rec.Sizes[c.Layer+1] {
			return nil, &RecordError{Field: "connections", Details: fmt.Sprintf("(%d, %d, %d) out of range", c.Layer, c.From, c.To)}
		}
		idx := c.From*rec.Sizes[c.Layer+1] + c.To
		if seen[c.Layer][idx] {
			return nil, &RecordError{Field: "connections", Details: fmt.Sprintf("(%d, %d, %d) recorded twice", c.Layer, c.From, c.To)}
		}
		seen[c.Layer][idx] = true
		n.weights[c.Layer].Set(c.From, c.To, c.Weight)
	}
	for l := range seen {
		for idx, ok := range seen[l] {
			if !ok {
				from, to := idx/rec.Sizes[l+1], idx%rec.Sizes[l+1]
				return nil, &RecordError{Field: "connections", Details: fmt.Sprintf("(%d, %d, %d) missing", l, from, to)}
			}
		}
	}

	return n, nil
}

// Dump writes the network record as JSON.
func (n *Network) Dump(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(n.Record()); err != nil {
		return fmt.Errorf("%w: encode record: %w", ErrIO, err)
	}
	return nil
}

// dumpedRecord shadows Record.Activation so a missing key is not read as
// the zero Activation.
type dumpedRecord struct {
	Record
	Activation *string `json:"activation"`
}

// Undump reads a JSON record written by Dump and builds a Network from it.
func Undump(r io.Reader) (*Network, error) {
	var d dumpedRecord
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: decode record: %v", ErrIO, err)
	}
	if d.Activation == nil {
		return nil, &RecordError{Field: "activation", Details: "missing"}
	}
	activation, err := ParseActivation(*d.Activation)
	if err != nil {
		return nil, &RecordError{Field: "activation", Details: err.Error()}
	}

	rec := d.Record
	rec.Activation = activation
	return LoadRecord(rec)
}
