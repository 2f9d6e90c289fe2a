package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBackpropagateSingleConnection checks every update rule on a 1→1
// network where all quantities can be worked out by hand.
func TestBackpropagateSingleConnection(t *testing.T) {
	const (
		w0 = 0.5
		lr = 1.0
	)
	n, err := LoadRecord(Record{
		Activation:   ActivationSigmoid,
		LearningRate: lr,
		Sizes:        []int{1, 1},
		Labels:       []string{"only"},
		Biases:       [][]float64{{0}, {0}},
		Connections:  []Connection{{Layer: 0, From: 0, To: 0, Weight: w0}},
	})
	require.NoError(t, err)

	// Softmax over a single node always yields 1.
	out, err := n.Forward([]float64{1})
	require.NoError(t, err)
	require.Equal(t, []float64{1}, out)

	require.NoError(t, n.Backpropagate([]float64{0}))

	outErr := DSigmoid(1) * (0 - 1)
	assert.InDelta(t, lr*outErr, n.Bias(1, 0), 1e-15)

	// Input value is 1; the step is scaled by the old weight.
	assert.InDelta(t, w0+lr*1*outErr*w0, n.Weight(0, 0, 0), 1e-15)

	// Layer 0 error uses the pre-update weight.
	inErr := DSigmoid(1) * outErr * w0
	assert.InDelta(t, lr*inErr, n.Bias(0, 0), 1e-15)
}

// TestBackpropagateUsesSigmoidOutputDerivative verifies the output error is
// computed with σ' even when the network uses another activation.
func TestBackpropagateUsesSigmoidOutputDerivative(t *testing.T) {
	n, err := LoadRecord(Record{
		Activation:   ActivationReLU,
		LearningRate: 0.5,
		Sizes:        []int{1, 2},
		Labels:       []string{"a", "b"},
		Biases:       [][]float64{{0}, {0, 0}},
		Connections: []Connection{
			{Layer: 0, From: 0, To: 0, Weight: 0.02},
			{Layer: 0, From: 0, To: 1, Weight: 0.08},
		},
	})
	require.NoError(t, err)

	out, err := n.Forward([]float64{1})
	require.NoError(t, err)
	require.NoError(t, n.Backpropagate([]float64{1, 0}))

	assert.InDelta(t, 0.5*DSigmoid(out[0])*(1-out[0]), n.Bias(1, 0), 1e-15)
	assert.InDelta(t, 0.5*DSigmoid(out[1])*(0-out[1]), n.Bias(1, 1), 1e-15)
}

func TestBackpropagateHiddenLayer(t *testing.T) {
	n, err := LoadRecord(Record{
		Activation:   ActivationTanh,
		LearningRate: 0.1,
		Sizes:        []int{2, 2, 2},
		Labels:       []string{"x", "y"},
		Biases:       [][]float64{{0, 0}, {0.1, -0.1}, {0, 0}},
		Connections: []Connection{
			{Layer: 0, From: 0, To: 0, Weight: 0.3}, {Layer: 0, From: 0, To: 1, Weight: -0.2},
			{Layer: 0, From: 1, To: 0, Weight: 0.4}, {Layer: 0, From: 1, To: 1, Weight: 0.1},
			{Layer: 1, From: 0, To: 0, Weight: 0.7}, {Layer: 1, From: 0, To: 1, Weight: -0.5},
			{Layer: 1, From: 1, To: 0, Weight: 0.2}, {Layer: 1, From: 1, To: 1, Weight: 0.6},
		},
	})
	require.NoError(t, err)

	input := []float64{1, 0.5}
	_, err = n.Forward(input)
	require.NoError(t, err)

	hidden := append([]float64(nil), n.values[1]...)
	out := n.Outputs()
	target := []float64{0, 1}

	require.NoError(t, n.Backpropagate(target))

	e2 := []float64{
		DSigmoid(out[0]) * (target[0] - out[0]),
		DSigmoid(out[1]) * (target[1] - out[1]),
	}
	w1 := [2][2]float64{{0.7, -0.5}, {0.2, 0.6}}
	for i := 0; i < 2; i++ {
		total := 0.0
		for j := 0; j < 2; j++ {
			total += e2[j] * w1[i][j]
			want := w1[i][j] + 0.1*hidden[i]*e2[j]*w1[i][j]
			assert.InDelta(t, want, n.Weight(1, i, j), 1e-15, "w1[%d][%d]", i, j)
		}
		e1 := DTanh(hidden[i]) * total
		assert.InDelta(t, []float64{0.1, -0.1}[i]+0.1*e1, n.Bias(1, i), 1e-15, "b1[%d]", i)
	}
}

func TestBackpropagateTargetSize(t *testing.T) {
	n := newTestNetwork(t, NetworkConfig{Sizes: []int{2, 3}, LearningRate: 0.1})
	assert.ErrorIs(t, n.Backpropagate([]float64{1, 0}), ErrTargetSize)
}
