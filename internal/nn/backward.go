package nn

import "fmt"

// Backpropagate adjusts weights and biases toward target using the node
// values of the most recent forward pass.
//
// Update rules, applied from the output layer back to layer 0:
//
//	output error      e_j = σ'(v_j) · (t_j - v_j)
//	output bias       b_j += lr · e_j
//	weight i→j        w_ij += lr · v_i · e_j · w_ij
//	hidden error      e_i = f'(v_i) · Σ_j e_j · w_ij
//	hidden bias       b_i += lr · e_i
//
// The output error always uses the sigmoid derivative, whatever the
// configured activation f. The weight step scales by the weight itself, and
// the error sum uses each weight's value from before its update.
func (n *Network) Backpropagate(target []float64) error {
	last := len(n.sizes) - 1
	if len(target) != n.sizes[last] {
		return fmt.Errorf("%w: got %d, want %d", ErrTargetSize, len(target), n.sizes[last])
	}

	for j, v := range n.values[last] {
		e := DSigmoid(v) * (target[j] - v)
		n.errs[last][j] = e
		n.biases[last][j] += n.learningRate * e
	}

	for l := last - 1; l >= 0; l-- {
		w := n.weights[l]
		downstream := n.errs[l+1]

		for i, v := range n.values[l] {
			total := 0.0
			for j, e := range downstream {
				wij := w.At(i, j)
				total += e * wij
				w.Set(i, j, wij+n.learningRate*v*e*wij)
			}
			n.errs[l][i] = n.activation.derivative(v) * total
		}

		for i, e := range n.errs[l] {
			n.biases[l][i] += n.learningRate * e
		}
	}

	return nil
}
