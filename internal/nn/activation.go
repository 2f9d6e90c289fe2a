package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Activation selects the element-wise function applied to every non-input
// node of a Network.
//
// The set is closed; dispatch goes through a fixed table indexed by the
// enumeration value. The zero value is ActivationSigmoid.
type Activation int

// Supported activations.
const (
	ActivationSigmoid Activation = iota
	ActivationReLU
	ActivationCappedReLU
	ActivationTanh
)

// activationFuncs pairs a function with its derivative.
//
// The derivative is evaluated on the node's post-activation value.
type activationFuncs struct {
	name  string
	fn    func(float64) float64
	deriv func(float64) float64
}

var activations = [...]activationFuncs{
	ActivationSigmoid:    {name: "SIGMOID", fn: Sigmoid, deriv: DSigmoid},
	ActivationReLU:       {name: "RELU", fn: ReLU, deriv: DReLU},
	ActivationCappedReLU: {name: "CAPPED RELU", fn: CappedReLU, deriv: DCappedReLU},
	ActivationTanh:       {name: "TANH", fn: Tanh, deriv: DTanh},
}

// String returns the persisted name of the activation ("SIGMOID", "RELU",
// "CAPPED RELU" or "TANH").
func (a Activation) String() string {
	if !a.valid() {
		return fmt.Sprintf("Activation(%d)", int(a))
	}
	return activations[a].name
}

// ParseActivation maps a persisted name back to its Activation.
func ParseActivation(name string) (Activation, error) {
	for a, funcs := range activations {
		if funcs.name == name {
			return Activation(a), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown activation %q", ErrConfiguration, name)
}

// MarshalText implements encoding.TextMarshaler.
func (a Activation) MarshalText() ([]byte, error) {
	if !a.valid() {
		return nil, fmt.Errorf("%w: unknown activation %d", ErrConfiguration, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Activation) UnmarshalText(text []byte) error {
	parsed, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Activation) valid() bool {
	return a >= 0 && int(a) < len(activations)
}

// apply evaluates the activation at x.
func (a Activation) apply(x float64) float64 {
	return activations[a].fn(x)
}

// derivative evaluates the activation's derivative at an activated value.
func (a Activation) derivative(v float64) float64 {
	return activations[a].deriv(v)
}

// saturating reports whether the activation is bounded on both sides.
func (a Activation) saturating() bool {
	return a == ActivationSigmoid || a == ActivationTanh
}

// Sigmoid computes σ(x) = 1 / (1 + exp(-x)).
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// DSigmoid computes σ(x)·(1-σ(x)).
func DSigmoid(x float64) float64 {
	s := Sigmoid(x)
	return s * (1 - s)
}

// ReLU computes max(0, x).
func ReLU(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// DReLU is 1 for x > 0 and 0 otherwise.
func DReLU(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// CappedReLU clamps x to [0, 1].
func CappedReLU(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// DCappedReLU is 1 on (0, 1] and 0 elsewhere.
func DCappedReLU(x float64) float64 {
	if x <= 0 || x > 1 {
		return 0
	}
	return 1
}

// Tanh computes the hyperbolic tangent of x.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}

// DTanh computes 1 - tanh²(x).
func DTanh(x float64) float64 {
	t := math.Tanh(x)
	return 1 - t*t
}

// Softmax converts raw scores into a probability distribution.
//
// The maximum logit is subtracted before exponentiation so that large
// scores cannot overflow. The input is not modified.
func Softmax(logits []float64) []float64 {
	out := make([]float64, len(logits))
	if len(logits) == 0 {
		return out
	}

	maxLogit := floats.Max(logits)
	for i, v := range logits {
		out[i] = math.Exp(v - maxLogit)
	}
	floats.Scale(1/floats.Sum(out), out)

	return out
}
