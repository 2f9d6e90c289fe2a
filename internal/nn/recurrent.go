package nn

import "math/rand"

// CellParamCount is the number of parameters owned by one RecurrentCell.
const CellParamCount = 12

// CellParams are the weights and biases of a RecurrentCell.
//
// Index k selects the gate:
//
//	0: forget (how much LTM is kept)
//	1: input  (how much of the candidate is added)
//	2: candidate
//	3: output
type CellParams struct {
	Wi   [4]float64 // input weights
	Wstm [4]float64 // short-term memory weights
	Bstm [4]float64 // biases
}

// Flatten returns the parameters as Wi, Wstm, Bstm concatenated.
func (p CellParams) Flatten() []float64 {
	out := make([]float64, 0, CellParamCount)
	out = append(out, p.Wi[:]...)
	out = append(out, p.Wstm[:]...)
	out = append(out, p.Bstm[:]...)
	return out
}

// CellParamsFromSlice is the inverse of Flatten. It panics if
// len(data) != CellParamCount.
func CellParamsFromSlice(data []float64) CellParams {
	if len(data) != CellParamCount {
		panic("nn: cell params need exactly 12 values")
	}
	var p CellParams
	copy(p.Wi[:], data[0:4])
	copy(p.Wstm[:], data[4:8])
	copy(p.Bstm[:], data[8:12])
	return p
}

// RecurrentCell is a scalar LSTM-like unit holding a short-term memory (STM)
// and a long-term memory (LTM).
//
// For an input x every gate is g_k = x·Wi[k] + STM·Wstm[k] + Bstm[k], and
//
//	LTM' = LTM·σ(g_0) + σ(g_1)·tanh(g_2)
//	STM' = tanh(LTM')·σ(g_3)
//
// The state starts at (0, 0) and is carried across Step calls. It is never
// reset implicitly; call Reset between independent sequences.
//
// Cell parameters are not trained.
type RecurrentCell struct {
	stm    float64
	ltm    float64
	params CellParams
}

// NewRecurrentCell creates a cell whose 12 parameters are drawn from [0, 5).
// A nil rng uses a time-seeded source.
func NewRecurrentCell(rng *rand.Rand) *RecurrentCell {
	rng = newRand(rng)

	var p CellParams
	for k := 0; k < 4; k++ {
		p.Wi[k] = rng.Float64() * cellInitHigh
		p.Wstm[k] = rng.Float64() * cellInitHigh
		p.Bstm[k] = rng.Float64() * cellInitHigh
	}

	return NewRecurrentCellWithParams(p)
}

// NewRecurrentCellWithParams creates a cell with fixed parameters.
func NewRecurrentCellWithParams(p CellParams) *RecurrentCell {
	return &RecurrentCell{params: p}
}

// gate evaluates the pre-activation of gate k.
func (c *RecurrentCell) gate(k int, x float64) float64 {
	return x*c.params.Wi[k] + c.stm*c.params.Wstm[k] + c.params.Bstm[k]
}

// next computes the successor state without committing it.
func (c *RecurrentCell) next(x float64) (stm, ltm float64) {
	ltm = c.ltm*Sigmoid(c.gate(0, x)) + Sigmoid(c.gate(1, x))*Tanh(c.gate(2, x))
	stm = Tanh(ltm) * Sigmoid(c.gate(3, x))
	return stm, ltm
}

// Predict returns the STM that Step(x) would produce, leaving the state
// unchanged.
func (c *RecurrentCell) Predict(x float64) float64 {
	stm, _ := c.next(x)
	return stm
}

// Step feeds x into the cell, commits and returns the new state.
func (c *RecurrentCell) Step(x float64) (stm, ltm float64) {
	c.stm, c.ltm = c.next(x)
	return c.stm, c.ltm
}

// State returns the current (STM, LTM).
func (c *RecurrentCell) State() (stm, ltm float64) {
	return c.stm, c.ltm
}

// SetState overwrites the current state.
func (c *RecurrentCell) SetState(stm, ltm float64) {
	c.stm, c.ltm = stm, ltm
}

// Reset sets the state back to (0, 0).
func (c *RecurrentCell) Reset() {
	c.stm, c.ltm = 0, 0
}

// Params returns a copy of the cell's parameters.
func (c *RecurrentCell) Params() CellParams {
	return c.params
}
