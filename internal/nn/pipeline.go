package nn

import "fmt"

// Estimator is anything that can be fitted to a dataset.
type Estimator interface {
	Fit(X, Y [][]float64) error
}

// Pipeline is a container that fits a chain of estimators on the same
// dataset, in order.
//
// Example:
//
//	pipeline := nn.NewPipeline(coarse, fine)
//	for epoch := 0; epoch < 10; epoch++ {
//	    if err := pipeline.Fit(X, Y); err != nil {
//	        return err
//	    }
//	}
type Pipeline struct {
	steps []Estimator
}

// NewPipeline creates a Pipeline from its steps.
func NewPipeline(steps ...Estimator) *Pipeline {
	return &Pipeline{steps: steps}
}

// Fit calls Fit on every step and stops at the first failure.
func (p *Pipeline) Fit(X, Y [][]float64) error {
	for i, step := range p.steps {
		if err := step.Fit(X, Y); err != nil {
			return fmt.Errorf("pipeline step %d: %w", i, err)
		}
	}
	return nil
}

// Add appends a step.
func (p *Pipeline) Add(step Estimator) {
	p.steps = append(p.steps, step)
}

// Steps returns the estimators in order.
func (p *Pipeline) Steps() []Estimator {
	return append([]Estimator(nil), p.steps...)
}
