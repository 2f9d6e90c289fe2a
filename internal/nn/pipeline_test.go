package nn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEstimator struct {
	calls int
	err   error
}

func (e *countingEstimator) Fit(_, _ [][]float64) error {
	e.calls++
	return e.err
}

func TestPipelineFitsEveryStep(t *testing.T) {
	a, b := &countingEstimator{}, &countingEstimator{}
	p := NewPipeline(a)
	p.Add(b)

	require.NoError(t, p.Fit(nil, nil))
	require.NoError(t, p.Fit(nil, nil))
	assert.Equal(t, 2, a.calls)
	assert.Equal(t, 2, b.calls)
	assert.Len(t, p.Steps(), 2)
}

func TestPipelineStopsAtFailure(t *testing.T) {
	boom := errors.New("boom")
	a, b, c := &countingEstimator{}, &countingEstimator{err: boom}, &countingEstimator{}

	err := NewPipeline(a, b, c).Fit(nil, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pipeline step 1")
	assert.Equal(t, 0, c.calls)
}

func TestPipelineWithNetworks(t *testing.T) {
	X := [][]float64{{0, 1}, {1, 0}}
	Y := [][]float64{{1, 0}, {0, 1}}

	coarse := newTestNetwork(t, NetworkConfig{Sizes: []int{2, 2}, LearningRate: 0.5})
	fine := newTestNetwork(t, NetworkConfig{Sizes: []int{2, 3, 2}, LearningRate: 0.05})
	before := fine.Record()

	require.NoError(t, NewPipeline(coarse, fine).Fit(X, Y))
	assert.NotEqual(t, before, fine.Record())

	err := NewPipeline(coarse, fine).Fit(X, Y[:1])
	assert.ErrorIs(t, err, ErrConfiguration)
}
