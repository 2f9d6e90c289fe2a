package seq2seq

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/sprout/internal/nn"
)

// State is the memory of one recurrent cell.
type State struct {
	STM float64
	LTM float64
}

// Memory holds the state of every cell of a grid, indexed [layer][cell].
type Memory [][]State

// Shape returns (layers, depth). A ragged Memory reports depth -1.
func (m Memory) Shape() (layers, depth int) {
	if len(m) == 0 {
		return 0, 0
	}
	depth = len(m[0])
	for _, row := range m[1:] {
		if len(row) != depth {
			return len(m), -1
		}
	}
	return len(m), depth
}

// Grid is a Layers x Depth arrangement of recurrent cells.
//
// On every Step, cell d of layer 0 reads input d and cell d of layer l > 0
// reads the short-term memory that cell d of layer l-1 has just committed.
// State flows up through the layers, not sideways along the depth axis:
// every layer-0 cell already has its own embedding component for the time
// step, and feeding it a neighbour's output instead would discard that input.
type Grid struct {
	cells [][]*nn.RecurrentCell
	depth int
}

// NewGrid creates a grid of freshly initialized cells.
func NewGrid(layers, depth int, rng *rand.Rand) *Grid {
	g := &Grid{cells: make([][]*nn.RecurrentCell, layers), depth: depth}
	for l := range g.cells {
		g.cells[l] = make([]*nn.RecurrentCell, depth)
		for d := range g.cells[l] {
			g.cells[l][d] = nn.NewRecurrentCell(rng)
		}
	}
	return g
}

// Layers returns the number of cell layers.
func (g *Grid) Layers() int {
	return len(g.cells)
}

// Depth returns the number of cells per layer.
func (g *Grid) Depth() int {
	return g.depth
}

// Cell returns one cell.
func (g *Grid) Cell(layer, index int) *nn.RecurrentCell {
	return g.cells[layer][index]
}

// Step feeds one input per cell of the first layer through the grid.
func (g *Grid) Step(inputs []float64) error {
	if len(inputs) != g.depth {
		return fmt.Errorf("%w: %d inputs for %d cells", ErrShapeMismatch, len(inputs), g.depth)
	}

	for l, row := range g.cells {
		for d, cell := range row {
			x := inputs[d]
			if l > 0 {
				x, _ = g.cells[l-1][d].State()
			}
			cell.Step(x)
		}
	}

	return nil
}

// Output returns the short-term memory of every cell in the last layer.
func (g *Grid) Output() []float64 {
	last := g.cells[len(g.cells)-1]
	out := make([]float64, len(last))
	for d, cell := range last {
		out[d], _ = cell.State()
	}
	return out
}

// Memory captures the state of every cell.
func (g *Grid) Memory() Memory {
	m := make(Memory, len(g.cells))
	for l, row := range g.cells {
		m[l] = make([]State, len(row))
		for d, cell := range row {
			m[l][d].STM, m[l][d].LTM = cell.State()
		}
	}
	return m
}

// Seed overwrites the state of every cell. The grid is left untouched when
// the Memory's shape differs.
func (g *Grid) Seed(m Memory) error {
	layers, depth := m.Shape()
	if layers != g.Layers() || depth != g.depth {
		return fmt.Errorf("%w: memory is %dx%d, grid is %dx%d", ErrShapeMismatch, layers, depth, g.Layers(), g.depth)
	}

	for l, row := range g.cells {
		for d, cell := range row {
			cell.SetState(m[l][d].STM, m[l][d].LTM)
		}
	}
	return nil
}

// Reset returns every cell to (0, 0).
func (g *Grid) Reset() {
	for _, row := range g.cells {
		for _, cell := range row {
			cell.Reset()
		}
	}
}

// params returns every cell's parameters as a [layers, depth, 12] block.
func (g *Grid) params() []float64 {
	data := make([]float64, 0, g.Layers()*g.depth*nn.CellParamCount)
	for _, row := range g.cells {
		for _, cell := range row {
			data = append(data, cell.Params().Flatten()...)
		}
	}
	return data
}

// setParams replaces every cell from a block produced by params. Cell state
// is reset.
func (g *Grid) setParams(data []float64) {
	i := 0
	for l, row := range g.cells {
		for d := range row {
			g.cells[l][d] = nn.NewRecurrentCellWithParams(nn.CellParamsFromSlice(data[i : i+nn.CellParamCount]))
			i += nn.CellParamCount
		}
	}
}
