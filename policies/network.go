package policies

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/zeu5/minebot/core"
	"github.com/zeu5/minebot/storage"
	"gonum.org/v1/gonum/mat"
)

type denseLayer struct {
	weights *mat.Dense // outputs x inputs
	bias    *mat.VecDense
}

// Network is a feed-forward perceptron with tanh hidden layers and a linear
// output layer producing one logit per action.
type Network struct {
	inputs   int
	outputs  int
	topology core.Topology
	layers   []denseLayer
}

// NewNetwork builds a network with freshly drawn weights scaled by 1/sqrt(fan-in).
func NewNetwork(inputs int, topology core.Topology, outputs int, r *rand.Rand) (*Network, error) {
	if err := topology.Validate(); err != nil {
		return nil, err
	}
	if inputs <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("network needs positive input and output sizes, got %d and %d", inputs, outputs)
	}
	n := &Network{
		inputs:   inputs,
		outputs:  outputs,
		topology: topology.Copy(),
		layers:   make([]denseLayer, 0, len(topology)+1),
	}
	in := inputs
	for i := 0; i <= len(topology); i++ {
		out := outputs
		if i < len(topology) {
			out = topology[i]
		}
		scale := 1 / math.Sqrt(float64(in))
		data := make([]float64, out*in)
		for j := range data {
			data[j] = r.NormFloat64() * scale
		}
		n.layers = append(n.layers, denseLayer{
			weights: mat.NewDense(out, in, data),
			bias:    mat.NewVecDense(out, nil),
		})
		in = out
	}
	return n, nil
}

// NetworkFromCheckpoint rebuilds the network stored in a checkpoint.
func NetworkFromCheckpoint(c storage.Checkpoint) (*Network, error) {
	if err := c.CheckShape(c.ObservationSize, c.ActionCount); err != nil {
		return nil, err
	}
	n := &Network{
		inputs:   c.ObservationSize,
		outputs:  c.ActionCount,
		topology: core.Topology(append([]int(nil), c.Topology...)),
		layers:   make([]denseLayer, len(c.Layers)),
	}
	for i, l := range c.Layers {
		n.layers[i] = denseLayer{
			weights: mat.NewDense(l.Outputs, l.Inputs, append([]float64(nil), l.Weights...)),
			bias:    mat.NewVecDense(l.Outputs, append([]float64(nil), l.Bias...)),
		}
	}
	return n, nil
}

func (n *Network) Topology() core.Topology {
	return n.topology.Copy()
}

func (n *Network) Forward(obs core.Observation) ([]float64, error) {
	if len(obs) != n.inputs {
		return nil, fmt.Errorf("observation has %d features, network expects %d", len(obs), n.inputs)
	}
	x := mat.NewVecDense(n.inputs, obs.Copy())
	for i, layer := range n.layers {
		rows, _ := layer.weights.Dims()
		y := mat.NewVecDense(rows, nil)
		y.MulVec(layer.weights, x)
		y.AddVec(y, layer.bias)
		if i < len(n.layers)-1 {
			for j := 0; j < rows; j++ {
				y.SetVec(j, math.Tanh(y.AtVec(j)))
			}
		}
		x = y
	}
	out := make([]float64, n.outputs)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, nil
}

func (n *Network) Clone() *Network {
	out := &Network{
		inputs:   n.inputs,
		outputs:  n.outputs,
		topology: n.topology.Copy(),
		layers:   make([]denseLayer, len(n.layers)),
	}
	for i, l := range n.layers {
		out.layers[i] = denseLayer{
			weights: mat.DenseCopyOf(l.weights),
			bias:    mat.VecDenseCopyOf(l.bias),
		}
	}
	return out
}

// Perturb nudges a random subset of parameters by uniform noise in [-spread, spread].
// Each parameter is picked with probability 1/sqrt(parameter count); at least one
// parameter always changes.
func (n *Network) Perturb(r *rand.Rand, spread float64) {
	total := n.ParameterCount()
	p := 1 / math.Sqrt(float64(total))
	changed := false
	for _, l := range n.layers {
		rows, cols := l.weights.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				if r.Float64() < p {
					l.weights.Set(i, j, l.weights.At(i, j)+(r.Float64()*2-1)*spread)
					changed = true
				}
			}
			if r.Float64() < p {
				l.bias.SetVec(i, l.bias.AtVec(i)+(r.Float64()*2-1)*spread)
				changed = true
			}
		}
	}
	if !changed {
		l := n.layers[r.Intn(len(n.layers))]
		rows, cols := l.weights.Dims()
		i, j := r.Intn(rows), r.Intn(cols)
		l.weights.Set(i, j, l.weights.At(i, j)+(r.Float64()*2-1)*spread)
	}
}

func (n *Network) ParameterCount() int {
	total := 0
	for _, l := range n.layers {
		rows, cols := l.weights.Dims()
		total += rows*cols + rows
	}
	return total
}

// Layers exports the parameters in checkpoint form.
func (n *Network) Layers() []storage.Layer {
	out := make([]storage.Layer, len(n.layers))
	for i, l := range n.layers {
		rows, cols := l.weights.Dims()
		weights := make([]float64, 0, rows*cols)
		for r := 0; r < rows; r++ {
			weights = append(weights, mat.Row(nil, r, l.weights)...)
		}
		out[i] = storage.Layer{
			Inputs:  cols,
			Outputs: rows,
			Weights: weights,
			Bias:    mat.Col(nil, 0, l.bias),
		}
	}
	return out
}
