// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

// Adam optimizer constants.
const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-8

	// logEpsilon keeps the log-loss finite for zero probabilities.
	logEpsilon = 1e-10

	// defaultMaxBatch caps the automatic batch size.
	defaultMaxBatch = 200
)

// network is a fully connected ReLU network with a softmax output layer.
//
// The model is:
//
//	h_1 = relu(x W_0 + b_0)
//	h_l = relu(h_{l-1} W_{l-1} + b_{l-1})
//	p   = softmax(h_L W_L + b_L)
//
// Weights are stored row-major: weights[l][i*sizes[l+1]+j] connects unit i
// of layer l to unit j of layer l+1.
type network struct {
	sizes   []int
	weights [][]float64
	biases  [][]float64

	// epochs is the number of epochs actually run.
	epochs int

	// loss is the final training loss.
	loss float64
}

// newNetwork allocates a network with Glorot-uniform initialization.
func newNetwork(sizes []int, rng *rand.Rand) *network {
	n := &network{
		sizes:   sizes,
		weights: make([][]float64, len(sizes)-1),
		biases:  make([][]float64, len(sizes)-1),
	}
	for l := 0; l < len(sizes)-1; l++ {
		fanIn, fanOut := sizes[l], sizes[l+1]
		bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

		w := make([]float64, fanIn*fanOut)
		for i := range w {
			w[i] = (rng.Float64()*2 - 1) * bound
		}
		b := make([]float64, fanOut)
		for i := range b {
			b[i] = (rng.Float64()*2 - 1) * bound
		}
		n.weights[l] = w
		n.biases[l] = b
	}
	return n
}

// layers returns the number of weight layers.
func (n *network) layers() int {
	return len(n.weights)
}

// allocActivations returns one buffer per layer, including the input.
func (n *network) allocActivations() [][]float64 {
	acts := make([][]float64, len(n.sizes))
	for l, size := range n.sizes {
		acts[l] = make([]float64, size)
	}
	return acts
}

// forward runs x through the network into acts and returns the output
// probabilities (acts[len-1]).
func (n *network) forward(x []float64, acts [][]float64) []float64 {
	copy(acts[0], x)
	last := n.layers() - 1

	for l := 0; l <= last; l++ {
		in := acts[l]
		out := acts[l+1]
		w := n.weights[l]
		fanOut := len(out)

		copy(out, n.biases[l])
		for i, v := range in {
			if v == 0 {
				continue
			}
			row := w[i*fanOut : (i+1)*fanOut]
			for j, wij := range row {
				out[j] += v * wij
			}
		}

		if l < last {
			for j, v := range out {
				if v < 0 {
					out[j] = 0
				}
			}
		} else {
			softmax(out)
		}
	}
	return acts[len(acts)-1]
}

// predictProba returns class probabilities for one sample.
// It allocates its own buffers so concurrent calls are safe.
func (n *network) predictProba(x []float64) []float64 {
	acts := n.allocActivations()
	probs := n.forward(x, acts)
	out := make([]float64, len(probs))
	copy(out, probs)
	return out
}

// softmax normalizes v in place.
func softmax(v []float64) {
	maxVal := math.Inf(-1)
	for _, x := range v {
		if x > maxVal {
			maxVal = x
		}
	}
	sum := 0.0
	for i, x := range v {
		e := math.Exp(x - maxVal)
		v[i] = e
		sum += e
	}
	for i := range v {
		v[i] /= sum
	}
}

// trainer holds the scratch state for one training run.
type trainer struct {
	net *network
	cfg ModelConfig

	acts   [][]float64
	deltas [][]float64
	gradW  [][]float64
	gradB  [][]float64

	// Adam moments
	mW, vW [][]float64
	mB, vB [][]float64
	step   int
}

// newTrainer allocates the gradient and optimizer buffers for net.
func newTrainer(net *network, cfg ModelConfig) *trainer {
	t := &trainer{
		net:    net,
		cfg:    cfg,
		acts:   net.allocActivations(),
		deltas: net.allocActivations(),
	}
	zerosLike := func(src [][]float64) [][]float64 {
		out := make([][]float64, len(src))
		for i := range src {
			out[i] = make([]float64, len(src[i]))
		}
		return out
	}
	t.gradW = zerosLike(net.weights)
	t.gradB = zerosLike(net.biases)
	t.mW = zerosLike(net.weights)
	t.vW = zerosLike(net.weights)
	t.mB = zerosLike(net.biases)
	t.vB = zerosLike(net.biases)
	return t
}

// trainNetwork fits a classifier on features X and labels y in [0, classes).
// Training stops after cfg.MaxIterations epochs or once the loss has not
// improved by cfg.Tolerance for more than cfg.Patience consecutive epochs.
func trainNetwork(ctx context.Context, X [][]float64, y []int, classes int, cfg ModelConfig, seed int64) (*network, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("training set has %d samples and %d labels", len(X), len(y))
	}
	if classes < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", classes)
	}

	sizes := make([]int, 0, len(cfg.HiddenLayers)+2)
	sizes = append(sizes, len(X[0]))
	sizes = append(sizes, cfg.HiddenLayers...)
	sizes = append(sizes, classes)

	//nolint:gosec // G404: math/rand is acceptable for ML initialization (not security)
	rng := rand.New(rand.NewSource(seed))
	net := newNetwork(sizes, rng)
	t := newTrainer(net, cfg)

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultMaxBatch
	}
	if batchSize > len(X) {
		batchSize = len(X)
	}

	order := make([]int, len(X))
	for i := range order {
		order[i] = i
	}

	bestLoss := math.Inf(1)
	noImprove := 0

	for epoch := 0; epoch < cfg.MaxIterations; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		epochLoss := 0.0
		for start := 0; start < len(order); start += batchSize {
			end := start + batchSize
			if end > len(order) {
				end = len(order)
			}
			epochLoss += t.step1(X, y, order[start:end]) * float64(end-start)
		}
		epochLoss /= float64(len(X))

		if math.IsNaN(epochLoss) || math.IsInf(epochLoss, 0) {
			return nil, fmt.Errorf("training diverged at epoch %d", epoch+1)
		}

		net.epochs = epoch + 1
		net.loss = epochLoss

		if epochLoss > bestLoss-cfg.Tolerance {
			noImprove++
		} else {
			noImprove = 0
		}
		if epochLoss < bestLoss {
			bestLoss = epochLoss
		}
		if noImprove > cfg.Patience {
			break
		}
	}

	return net, nil
}

// step1 runs one mini-batch of backpropagation plus an Adam update and
// returns the batch loss.
func (t *trainer) step1(X [][]float64, y []int, batch []int) float64 {
	net := t.net
	last := net.layers() - 1

	for l := range t.gradW {
		clear(t.gradW[l])
		clear(t.gradB[l])
	}

	loss := 0.0
	for _, idx := range batch {
		probs := net.forward(X[idx], t.acts)
		p := probs[y[idx]]
		if p < logEpsilon {
			p = logEpsilon
		}
		loss -= math.Log(p)

		// Output delta for softmax + cross-entropy.
		out := t.deltas[last+1]
		copy(out, probs)
		out[y[idx]] -= 1

		for l := last; l >= 0; l-- {
			in := t.acts[l]
			delta := t.deltas[l+1]
			fanOut := len(delta)
			w := net.weights[l]
			gw := t.gradW[l]
			gb := t.gradB[l]

			for j, d := range delta {
				gb[j] += d
			}
			for i, v := range in {
				if v == 0 {
					continue
				}
				row := gw[i*fanOut : (i+1)*fanOut]
				for j, d := range delta {
					row[j] += v * d
				}
			}

			if l == 0 {
				break
			}
			prev := t.deltas[l]
			for i := range prev {
				if in[i] <= 0 {
					prev[i] = 0
					continue
				}
				row := w[i*fanOut : (i+1)*fanOut]
				sum := 0.0
				for j, d := range delta {
					sum += row[j] * d
				}
				prev[i] = sum
			}
		}
	}

	n := float64(len(batch))
	penalty := 0.0
	for l := range net.weights {
		for i, w := range net.weights[l] {
			penalty += w * w
			t.gradW[l][i] = t.gradW[l][i]/n + t.cfg.L2*w/n
		}
		for j := range t.gradB[l] {
			t.gradB[l][j] /= n
		}
	}

	t.adam()

	return loss/n + 0.5*t.cfg.L2*penalty/n
}

// adam applies one Adam update to every parameter.
func (t *trainer) adam() {
	t.step++
	lr := t.cfg.LearningRate *
		math.Sqrt(1-math.Pow(adamBeta2, float64(t.step))) /
		(1 - math.Pow(adamBeta1, float64(t.step)))

	update := func(params, grads, m, v []float64) {
		for i, g := range grads {
			m[i] = adamBeta1*m[i] + (1-adamBeta1)*g
			v[i] = adamBeta2*v[i] + (1-adamBeta2)*g*g
			params[i] -= lr * m[i] / (math.Sqrt(v[i]) + adamEpsilon)
		}
	}

	for l := range t.net.weights {
		update(t.net.weights[l], t.gradW[l], t.mW[l], t.vW[l])
		update(t.net.biases[l], t.gradB[l], t.mB[l], t.vB[l])
	}
}
