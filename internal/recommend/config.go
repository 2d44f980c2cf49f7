// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"fmt"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Model contains the classifier hyperparameters.
	Model ModelConfig `json:"model"`

	// Training contains model bank build parameters.
	Training TrainingConfig `json:"training"`

	// Bundle contains recurrent-bundle detection parameters.
	Bundle BundleConfig `json:"bundle"`

	// Fallback contains the static placeholder items.
	Fallback FallbackConfig `json:"fallback"`

	// TopK is the number of items returned by the classifier and popularity tiers.
	TopK int `json:"top_k"`

	// Seed is the random seed for deterministic training.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// ModelConfig contains feed-forward classifier parameters.
type ModelConfig struct {
	// HiddenLayers lists the width of each hidden layer.
	HiddenLayers []int `json:"hidden_layers"`

	// MaxIterations caps the number of training epochs.
	MaxIterations int `json:"max_iterations"`

	// LearningRate is the Adam step size.
	LearningRate float64 `json:"learning_rate"`

	// L2 is the weight penalty.
	L2 float64 `json:"l2"`

	// BatchSize is the mini-batch size. Zero means min(200, rows).
	BatchSize int `json:"batch_size"`

	// Tolerance is the minimum loss improvement that resets the patience counter.
	Tolerance float64 `json:"tolerance"`

	// Patience is the number of epochs without improvement before stopping.
	Patience int `json:"patience"`
}

// TrainingConfig contains model bank build parameters.
type TrainingConfig struct {
	// MinItems is the minimum number of distinct items a restaurant needs.
	MinItems int `json:"min_items"`

	// MinCustomers is the minimum number of distinct customers a restaurant needs.
	MinCustomers int `json:"min_customers"`

	// Workers bounds how many restaurants train concurrently.
	Workers int `json:"workers"`
}

// BundleConfig contains recurrent-bundle detection parameters.
type BundleConfig struct {
	// MinOrders is how many orders must share a signature before it is
	// replayed as the customer's habitual order.
	MinOrders int `json:"min_orders"`
}

// FallbackConfig contains the static placeholder items.
type FallbackConfig struct {
	// PlaceholderItem is returned by the untrained and unknown-restaurant guards.
	PlaceholderItem string `json:"placeholder_item"`

	// EmptyPopularityItem is returned by the popularity index for restaurants without rows.
	EmptyPopularityItem string `json:"empty_popularity_item"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			HiddenLayers:  []int{100, 50},
			MaxIterations: 2000,
			LearningRate:  0.001,
			L2:            0.0001,
			BatchSize:     0,
			Tolerance:     1e-4,
			Patience:      10,
		},
		Training: TrainingConfig{
			MinItems:     2,
			MinCustomers: 1,
			Workers:      1,
		},
		Bundle: BundleConfig{
			MinOrders: 1,
		},
		Fallback: FallbackConfig{
			PlaceholderItem:     "Plato del Día",
			EmptyPopularityItem: "Menú de la Casa",
		},
		TopK: 3,
		Seed: 42,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Model.HiddenLayers) == 0 {
		return fmt.Errorf("model.hidden_layers must not be empty")
	}
	for i, width := range c.Model.HiddenLayers {
		if width <= 0 {
			return fmt.Errorf("model.hidden_layers[%d] must be positive, got %d", i, width)
		}
	}
	if c.Model.MaxIterations <= 0 {
		return fmt.Errorf("model.max_iterations must be positive")
	}
	if c.Model.LearningRate <= 0 {
		return fmt.Errorf("model.learning_rate must be positive")
	}
	if c.Model.L2 < 0 {
		return fmt.Errorf("model.l2 must be non-negative")
	}
	if c.Model.BatchSize < 0 {
		return fmt.Errorf("model.batch_size must be non-negative")
	}
	if c.Model.Patience <= 0 {
		return fmt.Errorf("model.patience must be positive")
	}
	if c.Training.MinItems < 2 {
		return fmt.Errorf("training.min_items must be at least 2")
	}
	if c.Training.MinCustomers < 1 {
		return fmt.Errorf("training.min_customers must be at least 1")
	}
	if c.Training.Workers < 1 {
		return fmt.Errorf("training.workers must be at least 1")
	}
	if c.Bundle.MinOrders < 1 {
		return fmt.Errorf("bundle.min_orders must be at least 1")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive")
	}
	if c.Fallback.PlaceholderItem == "" || c.Fallback.EmptyPopularityItem == "" {
		return fmt.Errorf("fallback placeholder items must not be empty")
	}
	return nil
}

// seed returns the configured seed or the fixed default.
func (c *Config) seed() int64 {
	if c.Seed == 0 {
		return 42
	}
	return c.Seed
}
