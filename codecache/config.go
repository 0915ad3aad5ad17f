package codecache

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds code cache geometry.
type Config struct {
	// NumBlocks is the total number of translated-block slots.
	// Must be a multiple of Associativity. Default: 4096.
	NumBlocks int `json:"num_blocks"`

	// Associativity is the number of ways per set. Default: 4.
	Associativity int `json:"associativity"`

	// BlockSpan is the number of guest bytes covered per slot; guest
	// addresses are aligned to this span before lookup. Must be a
	// power-of-two multiple of the 4-byte instruction size. Default: 64.
	BlockSpan int `json:"block_span"`
}

// DefaultConfig returns a Config with default geometry: 4096 slots,
// 4-way, 64 guest bytes per slot.
func DefaultConfig() Config {
	return Config{
		NumBlocks:     4096,
		Associativity: 4,
		BlockSpan:     64,
	}
}

// LoadConfig loads a Config from a JSON file. Fields absent from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read code cache config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse code cache config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// SaveConfig writes the Config to a JSON file.
func (c Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize code cache config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write code cache config file: %w", err)
	}

	return nil
}

// Validate checks the geometry for consistency.
func (c Config) Validate() error {
	if c.NumBlocks <= 0 {
		return fmt.Errorf("num_blocks must be > 0")
	}
	if c.Associativity <= 0 {
		return fmt.Errorf("associativity must be > 0")
	}
	if c.NumBlocks%c.Associativity != 0 {
		return fmt.Errorf("num_blocks must be a multiple of associativity")
	}
	if c.BlockSpan < 4 || c.BlockSpan&(c.BlockSpan-1) != 0 {
		return fmt.Errorf("block_span must be a power of two >= 4")
	}
	return nil
}
