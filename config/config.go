// Package config loads the engine's tuning knobs — grouping strategy
// thresholds, parallelism cutoffs, and buffer-pool size classes — from a
// TOML file, the same decoding style as the teacher's schema-file loader.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable threshold named (but left unspecified) by
// the engine design: the direct-map key-range ceiling, the radix shard
// count, the row-count floor above which grouping/join may parallelize,
// and the buffer-pool's size-class growth base.
type Config struct {
	Grouping GroupingConfig `toml:"grouping"`
	Pool     PoolConfig     `toml:"pool"`
}

// GroupingConfig controls strategy dispatch (§4.I) and the shared
// parallelism threshold used by grouping and join (§5).
type GroupingConfig struct {
	// DirectMapMaxRange is the largest observed (max-min+1) key range
	// for which IntDirectMap is chosen over IntRadix.
	DirectMapMaxRange int64 `toml:"direct_map_max_range"`
	// RadixShards is the number of shards IntRadix partitions into.
	RadixShards int `toml:"radix_shards"`
	// ParallelThreshold is the row count above which IntRadix builds
	// its shards concurrently and the join kernel shards its hash
	// build; DictionaryAware always runs on one goroutine.
	ParallelThreshold int `toml:"parallel_threshold"`
}

// PoolConfig holds the buffer-pool setting read from the config file.
// Nothing in this module passes it to pool.Init, so the global pools
// keep their built-in minimum capacities whatever it says.
type PoolConfig struct {
	// MinCapacity is the smallest buffer a fresh acquire() will hand
	// back for any size class.
	MinCapacity int `toml:"min_capacity"`
}

// Default returns the engine's built-in tuning, used whenever no config
// file is supplied.
func Default() Config {
	return Config{
		Grouping: GroupingConfig{
			DirectMapMaxRange: 1_000_000,
			RadixShards:       16,
			ParallelThreshold: 100_000,
		},
		Pool: PoolConfig{
			MinCapacity: 16,
		},
	}
}

// Load reads and decodes a TOML config file, filling any field the file
// omits from Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %q: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %q: %w", path, err)
	}
	return cfg, nil
}
