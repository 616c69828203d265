package postprocessors

import (
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
	"github.com/custodia-labs/brdify/internal/postprocessors/chunker"
	"github.com/custodia-labs/brdify/internal/postprocessors/cleaner"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("cleaner", buildCleaner)
	r.Register("chunker", buildChunker)
}

// buildCleaner creates a cleaner processor from generic config.
// Supported config keys:
//   - strip_headers (bool): Remove From/To/Sent/Subject lines (default: true)
//   - strip_disclaimers (bool): Remove disclaimer notices (default: true)
func buildCleaner(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []cleaner.Option

	if v, ok := getBoolFromConfig(cfg, "strip_headers"); ok {
		opts = append(opts, cleaner.WithHeaderStripping(v))
	}
	if v, ok := getBoolFromConfig(cfg, "strip_disclaimers"); ok {
		opts = append(opts, cleaner.WithDisclaimerStripping(v))
	}

	return cleaner.New(opts...), nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Maximum bytes per chunk (default: 12000)
//   - overlap (int): Overlapping bytes between chunks (default: 0)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if overlap := getIntFromConfig(cfg, "overlap"); overlap >= 0 {
			opts = append(opts, chunker.WithOverlap(overlap))
		}
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getBoolFromConfig extracts a bool, reporting whether the key was set.
func getBoolFromConfig(cfg map[string]any, key string) (bool, bool) {
	if cfg == nil {
		return false, false
	}
	v, ok := cfg[key].(bool)
	return v, ok
}
