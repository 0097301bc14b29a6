// Package cache stores rendered figure artifacts between runs.
//
// Keys are derived from everything that affects an artifact: the figure
// description, the bytes of every data file it reads and the output
// options. An unchanged figure is therefore served from the cache without
// re-reading or re-rendering its data.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a rendered artifact stays valid.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts lists the output options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Embed    bool   `json:"embed,omitempty"`
	FullData bool   `json:"full_data,omitempty"`
	Override bool   `json:"override,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// ArtifactKey returns the key of an artifact rendered from inputs, the
// description followed by the data files in a fixed order.
func ArtifactKey(inputs [][]byte, opts ArtifactKeyOpts) string {
	hashes := make([]string, len(inputs))
	for i, in := range inputs {
		hashes[i] = Hash(in)
	}
	return hashKey("artifact", hashes, opts)
}
