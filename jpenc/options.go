package jpenc

import (
	"fmt"

	"github.com/hearhellacopters/jampack-go/extreg"
	"github.com/hearhellacopters/jampack-go/internal/options"
)

// config holds an Encoder's resolved settings, built up by applying Option
// values over defaultConfig.
type config struct {
	littleEndian bool

	stripKeys bool // KeyStripped: object keys go through the key dictionary, not the file

	maxDepth int

	registry *extreg.Registry
}

// Option configures an Encoder. Construct one with the With* functions below.
type Option = options.Option[*config]

func defaultConfig() *config {
	return &config{
		littleEndian: true,
		maxDepth:     1000,
	}
}

// WithBigEndian selects big-endian ("PJ", 0x4A50) framing for the produced file.
func WithBigEndian() Option {
	return options.NoError(func(c *config) { c.littleEndian = false })
}

// WithLittleEndian selects little-endian ("JP", 0x504A) framing (the default).
func WithLittleEndian() Option {
	return options.NoError(func(c *config) { c.littleEndian = true })
}

// WithStripKeys enables schema mode (KeyStripped): object keys are emitted
// as KEY_* dictionary indices and the key dictionary itself is never written
// to the file. The dictionary is exposed afterward via (*Encoder).KeysArray
// and must be supplied to the decoder out of band.
func WithStripKeys() Option {
	return options.NoError(func(c *config) { c.stripKeys = true })
}

// WithMaxDepth overrides the nesting-depth bound enforced during the walk
// (default 1000). Exceeding it fails the call with errs.ErrDepthExceeded.
func WithMaxDepth(depth int) Option {
	return options.New(func(c *config) error {
		if depth <= 0 {
			return fmt.Errorf("jpenc: max depth must be positive, got %d", depth)
		}
		c.maxDepth = depth
		return nil
	})
}

// WithExtensions wires a user extension registry into the encoder, tried in
// registration order for any value the built-in tag vocabulary can't represent.
func WithExtensions(r *extreg.Registry) Option {
	return options.NoError(func(c *config) { c.registry = r })
}
