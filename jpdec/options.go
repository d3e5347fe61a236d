package jpdec

import (
	"github.com/hearhellacopters/jampack-go/internal/options"
)

type config struct {
	makeJSON      bool
	enforceBigInt bool

	keyDictionary []string // required when the file's KeyStripped flag is set
	encryptionKey uint32   // required when the file's EncryptionExcluded flag is set
	haveKeySeed   bool
}

// Option configures a Decoder. Construct one with the With* functions below.
type Option = options.Option[*config]

func defaultConfig() *config {
	return &config{}
}

// WithMakeJSON enables the post-decode JSON normalizer (§4.4): undefined,
// RegExp, Symbol, Set, Map and BigInt values are rewritten into their
// JSON-representable equivalents.
func WithMakeJSON() Option {
	return options.NoError(func(c *config) { c.makeJSON = true })
}

// WithEnforceBigInt widens every decoded integer value to BigInt, whatever
// tag carried it and even when it fits a 64-bit machine word (§4.4).
func WithEnforceBigInt() Option {
	return options.NoError(func(c *config) { c.enforceBigInt = true })
}

// WithKeyDictionary supplies the out-of-band key dictionary a KeyStripped
// file needs to resolve its KEY_* tags. Omitting this for a KeyStripped file
// fails decoding with errs.ErrMissingKeyDictionary.
func WithKeyDictionary(keys []string) Option {
	return options.NoError(func(c *config) { c.keyDictionary = keys })
}

// WithEncryptionKey supplies the out-of-band 32-bit key seed an
// EncryptionExcluded file needs. Omitting this for such a file fails
// decoding with errs.ErrMissingKey.
func WithEncryptionKey(seed uint32) Option {
	return options.NoError(func(c *config) {
		c.encryptionKey = seed
		c.haveKeySeed = true
	})
}
