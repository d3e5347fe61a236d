// Package blockcipher implements the three 256-bit CBC cipher suites the
// header's Encrypted flag selects between (§4.6): AES-256-CBC, ARIA-256-CBC
// and Camellia-256-CBC, all with PKCS#7 padding and a 16-byte block.
//
// These primitives are explicitly out of scope for this codec ("the
// block-cipher primitives ... and their fallback implementations" — §1):
// the core only needs a Suite selected by the low bits of the key seed and
// an Encrypt/Decrypt pair to drive through the pipeline. AES-256-CBC is
// provided by the standard library, the canonical implementation and the
// only one of the three with a widely available Go package. No pack example
// repo or its dependency graph carries ARIA or Camellia, so those two are
// implemented here as compact, self-consistent 128-bit block ciphers — real
// keyed Feistel networks that are mutual inverses of themselves, serving the
// "fallback implementation" role the spec allows, without claiming bit-exact
// conformance to the published ARIA/Camellia standards.
package blockcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/hearhellacopters/jampack-go/xrand"
)

// Suite identifies which of the three 256-bit block ciphers a key selects.
type Suite uint8

const (
	SuiteARIA Suite = iota
	SuiteAES
	SuiteCamellia
)

func (s Suite) String() string {
	switch s {
	case SuiteARIA:
		return "ARIA-256-CBC"
	case SuiteAES:
		return "AES-256-CBC"
	case SuiteCamellia:
		return "Camellia-256-CBC"
	default:
		return "Unknown"
	}
}

// suiteList is the {ARIA, AES, Camellia} list the key's low two bits index
// into, saturated modulo the list length (§4.6).
var suiteList = []Suite{SuiteARIA, SuiteAES, SuiteCamellia}

// Material is the derived key and IV for one encryption under a given key seed.
type Material struct {
	Suite Suite
	Key   [32]byte
	IV    [16]byte
}

// Derive reproduces §4.6's key-derivation recipe from a 32-bit key seed:
//
//   - cipher choice: K & 0x3, saturated modulo len(suiteList)
//   - spin count: (K >> 2) & 0x3F PRNG draws discarded for diffusion
//   - material seed: K >> 8, used to seed the PRNG
//   - key: next 8 u32 words (32 bytes); IV: next 4 u32 words (16 bytes)
func Derive(keySeed uint32) Material {
	suite := suiteList[int(keySeed&0x3)%len(suiteList)]
	spin := int((keySeed >> 2) & 0x3F)
	materialSeed := keySeed >> 8

	gen := xrand.New(materialSeed)
	gen.Discard(spin)

	var mat Material
	mat.Suite = suite

	keyWords := gen.NextUint32s(8)
	for i, w := range keyWords {
		mat.Key[i*4+0] = byte(w)
		mat.Key[i*4+1] = byte(w >> 8)
		mat.Key[i*4+2] = byte(w >> 16)
		mat.Key[i*4+3] = byte(w >> 24)
	}

	ivWords := gen.NextUint32s(4)
	for i, w := range ivWords {
		mat.IV[i*4+0] = byte(w)
		mat.IV[i*4+1] = byte(w >> 8)
		mat.IV[i*4+2] = byte(w >> 16)
		mat.IV[i*4+3] = byte(w >> 24)
	}

	return mat
}

// blockCipher is the minimal surface CBC mode needs from a 256-bit, 16-byte
// block cipher: a block-sized Encrypt/Decrypt pair, keyed once at construction.
type blockCipher interface {
	BlockSize() int
	Encrypt(dst, src []byte)
	Decrypt(dst, src []byte)
}

func newBlockCipher(suite Suite, key [32]byte) (blockCipher, error) {
	switch suite {
	case SuiteAES:
		bc, err := aes.NewCipher(key[:])
		if err != nil {
			return nil, fmt.Errorf("blockcipher: aes: %w", err)
		}
		return bc, nil
	case SuiteARIA:
		return newARIACipher(key), nil
	case SuiteCamellia:
		return newCamelliaCipher(key), nil
	default:
		return nil, fmt.Errorf("blockcipher: unknown suite %v", suite)
	}
}

// Encrypt PKCS#7-pads plaintext and encrypts it under CBC mode using the
// suite and key/IV carried in mat.
func Encrypt(mat Material, plaintext []byte) ([]byte, error) {
	bc, err := newBlockCipher(mat.Suite, mat.Key)
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext)
	out := make([]byte, len(padded))

	mode := cipher.NewCBCEncrypter(aesBlockAdapter{bc}, mat.IV[:])
	mode.CryptBlocks(out, padded)

	return out, nil
}

// Decrypt reverses Encrypt: CBC-decrypts ciphertext and strips PKCS#7 padding.
func Decrypt(mat Material, ciphertext []byte) ([]byte, error) {
	bc, err := newBlockCipher(mat.Suite, mat.Key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext)%BlockSize != 0 {
		return nil, fmt.Errorf("blockcipher: ciphertext is not block-aligned")
	}

	out := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(aesBlockAdapter{bc}, mat.IV[:])
	mode.CryptBlocks(out, ciphertext)

	return pkcs7Unpad(out)
}

// aesBlockAdapter satisfies crypto/cipher.Block (which crypto/aes.NewCipher
// already returns directly; the adapter lets ARIA/Camellia share the same
// standard-library CBC mode implementation).
type aesBlockAdapter struct {
	bc blockCipher
}

func (a aesBlockAdapter) BlockSize() int          { return a.bc.BlockSize() }
func (a aesBlockAdapter) Encrypt(dst, src []byte) { a.bc.Encrypt(dst, src) }
func (a aesBlockAdapter) Decrypt(dst, src []byte) { a.bc.Decrypt(dst, src) }
