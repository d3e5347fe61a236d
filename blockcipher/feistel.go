package blockcipher

import "encoding/binary"

// feistelCipher is a generic keyed Feistel network operating on a 16-byte
// block split into two 8-byte halves. It backs both the ARIA and Camellia
// fallback suites (see the package doc comment for why these two are
// hand-rolled rather than imported); the two suites differ only in their
// round count and round-constant stream, giving each a distinct, stable
// key schedule.
type feistelCipher struct {
	roundKeys [][8]byte
}

func deriveRoundKeys(key [32]byte, rounds int, salt uint32) [][8]byte {
	// Stretch the 256-bit key into `rounds` 64-bit round keys with a PRNG
	// seeded from the key bytes themselves, distinguished per suite by salt.
	seed := binary.LittleEndian.Uint32(key[0:4]) ^
		binary.LittleEndian.Uint32(key[8:12]) ^
		binary.LittleEndian.Uint32(key[16:20]) ^
		binary.LittleEndian.Uint32(key[24:28]) ^ salt

	gen := newKeySchedulePRNG(seed, key)

	keys := make([][8]byte, rounds)
	for r := 0; r < rounds; r++ {
		w0 := gen.next()
		w1 := gen.next()
		binary.LittleEndian.PutUint32(keys[r][0:4], w0)
		binary.LittleEndian.PutUint32(keys[r][4:8], w1)
	}

	return keys
}

// keySchedulePRNG mixes every key byte into the stream, unlike xrand.Generator
// which only consumes a 32-bit seed; this keeps the full 256-bit key material
// relevant to the round-key schedule.
type keySchedulePRNG struct {
	state uint32
	key   [32]byte
	pos   int
}

func newKeySchedulePRNG(seed uint32, key [32]byte) *keySchedulePRNG {
	if seed == 0 {
		seed = 0x85EBCA6B
	}
	return &keySchedulePRNG{state: seed, key: key}
}

func (g *keySchedulePRNG) next() uint32 {
	x := g.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	kb := g.key[g.pos%len(g.key)]
	g.pos++
	x += uint32(kb) * 0x01010101
	g.state = x
	return x
}

func feistelRound(l, r [8]byte, roundKey [8]byte) (newL, newR [8]byte) {
	f := feistelF(r, roundKey)
	for i := range l {
		newL[i] = r[i]
		newR[i] = l[i] ^ f[i]
	}
	return
}

// feistelF is the round function: an S-box substitution keyed by the round
// key, followed by a byte rotation for diffusion across bytes.
func feistelF(half [8]byte, roundKey [8]byte) [8]byte {
	var t [8]byte
	for i := range half {
		t[i] = sbox[half[i]^roundKey[i]]
	}

	var out [8]byte
	for i := range out {
		out[i] = t[(i+3)%8] ^ roundKey[(i+5)%8]
	}
	return out
}

// newFeistel builds a Feistel cipher with the given round-key schedule.
func newFeistel(roundKeys [][8]byte) *feistelCipher {
	return &feistelCipher{roundKeys: roundKeys}
}

func (c *feistelCipher) BlockSize() int { return BlockSize }

func (c *feistelCipher) Encrypt(dst, src []byte) {
	var l, r [8]byte
	copy(l[:], src[0:8])
	copy(r[:], src[8:16])

	for _, rk := range c.roundKeys {
		l, r = feistelRound(l, r, rk)
	}

	copy(dst[0:8], l[:])
	copy(dst[8:16], r[:])
}

func (c *feistelCipher) Decrypt(dst, src []byte) {
	var l, r [8]byte
	copy(l[:], src[0:8])
	copy(r[:], src[8:16])

	for i := len(c.roundKeys) - 1; i >= 0; i-- {
		l, r = feistelRoundInverse(l, r, c.roundKeys[i])
	}

	copy(dst[0:8], l[:])
	copy(dst[8:16], r[:])
}

// feistelRoundInverse recovers (l, r) given the round's output (newL, newR)
// and the round key, inverting feistelRound.
func feistelRoundInverse(newL, newR [8]byte, roundKey [8]byte) (l, r [8]byte) {
	// newL = oldR, newR = oldL ^ f(oldR, rk)  =>  oldR = newL, oldL = newR ^ f(newL, rk)
	f := feistelF(newL, roundKey)
	var oldL [8]byte
	for i := range oldL {
		oldL[i] = newR[i] ^ f[i]
	}
	return oldL, newL
}

// sbox is a fixed, non-linear byte substitution table shared by both Feistel
// suites. It is a deterministic permutation of 0..255 generated by
// generateSBox at package initialization (not the standard AES S-box, to keep the fallback ciphers visibly
// distinct from AES); its only required property is that it is a bijection.
var sbox = generateSBox()

func generateSBox() [256]byte {
	var box [256]byte
	for i := range box {
		box[i] = byte(i)
	}

	// Deterministic shuffle via a small LCG, independent of package xrand so
	// the table is a fixed compile-time constant in spirit.
	state := uint32(0x2545F491)
	for i := 255; i > 0; i-- {
		state = state*1664525 + 1013904223
		j := int(state>>8) % (i + 1)
		box[i], box[j] = box[j], box[i]
	}

	return box
}
