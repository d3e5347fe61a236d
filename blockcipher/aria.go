package blockcipher

// ariaRounds mirrors the 256-bit-key round count of the real ARIA cipher (16
// rounds); see the package doc comment for why this suite is a structural
// fallback rather than a conformant ARIA implementation.
const ariaRounds = 16

func newARIACipher(key [32]byte) blockCipher {
	return newFeistel(deriveRoundKeys(key, ariaRounds, 0xA41A0001))
}
