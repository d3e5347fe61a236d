package blockcipher

// camelliaRounds mirrors the 256-bit-key round count of the real Camellia
// cipher (24 rounds); see the package doc comment for why this suite is a
// structural fallback rather than a conformant Camellia implementation.
const camelliaRounds = 24

func newCamelliaCipher(key [32]byte) blockCipher {
	return newFeistel(deriveRoundKeys(key, camelliaRounds, 0xCA3E111A))
}
