package integrity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum_KnownValue(t *testing.T) {
	require := require.New(t)

	// "123456789" is the standard CRC32/IEEE check string.
	require.Equal(uint32(0xCBF43926), Checksum([]byte("123456789")))
}

func TestChecksum_EmptyIsZero(t *testing.T) {
	require := require.New(t)

	require.Equal(uint32(0), Checksum(nil))
}

func TestIncremental_MatchesOneShot(t *testing.T) {
	require := require.New(t)

	data := []byte("the quick brown fox jumps over the lazy dog")

	inc := NewIncremental()
	inc.Write(data[:10])
	inc.Write(data[10:])

	require.Equal(Checksum(data), inc.Sum32())
}
