package jampheader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPack_Unpack_Plain(t *testing.T) {
	require := require.New(t)

	value := []byte{1, 2, 3, 4}
	str := []byte{5, 6}

	h, payload, keySeed, err := Pack(value, str, PipelineOptions{}, true)
	require.NoError(err)
	require.Equal(uint32(0), keySeed)

	gotValue, gotStr, warnings, err := Unpack(h, payload, 0)
	require.NoError(err)
	require.Empty(warnings)
	require.Equal(value, gotValue)
	require.Equal(str, gotStr)
}

func TestPack_Unpack_CRC32(t *testing.T) {
	require := require.New(t)

	value := []byte{1, 2, 3}
	str := []byte("hello")

	h, payload, _, err := Pack(value, str, PipelineOptions{Crc32: true}, true)
	require.NoError(err)
	require.True(h.HasFlag(FlagCrc32))

	gotValue, gotStr, warnings, err := Unpack(h, payload, 0)
	require.NoError(err)
	require.Empty(warnings)
	require.Equal(value, gotValue)
	require.Equal(str, gotStr)
}

func TestUnpack_CRCMismatchIsWarningNotFatal(t *testing.T) {
	require := require.New(t)

	value := []byte{1, 2, 3}
	str := []byte("hello")

	h, payload, _, err := Pack(value, str, PipelineOptions{Crc32: true}, true)
	require.NoError(err)

	h.CRC32 ^= 0xFFFFFFFF // corrupt the declared checksum

	gotValue, gotStr, warnings, err := Unpack(h, payload, 0)
	require.NoError(err, "a CRC mismatch must not fail Unpack")
	require.Len(warnings, 1)
	require.Equal(value, gotValue)
	require.Equal(str, gotStr)
}

func TestPack_Unpack_Compress(t *testing.T) {
	require := require.New(t)

	value := make([]byte, 256)
	str := []byte("a repeated string a repeated string a repeated string")

	h, payload, _, err := Pack(value, str, PipelineOptions{Compress: true}, true)
	require.NoError(err)
	require.True(h.HasFlag(FlagCompressed))

	gotValue, gotStr, warnings, err := Unpack(h, payload, 0)
	require.NoError(err)
	require.Empty(warnings)
	require.Equal(value, gotValue)
	require.Equal(str, gotStr)
}

func TestPack_Unpack_EncryptWithExplicitSeed(t *testing.T) {
	require := require.New(t)

	value := []byte{9, 9, 9}
	str := []byte("secret")

	h, payload, keySeed, err := Pack(value, str, PipelineOptions{Encrypt: true, KeySeed: 0xCAFEBABE}, true)
	require.NoError(err)
	require.Equal(uint32(0xCAFEBABE), keySeed)
	require.Equal(uint32(0xCAFEBABE), h.EncryptionKey)

	gotValue, gotStr, warnings, err := Unpack(h, payload, 0)
	require.NoError(err)
	require.Empty(warnings)
	require.Equal(value, gotValue)
	require.Equal(str, gotStr)
}

func TestPack_EncryptionExcluded_RandomSeedIsRecoverable(t *testing.T) {
	require := require.New(t)

	value := []byte{1}
	str := []byte{2}

	h, payload, keySeed, err := Pack(value, str, PipelineOptions{Encrypt: true, EncryptionExcluded: true}, true)
	require.NoError(err)
	require.NotZero(keySeed, "a random seed must have been generated")
	require.True(h.HasFlag(FlagEncryptionExcluded))
	require.Zero(h.EncryptionKey, "excluded mode must not embed the key in the header")

	// The seed returned by Pack, supplied out of band, recovers both sections.
	gotValue, gotStr, _, err := Unpack(h, payload, keySeed)
	require.NoError(err)
	require.Equal(value, gotValue)
	require.Equal(str, gotStr)
}

func TestUnpack_SizeMismatchIsWarningNotFatal(t *testing.T) {
	require := require.New(t)

	value := []byte{1, 2, 3, 4, 5}
	str := []byte{6, 7, 8}

	h, payload, _, err := Pack(value, str, PipelineOptions{}, true)
	require.NoError(err)

	h.ValueSize = uint64(len(value)) + 100 // lie about the split

	gotValue, gotStr, warnings, err := Unpack(h, payload, 0)
	require.NoError(err, "a size mismatch must not fail Unpack")
	require.Len(warnings, 1)
	require.Equal(len(payload), len(gotValue)+len(gotStr), "best-effort split must still account for every byte")
}

func TestPack_Unpack_AllTransformsCombined(t *testing.T) {
	require := require.New(t)

	value := make([]byte, 128)
	for i := range value {
		value[i] = byte(i)
	}
	str := []byte("combined pipeline round trip")

	opts := PipelineOptions{Crc32: true, Compress: true, Encrypt: true, KeySeed: 42}
	h, payload, keySeed, err := Pack(value, str, opts, false)
	require.NoError(err)
	require.Equal(uint32(42), keySeed)
	require.True(h.HasFlag(FlagCrc32))
	require.True(h.HasFlag(FlagCompressed))
	require.True(h.HasFlag(FlagEncrypted))

	gotValue, gotStr, warnings, err := Unpack(h, payload, 0)
	require.NoError(err)
	require.Empty(warnings)
	require.Equal(value, gotValue)
	require.Equal(str, gotStr)
}
