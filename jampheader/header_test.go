package jampheader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeader_RoundTripLittleEndian(t *testing.T) {
	require := require.New(t)

	h := New()
	h.ValueSize = 10
	h.StrSize = 20
	h.DataSize = 30
	h.SetFlag(FlagCrc32)
	h.CRC32 = 0xDEADBEEF

	b := h.Bytes()
	require.Equal(BaseHeaderSize+4, len(b))

	got, fatal, warning := Parse(b)
	require.NoError(fatal)
	require.NoError(warning)
	require.True(got.IsLittleEndian())
	require.Equal(h.ValueSize, got.ValueSize)
	require.Equal(h.StrSize, got.StrSize)
	require.Equal(h.DataSize, got.DataSize)
	require.Equal(h.CRC32, got.CRC32)
}

func TestHeader_RoundTripBigEndian(t *testing.T) {
	require := require.New(t)

	h := New()
	h.SetBigEndian()
	h.ValueSize = 1
	h.StrSize = 2
	h.DataSize = 3

	got, fatal, warning := Parse(h.Bytes())
	require.NoError(fatal)
	require.NoError(warning)
	require.False(got.IsLittleEndian())
}

func TestHeader_EncryptionKeyTail(t *testing.T) {
	require := require.New(t)

	h := New()
	h.SetFlag(FlagEncrypted)
	h.EncryptionKey = 0x12345678

	b := h.Bytes()
	require.Equal(BaseHeaderSize+4, len(b))

	got, fatal, warning := Parse(b)
	require.NoError(fatal)
	require.NoError(warning)
	require.Equal(h.EncryptionKey, got.EncryptionKey)
}

func TestHeader_EncryptionExcludedOmitsKeyTail(t *testing.T) {
	require := require.New(t)

	h := New()
	h.SetFlag(FlagEncrypted)
	h.SetFlag(FlagEncryptionExcluded)

	b := h.Bytes()
	require.Equal(BaseHeaderSize, len(b), "excluded mode must not reserve a key tail")
}

func TestParse_BadMagic(t *testing.T) {
	require := require.New(t)

	data := make([]byte, BaseHeaderSize)
	data[0], data[1] = 0xFF, 0xFF

	_, fatal, _ := Parse(data)
	require.Error(fatal)
}

func TestParse_NewerVersionIsWarningNotFatal(t *testing.T) {
	require := require.New(t)

	h := New()
	h.VersionMajor = VersionMajor + 1

	_, fatal, warning := Parse(h.Bytes())
	require.NoError(fatal)
	require.Error(warning, "a newer major version must be surfaced as a warning, not fail the parse")
}

func TestParse_TooShort(t *testing.T) {
	require := require.New(t)

	_, fatal, _ := Parse(make([]byte, 4))
	require.Error(fatal)
}
