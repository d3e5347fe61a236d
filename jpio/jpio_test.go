package jpio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hearhellacopters/jampack-go/endian"
)

func TestWriterReader_RoundTrip_LittleEndian(t *testing.T) {
	require := require.New(t)

	w := NewWriter(endian.GetLittleEndianEngine())
	defer w.Release()

	w.WriteByte(0xAB)
	w.WriteUint16(0x1234)
	w.WriteUint32(0xDEADBEEF)
	w.WriteUint64(0x0102030405060708)
	w.WriteInt8(-1)
	w.WriteInt16(-2)
	w.WriteInt32(-3)
	w.WriteInt64(-4)
	w.WriteFloat32(1.5)
	w.WriteFloat64(2.5)
	w.WriteBytes([]byte{1, 2, 3})

	r := NewReader(w.Bytes(), endian.GetLittleEndianEngine())

	b, err := r.ReadByte()
	require.NoError(err)
	require.Equal(byte(0xAB), b)

	u16, err := r.ReadUint16()
	require.NoError(err)
	require.Equal(uint16(0x1234), u16)

	u32, err := r.ReadUint32()
	require.NoError(err)
	require.Equal(uint32(0xDEADBEEF), u32)

	u64, err := r.ReadUint64()
	require.NoError(err)
	require.Equal(uint64(0x0102030405060708), u64)

	i8, err := r.ReadInt8()
	require.NoError(err)
	require.Equal(int8(-1), i8)

	i16, err := r.ReadInt16()
	require.NoError(err)
	require.Equal(int16(-2), i16)

	i32, err := r.ReadInt32()
	require.NoError(err)
	require.Equal(int32(-3), i32)

	i64, err := r.ReadInt64()
	require.NoError(err)
	require.Equal(int64(-4), i64)

	f32, err := r.ReadFloat32()
	require.NoError(err)
	require.Equal(float32(1.5), f32)

	f64, err := r.ReadFloat64()
	require.NoError(err)
	require.Equal(float64(2.5), f64)

	tail, err := r.ReadBytes(3)
	require.NoError(err)
	require.Equal([]byte{1, 2, 3}, tail)

	require.Zero(r.Remaining())
}

func TestReader_UnexpectedEOF(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{1, 2}, endian.GetLittleEndianEngine())
	_, err := r.ReadUint32()
	require.Error(err)
}

func TestReader_PeekByteDoesNotAdvance(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{9, 8}, endian.GetLittleEndianEngine())

	peeked, err := r.PeekByte()
	require.NoError(err)
	require.Equal(byte(9), peeked)

	read, err := r.ReadByte()
	require.NoError(err)
	require.Equal(peeked, read)
}

func TestScratchFile_WriteSeekReadAll(t *testing.T) {
	require := require.New(t)

	base := filepath.Join(t.TempDir(), "out")
	sf, err := NewScratchFile(base, ".values")
	require.NoError(err)
	defer sf.Close()

	_, err = sf.Write([]byte("hello"))
	require.NoError(err)

	size, err := sf.Size()
	require.NoError(err)
	require.EqualValues(5, size)

	got, err := sf.ReadAll()
	require.NoError(err)
	require.Equal([]byte("hello"), got)
}

func TestScratchFile_CloseRemovesFile(t *testing.T) {
	require := require.New(t)

	base := filepath.Join(t.TempDir(), "out")
	sf, err := NewScratchFile(base, ".strings")
	require.NoError(err)

	require.NoError(sf.Close())
	require.NoError(sf.Close(), "Close must be safe to call twice")
}

func TestScratchSet_CreatesAllFourAndCleansUp(t *testing.T) {
	require := require.New(t)

	base := filepath.Join(t.TempDir(), "stream")
	set, err := NewScratchSet(base)
	require.NoError(err)

	_, err = set.Values.Write([]byte{1})
	require.NoError(err)
	_, err = set.Strings.Write([]byte{2})
	require.NoError(err)
	_, err = set.Comp.Write([]byte{3})
	require.NoError(err)
	_, err = set.CompTmp.Write([]byte{4})
	require.NoError(err)

	set.CleanupAll()
}
