package tag

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyUnsigned_PicksSmallest(t *testing.T) {
	require := require.New(t)

	cases := []struct {
		v       uint64
		wantTag Tag
		wantAux int
	}{
		{0, 0x00, 0},
		{127, 0x7F, 0},
		{128, UInt8, 1},
		{math.MaxUint8, UInt8, 1},
		{math.MaxUint8 + 1, UInt16, 2},
		{math.MaxUint16, UInt16, 2},
		{math.MaxUint16 + 1, UInt32, 4},
		{math.MaxUint32, UInt32, 4},
		{math.MaxUint32 + 1, UInt64, 8},
	}

	for _, c := range cases {
		sc := ClassifyUnsigned(c.v)
		require.Equal(c.wantTag, sc.Tag, "value %d", c.v)
		require.Equal(c.wantAux, sc.AuxLen, "value %d", c.v)
	}
}

func TestClassifySigned_NegativeFixint(t *testing.T) {
	require := require.New(t)

	sc := ClassifySigned(-5)
	require.Equal(Tag(0xFB), sc.Tag)
	require.Equal(0, sc.AuxLen)

	sc = ClassifySigned(-32)
	require.Equal(Tag(0xE0), sc.Tag)

	sc = ClassifySigned(-33)
	require.Equal(Int8, sc.Tag)
	require.Equal(1, sc.AuxLen)
}

func TestClassifyCount_FixAndWide(t *testing.T) {
	require := require.New(t)

	sc, ok := ClassifyCount(0, FixObjectBase, ObjectU8, ObjectU16, ObjectU32)
	require.True(ok)
	require.Equal(FixObjectBase, sc.Tag)

	sc, ok = ClassifyCount(FixMax, FixObjectBase, ObjectU8, ObjectU16, ObjectU32)
	require.True(ok)
	require.Equal(FixObjectBase+Tag(FixMax), sc.Tag)

	sc, ok = ClassifyCount(FixMax+1, FixObjectBase, ObjectU8, ObjectU16, ObjectU32)
	require.True(ok)
	require.Equal(ObjectU8, sc.Tag)
	require.Equal(1, sc.AuxLen)

	_, ok = ClassifyCount(uint64(math.MaxUint32)+1, FixObjectBase, ObjectU8, ObjectU16, ObjectU32)
	require.False(ok, "counts beyond 32 bits must be rejected")
}

func TestFloat32RoundTrips(t *testing.T) {
	require := require.New(t)

	require.True(Float32RoundTrips(1.5))
	require.True(Float32RoundTrips(0))
	require.False(Float32RoundTrips(math.Pi))
}

func TestIsReservedExt(t *testing.T) {
	require := require.New(t)

	require.False(IsReservedExt(0x00))
	require.False(IsReservedExt(UserExtMax))
	require.True(IsReservedExt(0xD0))
	require.True(IsReservedExt(ExtDate))
}

func TestFixintHelpers(t *testing.T) {
	require := require.New(t)

	require.True(IsPositiveFixint(0))
	require.True(IsPositiveFixint(PositiveFixintMax))
	require.False(IsPositiveFixint(0x80))

	require.True(IsNegativeFixint(NegFixintBase))
	require.True(IsNegativeFixint(0xFF))
	require.False(IsNegativeFixint(0x7F))

	require.Equal(int64(-5), NegativeFixintValue(0xFB))
	require.Equal(int64(-1), NegativeFixintValue(0xFF))
	require.Equal(int64(-32), NegativeFixintValue(NegFixintBase))
}
