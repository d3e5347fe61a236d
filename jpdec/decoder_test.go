package jpdec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hearhellacopters/jampack-go/endian"
	"github.com/hearhellacopters/jampack-go/errs"
	"github.com/hearhellacopters/jampack-go/jpenc"
	"github.com/hearhellacopters/jampack-go/jpio"
	"github.com/hearhellacopters/jampack-go/strpool"
	"github.com/hearhellacopters/jampack-go/value"
)

// encodeForTest runs root through a fresh jpenc.Encoder with the given
// encode-side options, handing back the decoded string pool ready for Decode.
func encodeForTest(t *testing.T, root value.Value, opts ...jpenc.Option) ([]byte, *strpool.Pool) {
	t.Helper()
	require := require.New(t)

	enc, err := jpenc.New(opts...)
	require.NoError(err)

	vsec, ssec, err := enc.Encode(root)
	require.NoError(err)

	r := jpio.NewReader(ssec, endian.GetLittleEndianEngine())
	pool, err := strpool.ReadSection(r)
	require.NoError(err)

	return vsec, pool
}

func TestDecode_RoundTripMixedArray(t *testing.T) {
	require := require.New(t)

	root := value.Array([]value.Value{
		value.Int(-5),
		value.String("hello"),
		value.Bool(true),
		value.Null(),
		value.Float64(1.5),
	})
	vsec, pool := encodeForTest(t, root)

	dec, err := New()
	require.NoError(err)

	got, err := dec.Decode(vsec, pool, true)
	require.NoError(err)
	require.True(value.Equal(root, got))
	require.Empty(dec.Warnings())
}

func TestDecode_EmptyObject(t *testing.T) {
	require := require.New(t)

	vsec, pool := encodeForTest(t, value.Object(nil))

	dec, err := New()
	require.NoError(err)

	got, err := dec.Decode(vsec, pool, true)
	require.NoError(err)
	require.Equal(value.KindObject, got.Kind())
	require.Empty(got.Object())
}

func TestDecode_StripKeysRequiresDictionary(t *testing.T) {
	require := require.New(t)

	root := value.Object([]value.Pair{{Key: "a", Val: value.Int(1)}})
	enc, err := jpenc.New(jpenc.WithStripKeys())
	require.NoError(err)

	vsec, ssec, err := enc.Encode(root)
	require.NoError(err)
	require.Len(ssec, 2, "schema mode must not write keys into the file's own (empty) string pool")

	r := jpio.NewReader(ssec, endian.GetLittleEndianEngine())
	pool, err := strpool.ReadSection(r)
	require.NoError(err)

	noDict, err := New()
	require.NoError(err)
	_, err = noDict.Decode(vsec, pool, true)
	require.ErrorIs(err, errs.ErrMissingKeyDictionary)

	dec, err := New(WithKeyDictionary(enc.KeysArray()))
	require.NoError(err)

	got, err := dec.Decode(vsec, pool, true)
	require.NoError(err)
	require.True(value.Equal(root, got))
}

func TestDecode_ForbiddenKeyRejected(t *testing.T) {
	require := require.New(t)

	_, err := convertKey(value.String("__proto__"))
	require.Error(err)

	key, err := convertKey(value.String("ok"))
	require.NoError(err)
	require.Equal("ok", key)
}

func TestDecode_ForbiddenMapKeyRejected(t *testing.T) {
	require := require.New(t)

	forbidden := value.Map([]value.MapPair{{Key: value.String("__proto__"), Val: value.Int(1)}})
	vsec, pool := encodeForTest(t, forbidden)

	dec, err := New()
	require.NoError(err)

	_, err = dec.Decode(vsec, pool, true)
	require.Error(err, "a Map key of \"__proto__\" must be rejected the same as an Object key")
}

func TestDecode_NonStringMapKeysAreUnrestricted(t *testing.T) {
	require := require.New(t)

	mp := value.Map([]value.MapPair{{Key: value.Int(7), Val: value.String("ok")}})
	vsec, pool := encodeForTest(t, mp)

	dec, err := New()
	require.NoError(err)

	got, err := dec.Decode(vsec, pool, true)
	require.NoError(err)
	require.True(value.Equal(mp, got))
}

func TestDecode_MakeJSONNormalizesUndefined(t *testing.T) {
	require := require.New(t)

	vsec, pool := encodeForTest(t, value.Array([]value.Value{value.Undefined()}))

	dec, err := New(WithMakeJSON())
	require.NoError(err)

	got, err := dec.Decode(vsec, pool, true)
	require.NoError(err)
	require.Equal(value.KindString, got.Array()[0].Kind())
}

func TestDecode_EnforceBigIntWidensIntegers(t *testing.T) {
	require := require.New(t)

	vsec, pool := encodeForTest(t, value.Int(42))

	dec, err := New(WithEnforceBigInt())
	require.NoError(err)

	got, err := dec.Decode(vsec, pool, true)
	require.NoError(err)
	require.Equal(value.KindBigInt, got.Kind())
	require.Equal(int64(42), got.BigInt().Int64())
}

func TestDecode_UnknownStringPoolIndexWarns(t *testing.T) {
	require := require.New(t)

	vsec, _ := encodeForTest(t, value.String("x"))
	emptyPool := strpool.New()

	dec, err := New()
	require.NoError(err)

	got, err := dec.Decode(vsec, emptyPool, true)
	require.NoError(err)
	require.Equal(value.KindString, got.Kind())
	require.Equal("", got.String())
	require.Len(dec.Warnings(), 1)
}

func TestDecode_SetAndMapRoundTrip(t *testing.T) {
	require := require.New(t)

	set := value.Set([]value.Value{value.Int(1), value.Int(2)})
	vsec, pool := encodeForTest(t, set)

	dec, err := New()
	require.NoError(err)

	got, err := dec.Decode(vsec, pool, true)
	require.NoError(err)
	require.True(value.Equal(set, got))

	mp := value.Map([]value.MapPair{{Key: value.String("k"), Val: value.Int(9)}})
	vsec2, pool2 := encodeForTest(t, mp)

	got2, err := dec.Decode(vsec2, pool2, true)
	require.NoError(err)
	require.True(value.Equal(mp, got2))
}
