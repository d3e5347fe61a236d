package jpenc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hearhellacopters/jampack-go/endian"
	"github.com/hearhellacopters/jampack-go/jpio"
	"github.com/hearhellacopters/jampack-go/strpool"
	"github.com/hearhellacopters/jampack-go/tag"
	"github.com/hearhellacopters/jampack-go/value"
)

func TestEncode_EmptyObject(t *testing.T) {
	require := require.New(t)

	enc, err := New()
	require.NoError(err)

	vsec, ssec, err := enc.Encode(value.Object(nil))
	require.NoError(err)
	require.NotNil(ssec, "an empty pool still serializes its (empty) section header")

	// Empty object: fix-object tag with count 0, then FINISHED.
	require.Equal([]byte{tag.FixObjectBase, tag.Finished}, vsec)
	require.False(enc.HasExtensions())
	require.True(enc.ValidJSON())
}

func TestEncode_TinyString_InternsOnce(t *testing.T) {
	require := require.New(t)

	enc, err := New()
	require.NoError(err)

	root := value.Array([]value.Value{value.String("hi"), value.String("hi")})
	vsec, ssec, err := enc.Encode(root)
	require.NoError(err)
	require.NotEmpty(vsec)

	r := jpio.NewReader(ssec, endian.GetLittleEndianEngine())
	pool, err := strpool.ReadSection(r)
	require.NoError(err)
	require.Equal(1, pool.Len(), "the duplicate string must share one pool entry")
}

func TestEncode_NegativeFixint(t *testing.T) {
	require := require.New(t)

	enc, err := New()
	require.NoError(err)

	vsec, _, err := enc.Encode(value.Int(-5))
	require.NoError(err)
	require.Equal([]byte{0xFB, tag.Finished}, vsec)
}

func TestEncode_MaxDepthExceeded(t *testing.T) {
	require := require.New(t)

	enc, err := New(WithMaxDepth(2))
	require.NoError(err)

	deep := value.Array([]value.Value{value.Array([]value.Value{value.Array([]value.Value{value.Int(1)})})})
	_, _, err = enc.Encode(deep)
	require.Error(err)
}

func TestEncode_StripKeysProducesKeyDictionary(t *testing.T) {
	require := require.New(t)

	enc, err := New(WithStripKeys())
	require.NoError(err)

	root := value.Object([]value.Pair{{Key: "a", Val: value.Int(1)}, {Key: "b", Val: value.Int(2)}})
	_, _, err = enc.Encode(root)
	require.NoError(err)

	keys := enc.KeysArray()
	require.Equal([]string{"a", "b"}, keys)
}

func TestEncode_SetAndMapEmitExtensions(t *testing.T) {
	require := require.New(t)

	enc, err := New()
	require.NoError(err)

	_, _, err = enc.Encode(value.Set([]value.Value{value.Int(1)}))
	require.NoError(err)
	require.True(enc.HasExtensions())

	enc2, err := New()
	require.NoError(err)
	_, _, err = enc2.Encode(value.Map([]value.MapPair{{Key: value.Int(1), Val: value.Int(2)}}))
	require.NoError(err)
	require.True(enc2.HasExtensions())
}

func TestEncode_BigEndianOption(t *testing.T) {
	require := require.New(t)

	enc, err := New(WithBigEndian())
	require.NoError(err)

	_, _, err = enc.Encode(value.Float64(1.5))
	require.NoError(err)
}

func TestEncode_ReentrantCallClones(t *testing.T) {
	require := require.New(t)

	enc, err := New()
	require.NoError(err)

	enc.busy.Store(true)
	defer enc.busy.Store(false)

	vsec, _, err := enc.Encode(value.Int(1))
	require.NoError(err)
	require.NotEmpty(vsec, "a call made while busy must still succeed, via a cloned Encoder")
}
