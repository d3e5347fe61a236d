package extreg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hearhellacopters/jampack-go/extcodec"
	"github.com/hearhellacopters/jampack-go/tag"
	"github.com/hearhellacopters/jampack-go/value"
)

type point struct{ x, y int }

func pointCodec() (EncodeFunc, DecodeFunc) {
	encode := func(v any) ([]byte, bool, error) {
		p, ok := v.(point)
		if !ok {
			return nil, false, nil
		}
		return []byte{byte(p.x), byte(p.y)}, true, nil
	}
	decode := func(typeByte byte, payload []byte) (any, error) {
		return point{x: int(payload[0]), y: int(payload[1])}, nil
	}
	return encode, decode
}

func TestRegister_RejectsReservedRange(t *testing.T) {
	require := require.New(t)

	r := New()
	encode, decode := pointCodec()
	err := r.Register(tag.ExtDate, encode, decode)
	require.Error(err)
}

func TestEncode_DispatchesInRegistrationOrder(t *testing.T) {
	require := require.New(t)

	r := New()
	encode, decode := pointCodec()
	require.NoError(r.Register(0x01, encode, decode))

	always := func(v any) ([]byte, bool, error) { return []byte{0xFF}, true, nil }
	require.NoError(r.Register(0x02, always, func(byte, []byte) (any, error) { return nil, nil }))

	got, ok, err := r.Encode(point{x: 1, y: 2})
	require.NoError(err)
	require.True(ok)
	require.Equal(byte(0x01), got.ExtType(), "the first registered candidate that claims the value wins")
}

func TestEncode_UnrecognizedValueReturnsFalse(t *testing.T) {
	require := require.New(t)

	r := New()
	encode, decode := pointCodec()
	require.NoError(r.Register(0x01, encode, decode))

	_, ok, err := r.Encode("not a point")
	require.NoError(err)
	require.False(ok)
}

func TestEncode_PassesThroughPreWrappedExt(t *testing.T) {
	require := require.New(t)

	r := New()
	pre := value.Ext(0x05, []byte{1, 2, 3})

	got, ok, err := r.Encode(pre)
	require.NoError(err)
	require.True(ok)
	require.True(value.Equal(pre, got))
}

func TestDecode_RoundTrip(t *testing.T) {
	require := require.New(t)

	r := New()
	encode, decode := pointCodec()
	require.NoError(r.Register(0x03, encode, decode))

	ext, ok, err := r.Encode(point{x: 10, y: 20})
	require.NoError(err)
	require.True(ok)

	got, err := r.Decode(ext.ExtType(), ext.ExtPayload())
	require.NoError(err)
	require.Equal(point{x: 10, y: 20}, got)
}

func TestDecode_UnknownTypeByteIsNotFatal(t *testing.T) {
	require := require.New(t)

	r := New()
	_, err := r.Decode(0x42, []byte{1})
	require.Error(err)
	require.False(r.Has(0x42))
}

func TestRegister_ReplaceKeepsOriginalOrder(t *testing.T) {
	require := require.New(t)

	r := New()
	encode1, decode1 := pointCodec()
	require.NoError(r.Register(0x01, encode1, decode1))
	// 0x02 claims every value, so it would win if 0x01 moved behind it.
	require.NoError(r.Register(0x02, func(v any) ([]byte, bool, error) {
		return []byte{0}, true, nil
	}, decode1))

	replaced := false
	encode2 := func(v any) ([]byte, bool, error) {
		replaced = true
		return encode1(v)
	}
	require.NoError(r.Register(0x01, encode2, decode1))

	got, ok, err := r.Encode(point{x: 1, y: 1})
	require.NoError(err)
	require.True(ok)
	require.Equal(byte(0x01), got.ExtType(), "the replaced encoder must keep its original (first) position")
	require.True(replaced, "re-registering the same type byte must replace its encoder")
	require.True(r.Has(0x01))
}

type bigBuffer []byte

func TestRegisterCompressed_RoundTripsThroughCodec(t *testing.T) {
	require := require.New(t)

	r := New()
	encode := func(v any) ([]byte, bool, error) {
		b, ok := v.(bigBuffer)
		if !ok {
			return nil, false, nil
		}
		return []byte(b), true, nil
	}
	decode := func(typeByte byte, payload []byte) (any, error) {
		return bigBuffer(payload), nil
	}
	require.NoError(r.RegisterCompressed(0x20, extcodec.AlgorithmS2, encode, decode))

	original := bigBuffer(bytes.Repeat([]byte("repeated payload bytes "), 500))

	ext, ok, err := r.Encode(original)
	require.NoError(err)
	require.True(ok)
	require.Less(len(ext.ExtPayload()), len(original), "the stored payload must actually be compressed")

	got, err := r.Decode(ext.ExtType(), ext.ExtPayload())
	require.NoError(err)
	require.Equal(original, got)
}

func TestRegisterCompressed_UnrecognizedValueStillFallsThrough(t *testing.T) {
	require := require.New(t)

	r := New()
	encode := func(v any) ([]byte, bool, error) {
		_, ok := v.(bigBuffer)
		if !ok {
			return nil, false, nil
		}
		return []byte(v.(bigBuffer)), true, nil
	}
	decode := func(typeByte byte, payload []byte) (any, error) { return bigBuffer(payload), nil }
	require.NoError(r.RegisterCompressed(0x21, extcodec.AlgorithmLZ4, encode, decode))

	_, ok, err := r.Encode("not a bigBuffer")
	require.NoError(err)
	require.False(ok)
}
