package extcodec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByAlgorithm_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("payload payload payload "), 200)

	algos := []Algorithm{AlgorithmNone, AlgorithmZstd, AlgorithmS2, AlgorithmLZ4, AlgorithmGozstd}
	for _, a := range algos {
		t.Run(a.String(), func(t *testing.T) {
			require := require.New(t)

			codec := ByAlgorithm(a)
			compressed, err := codec.Compress(data)
			require.NoError(err)

			got, err := codec.Decompress(compressed)
			require.NoError(err)
			require.Equal(data, got)
		})
	}
}

func TestByAlgorithm_EmptyInput(t *testing.T) {
	algos := []Algorithm{AlgorithmNone, AlgorithmZstd, AlgorithmS2, AlgorithmLZ4, AlgorithmGozstd}
	for _, a := range algos {
		t.Run(a.String(), func(t *testing.T) {
			require := require.New(t)

			codec := ByAlgorithm(a)
			compressed, err := codec.Compress(nil)
			require.NoError(err)

			got, err := codec.Decompress(compressed)
			require.NoError(err)
			require.Empty(got)
		})
	}
}

func TestByAlgorithm_UnknownFallsBackToNoOp(t *testing.T) {
	require := require.New(t)

	codec := ByAlgorithm(Algorithm(99))
	_, ok := codec.(NoOpCodec)
	require.True(ok)
}

func TestAlgorithm_String(t *testing.T) {
	require := require.New(t)

	require.Equal("none", AlgorithmNone.String())
	require.Equal("zstd", AlgorithmZstd.String())
	require.Equal("s2", AlgorithmS2.String())
	require.Equal("lz4", AlgorithmLZ4.String())
	require.Equal("gozstd-cgo", AlgorithmGozstd.String())
	require.Equal("unknown", Algorithm(99).String())
}
