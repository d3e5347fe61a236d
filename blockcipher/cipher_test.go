package blockcipher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerive_SuiteSelection(t *testing.T) {
	require := require.New(t)

	require.Equal(SuiteARIA, Derive(0).Suite)
	require.Equal(SuiteAES, Derive(1).Suite)
	require.Equal(SuiteCamellia, Derive(2).Suite)
	require.Equal(SuiteARIA, Derive(3).Suite)
}

func TestDerive_Deterministic(t *testing.T) {
	require := require.New(t)

	a := Derive(0xABCDEF01)
	b := Derive(0xABCDEF01)
	require.Equal(a, b)
}

func TestEncryptDecrypt_AllSuites(t *testing.T) {
	require := require.New(t)

	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	for seed := uint32(0); seed < 3; seed++ {
		mat := Derive(seed)

		ciphertext, err := Encrypt(mat, plaintext)
		require.NoError(err)
		require.Equal(0, len(ciphertext)%BlockSize)

		got, err := Decrypt(mat, ciphertext)
		require.NoError(err)
		require.Equal(plaintext, got)
	}
}

func TestEncryptDecrypt_EmptyPlaintext(t *testing.T) {
	require := require.New(t)

	mat := Derive(7)
	ciphertext, err := Encrypt(mat, nil)
	require.NoError(err)
	require.Equal(BlockSize, len(ciphertext), "empty input still pads to one full block")

	got, err := Decrypt(mat, ciphertext)
	require.NoError(err)
	require.Empty(got)
}

func TestDecrypt_RejectsNonBlockAligned(t *testing.T) {
	require := require.New(t)

	mat := Derive(1)
	_, err := Decrypt(mat, []byte{1, 2, 3})
	require.Error(err)
}

func TestDecrypt_WrongKeyProducesDifferentPlaintext(t *testing.T) {
	require := require.New(t)

	plaintext := []byte("confidential")
	ciphertext, err := Encrypt(Derive(100), plaintext)
	require.NoError(err)

	got, err := Decrypt(Derive(200), ciphertext)
	if err == nil {
		require.NotEqual(plaintext, got)
	}
}
