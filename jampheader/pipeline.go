package jampheader

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/hearhellacopters/jampack-go/blockcipher"
	"github.com/hearhellacopters/jampack-go/errs"
	"github.com/hearhellacopters/jampack-go/framedflate"
	"github.com/hearhellacopters/jampack-go/integrity"
)

// PipelineOptions selects which of the three optional transforms (§4.5) a
// Pack call applies, and which the Unpack side must reverse.
type PipelineOptions struct {
	Crc32              bool
	Compress           bool
	Encrypt            bool
	EncryptionExcluded bool // header's key tail omitted; caller supplies the key seed out of band
	KeySeed            uint32 // seed to encrypt with when Encrypt is set; 0 picks a random seed (see Pack)
}

// Pack applies the write-side pipeline to the logical (value-section ||
// string-section) payload: compute CRC32 over the plaintext, then compress,
// then encrypt, in that fixed order (§4.5). It returns the header (with
// ValueSize/StrSize/DataSize/flags/CRC32/EncryptionKey populated), the final
// on-disk payload bytes that follow the header, and the 32-bit key seed
// actually used to encrypt (0 if Encrypt was not requested). The returned
// seed is the only way a caller using EncryptionExcluded recovers a
// randomly generated seed, since that mode deliberately omits it from the
// header itself.
func Pack(valueSection, strSection []byte, opts PipelineOptions, littleEndian bool) (h *Header, payload []byte, keySeed uint32, err error) {
	h = New()
	if !littleEndian {
		h.SetBigEndian()
	}

	plain := make([]byte, 0, len(valueSection)+len(strSection))
	plain = append(plain, valueSection...)
	plain = append(plain, strSection...)

	h.ValueSize = uint64(len(valueSection))
	h.StrSize = uint64(len(strSection))

	if opts.Crc32 {
		h.SetFlag(FlagCrc32)
		h.CRC32 = integrity.Checksum(plain)
	}

	payload = plain

	if opts.Compress {
		h.SetFlag(FlagCompressed)
		compressed, cerr := framedflate.Compress(payload)
		if cerr != nil {
			return nil, nil, 0, fmt.Errorf("%w: %v", errs.ErrCompressFailure, cerr)
		}
		payload = compressed
	}

	if opts.Encrypt {
		h.SetFlag(FlagEncrypted)

		keySeed = opts.KeySeed
		if keySeed == 0 {
			var seedBuf [4]byte
			if _, rerr := rand.Read(seedBuf[:]); rerr != nil {
				return nil, nil, 0, fmt.Errorf("%w: generating key seed: %v", errs.ErrCryptoFailure, rerr)
			}
			keySeed = binary.LittleEndian.Uint32(seedBuf[:])
		}

		mat := blockcipher.Derive(keySeed)
		encrypted, eerr := blockcipher.Encrypt(mat, payload)
		if eerr != nil {
			return nil, nil, 0, fmt.Errorf("%w: %v", errs.ErrCryptoFailure, eerr)
		}
		payload = encrypted

		if opts.EncryptionExcluded {
			h.SetFlag(FlagEncryptionExcluded)
		} else {
			h.EncryptionKey = keySeed
		}
	}

	h.DataSize = uint64(len(payload))
	if h.DataSize > 0xFFFFFFFF {
		h.SetFlag(FlagLargeFile)
	}

	return h, payload, keySeed, nil
}

// Unpack reverses Pack: decrypt (if Encrypted), decompress (if Compressed),
// verify CRC32 (if Crc32), then split the recovered plaintext back into its
// value and string sections using the header's ValueSize/StrSize.
//
// externalKeySeed is used only when the header's Encrypted flag is set and
// its EncryptionExcluded flag is also set, meaning the key tail was omitted
// and the caller must supply the seed some other way (§4.6, §9). A zero
// externalKeySeed means none was supplied, and Unpack then fails with
// ErrMissingKey (Pack never encrypts with a zero seed it was given).
//
// A CRC mismatch or a declared/actual size mismatch is not fatal (§4.9):
// both are reported back as warnings and decoding proceeds best-effort,
// clamping the value section to the bytes recovered and giving the rest (if
// any) to the string section. Only the crypto and
// compression stages can fail the call outright, since a bad key or a
// corrupt compressed stream leaves no plaintext to recover from at all.
func Unpack(h *Header, payload []byte, externalKeySeed uint32) (valueSection, strSection []byte, warnings []errs.Warning, err error) {
	data := payload

	if h.HasFlag(FlagEncrypted) {
		keySeed := h.EncryptionKey
		if h.HasFlag(FlagEncryptionExcluded) {
			if externalKeySeed == 0 {
				return nil, nil, nil, fmt.Errorf("%w: header omits the key seed and none was supplied", errs.ErrMissingKey)
			}
			keySeed = externalKeySeed
		}
		mat := blockcipher.Derive(keySeed)
		decrypted, derr := blockcipher.Decrypt(mat, data)
		if derr != nil {
			return nil, nil, nil, fmt.Errorf("%w: %v", errs.ErrCryptoFailure, derr)
		}
		data = decrypted
	}

	if h.HasFlag(FlagCompressed) {
		decompressed, derr := framedflate.Decompress(data)
		if derr != nil {
			return nil, nil, nil, fmt.Errorf("%w: %v", errs.ErrCompressFailure, derr)
		}
		data = decompressed
	}

	if h.HasFlag(FlagCrc32) {
		if got := integrity.Checksum(data); got != h.CRC32 {
			warnings = append(warnings, errs.NewWarning("crc32",
				fmt.Errorf("header declares 0x%08X, computed 0x%08X", h.CRC32, got)))
		}
	}

	total := h.ValueSize + h.StrSize
	if uint64(len(data)) != total {
		warnings = append(warnings, errs.NewWarning("size",
			fmt.Errorf("recovered %d plaintext bytes, header declares %d (value) + %d (str)", len(data), h.ValueSize, h.StrSize)))

		// Best-effort split against whatever we actually recovered: clamp
		// ValueSize to what's available and treat the rest (if any) as the
		// string section.
		vsize := h.ValueSize
		if vsize > uint64(len(data)) {
			vsize = uint64(len(data))
		}
		valueSection = data[:vsize]
		strSection = data[vsize:]
		return valueSection, strSection, warnings, nil
	}

	valueSection = data[:h.ValueSize]
	strSection = data[h.ValueSize:]
	return valueSection, strSection, warnings, nil
}
