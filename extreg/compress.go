package extreg

import (
	"fmt"

	"github.com/hearhellacopters/jampack-go/extcodec"
)

// RegisterCompressed is Register, with the extension's payload run through
// algo's Codec on the way in and out: encode produces the payload as usual,
// then compresses it before it's wrapped in an Ext value; decode reverses
// that before handing the payload to decode. Use this for extensions whose
// payload is large enough that the user-assignable range benefits from its
// own compression choice, independent of the file-level pipeline's fixed
// framed-DEFLATE stage (§4.5, §4.7).
func (r *Registry) RegisterCompressed(typeByte byte, algo extcodec.Algorithm, encode EncodeFunc, decode DecodeFunc) error {
	codec := extcodec.ByAlgorithm(algo)

	wrappedEncode := func(v any) ([]byte, bool, error) {
		payload, ok, err := encode(v)
		if err != nil || !ok {
			return nil, ok, err
		}
		compressed, cerr := codec.Compress(payload)
		if cerr != nil {
			return nil, false, fmt.Errorf("extreg: compressing extension 0x%02X payload with %s: %w", typeByte, algo, cerr)
		}
		return compressed, true, nil
	}

	wrappedDecode := func(tb byte, payload []byte) (any, error) {
		raw, err := codec.Decompress(payload)
		if err != nil {
			return nil, fmt.Errorf("extreg: decompressing extension 0x%02X payload with %s: %w", typeByte, algo, err)
		}
		return decode(tb, raw)
	}

	return r.Register(typeByte, wrappedEncode, wrappedDecode)
}
