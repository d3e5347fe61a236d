package extcodec

// NoOpCodec passes extension payload bytes through unchanged. It is the
// default for any extension that does not opt into payload compression.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

func NewNoOpCodec() NoOpCodec { return NoOpCodec{} }

func (NoOpCodec) Compress(data []byte) ([]byte, error)   { return data, nil }
func (NoOpCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
