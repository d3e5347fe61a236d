package jpenc

import (
	"fmt"

	"github.com/hearhellacopters/jampack-go/errs"
	"github.com/hearhellacopters/jampack-go/jpio"
	"github.com/hearhellacopters/jampack-go/tag"
)

func writeSizeClass(w *jpio.Writer, sc tag.SizeClass, n uint64) {
	w.WriteByte(sc.Tag)
	switch sc.AuxLen {
	case 1:
		w.WriteUint8(uint8(n))
	case 2:
		w.WriteUint16(uint16(n))
	case 4:
		w.WriteUint32(uint32(n))
	case 8:
		w.WriteUint64(n)
	}
}

// writeCount emits one of a container family's {fix, u8, u16, u32} count
// tags, per §4.1's size-class rule.
func writeCount(w *jpio.Writer, n uint64, fixBase, wideU8, wideU16, wideU32 tag.Tag) error {
	sc, ok := tag.ClassifyCount(n, fixBase, wideU8, wideU16, wideU32)
	if !ok {
		return fmt.Errorf("%w: count %d exceeds 32-bit limit", errs.ErrSizeTooLarge, n)
	}
	writeSizeClass(w, sc, n)
	return nil
}

// writeUnsigned emits the smallest unsigned representation of v (§4.1).
func writeUnsigned(w *jpio.Writer, v uint64) {
	sc := tag.ClassifyUnsigned(v)
	writeSizeClass(w, sc, v)
}

// writeSigned emits the smallest signed representation of v (§4.1).
func writeSigned(w *jpio.Writer, v int64) {
	if v >= 0 {
		writeUnsigned(w, uint64(v))
		return
	}
	sc := tag.ClassifySigned(v)
	w.WriteByte(sc.Tag)
	switch sc.AuxLen {
	case 1:
		w.WriteInt8(int8(v))
	case 2:
		w.WriteInt16(int16(v))
	case 4:
		w.WriteInt32(int32(v))
	case 8:
		w.WriteInt64(v)
	}
}

// writeFloat emits float32 when the value round-trips losslessly, else
// float64 (§4.1).
func writeFloat(w *jpio.Writer, f float64) {
	if tag.Float32RoundTrips(f) {
		w.WriteByte(tag.Float32)
		w.WriteFloat32(float32(f))
		return
	}
	w.WriteByte(tag.Float64)
	w.WriteFloat64(f)
}

// writeExtHeader emits an ext-family tag (u8/u16/u32, §4.1 has no fix-ext
// range) carrying length, followed by the type byte.
func writeExtHeader(w *jpio.Writer, length uint64, typeByte byte) error {
	if err := writeCount(w, length, 0, tag.ExtU8, tag.ExtU16, tag.ExtU32); err != nil {
		return err
	}
	w.WriteByte(typeByte)
	return nil
}
