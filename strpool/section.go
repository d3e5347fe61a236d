package strpool

import (
	"fmt"

	"github.com/hearhellacopters/jampack-go/jpio"
	"github.com/hearhellacopters/jampack-go/tag"
)

// WriteSection serializes the pool as described in §4.2/§6: one ARRAY_*
// count tag, followed by each string as [STR_* tag][utf8 bytes] where the
// tag's inline count/length is the UTF-8 byte length of that string (not a
// pool index — the dual role of the STR_0-STR_15 range is the open question
// in §9 that implementations must track explicitly), terminated by a single
// FINISHED byte.
func (p *Pool) WriteSection(w *jpio.Writer) error {
	count := uint64(len(p.values))
	sc, ok := tag.ClassifyCount(count, tag.FixArrayBase, tag.ArrayU8, tag.ArrayU16, tag.ArrayU32)
	if !ok {
		return fmt.Errorf("strpool: pool has %d entries, exceeds the 32-bit count limit", count)
	}
	writeCount(w, sc, count)

	for _, s := range p.values {
		if err := writeLengthPrefixedString(w, s); err != nil {
			return err
		}
	}

	w.WriteByte(tag.Finished)
	return nil
}

func writeCount(w *jpio.Writer, sc tag.SizeClass, count uint64) {
	w.WriteByte(sc.Tag)
	switch sc.AuxLen {
	case 1:
		w.WriteUint8(uint8(count))
	case 2:
		w.WriteUint16(uint16(count))
	case 4:
		w.WriteUint32(uint32(count))
	}
}

func writeLengthPrefixedString(w *jpio.Writer, s string) error {
	byteLen := uint64(len(s))
	sc, ok := tag.ClassifyCount(byteLen, tag.FixStrBase, tag.StrU8, tag.StrU16, tag.StrU32)
	if !ok {
		return fmt.Errorf("strpool: string of %d bytes exceeds the 32-bit length limit", byteLen)
	}
	writeCount(w, sc, byteLen)
	w.WriteBytes([]byte(s))
	return nil
}

// ReadSection parses a pool section written by WriteSection, returning a
// pool materialized up front so later STR/KEY tag lookups are O(1), per
// §3's decoder lifecycle.
func ReadSection(r *jpio.Reader) (*Pool, error) {
	count, err := readCount(r, tag.FixArrayBase, tag.ArrayU8, tag.ArrayU16, tag.ArrayU32)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		s, err := readLengthPrefixedString(r)
		if err != nil {
			return nil, err
		}
		values = append(values, s)
	}

	end, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if end != tag.Finished && end != tag.Reserved {
		return nil, fmt.Errorf("strpool: expected FINISHED at end of pool section, got tag 0x%02X", end)
	}

	return FromValues(values), nil
}

// readCount reads one of the {fix, u8, u16, u32} count-family tags, where
// fixBase is the inline-count base for this container family.
func readCount(r *jpio.Reader, fixBase, wideU8, wideU16, wideU32 byte) (uint64, error) {
	t, err := r.ReadByte()
	if err != nil {
		return 0, err
	}

	switch {
	case t >= fixBase && t <= fixBase+tag.FixMax:
		return uint64(t - fixBase), nil
	case t == wideU8:
		v, err := r.ReadUint8()
		return uint64(v), err
	case t == wideU16:
		v, err := r.ReadUint16()
		return uint64(v), err
	case t == wideU32:
		v, err := r.ReadUint32()
		return uint64(v), err
	default:
		return 0, fmt.Errorf("strpool: unexpected count tag 0x%02X at offset %d", t, r.Pos()-1)
	}
}

func readLengthPrefixedString(r *jpio.Reader) (string, error) {
	n, err := readCount(r, tag.FixStrBase, tag.StrU8, tag.StrU16, tag.StrU32)
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
