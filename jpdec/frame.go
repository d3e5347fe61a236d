package jpdec

import "github.com/hearhellacopters/jampack-go/value"

type frameKind uint8

const (
	frameArray frameKind = iota
	frameSet
	frameObject
	frameMap
)

// pairState tracks which half of a key/value slot an Object or Map frame is
// waiting on next (§4.4's Object(Key)/Object(Value)/Map(Key)/Map(Value)).
type pairState uint8

const (
	stateKey pairState = iota
	stateValue
)

// frame is one level of the decoder's explicit stack (§4.4): a declared
// size and a cursor tracking how many slots have been filled so far.
type frame struct {
	kind  frameKind
	size  uint64
	state pairState

	items []value.Value   // Array, Set
	pairs []value.Pair    // Object
	mpairs []value.MapPair // Map

	pendingKey    string      // Object(Value) waiting half
	pendingMapKey value.Value // Map(Value) waiting half

	filled uint64 // number of complete slots (elements, or key/value pairs)
}

func newArrayFrame(size uint64) *frame {
	return &frame{kind: frameArray, size: size, items: make([]value.Value, 0, cap64(size))}
}

func newSetFrame(size uint64) *frame {
	return &frame{kind: frameSet, size: size, items: make([]value.Value, 0, cap64(size))}
}

func newObjectFrame(size uint64) *frame {
	return &frame{kind: frameObject, size: size, pairs: make([]value.Pair, 0, cap64(size))}
}

func newMapFrame(size uint64) *frame {
	return &frame{kind: frameMap, size: size, mpairs: make([]value.MapPair, 0, cap64(size))}
}

// cap64 bounds a pre-allocation hint; declared counts come straight off the
// wire and must not be trusted as an unbounded allocation request.
func cap64(n uint64) int {
	const capLimit = 1 << 16
	if n > capLimit {
		return capLimit
	}
	return int(n)
}

// complete reports whether every slot declared by this frame has been filled.
func (f *frame) complete() bool { return f.filled >= f.size }

// build materializes the frame's accumulated contents into a Value,
// regardless of whether it ran to completion (used for both the normal
// completion path and the LIST_END early-close path, §4.4).
func (f *frame) build() value.Value {
	switch f.kind {
	case frameArray:
		return value.Array(f.items)
	case frameSet:
		return value.Set(f.items)
	case frameObject:
		return value.Object(f.pairs)
	case frameMap:
		return value.Map(f.mpairs)
	default:
		return value.Null()
	}
}
