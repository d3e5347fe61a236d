package jpdec

import (
	"fmt"
	"strconv"

	"github.com/hearhellacopters/jampack-go/errs"
	"github.com/hearhellacopters/jampack-go/value"
)

// convertKey implements §4.4's key-conversion rule: accepted key value kinds
// are string, integer and symbol; anything else is InvalidKey. The literal
// string "__proto__" is always rejected with ForbiddenKey, regardless of
// which accepted kind produced it.
func convertKey(v value.Value) (string, error) {
	var key string

	switch v.Kind() {
	case value.KindString:
		key = v.String()
	case value.KindInt:
		key = strconv.FormatInt(v.Int(), 10)
	case value.KindUint:
		key = strconv.FormatUint(v.Uint(), 10)
	case value.KindSymbol:
		key = v.SymbolKey()
	default:
		return "", fmt.Errorf("%w: key value of kind %v", errs.ErrInvalidKey, v.Kind())
	}

	if key == "__proto__" {
		return "", errs.ErrForbiddenKey
	}
	return key, nil
}

// isForbiddenMapKey reports whether v is "__proto__" under a Map key, whose
// kinds are otherwise unrestricted (§4.4): unlike Object keys, a Map key
// isn't run through convertKey's string/integer/symbol restriction, but the
// forbidden-key rule itself still applies (§4.4, §8) to whichever of those
// two kinds can actually carry that literal string.
func isForbiddenMapKey(v value.Value) bool {
	switch v.Kind() {
	case value.KindString:
		return v.String() == "__proto__"
	case value.KindSymbol:
		return v.SymbolKey() == "__proto__"
	default:
		return false
	}
}
