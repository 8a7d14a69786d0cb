package envelope

import (
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"

	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// ValType identifies the scalar kind carried by a Val.
type ValType int

// Supported value kinds.
const (
	TypeVoid ValType = iota
	TypeBool
	TypeU32
	TypeI128
	TypeSymbol
	TypeString
	TypeAddress
	TypeVec
)

// addressRegex matches strkey-style account (G...) and contract (C...)
// addresses: a type prefix followed by 55 base32 characters.
var addressRegex = regexp.MustCompile(`^[GC][A-Z2-7]{55}$`)

// Val is a typed contract call argument. Exactly one payload field is
// meaningful, selected by Type.
type Val struct {
	Type ValType  `json:"type"`
	Bool bool     `json:"bool,omitempty"`
	U32  uint32   `json:"u32,omitempty"`
	I128 *big.Int `json:"i128,omitempty"`
	Str  string   `json:"str,omitempty"`
	Vec  []Val    `json:"vec,omitempty"`
}

// Void returns the void value.
func Void() Val { return Val{Type: TypeVoid} }

// Bool returns a boolean value.
func Bool(b bool) Val { return Val{Type: TypeBool, Bool: b} }

// U32 returns a 32-bit unsigned value.
func U32(n uint32) Val { return Val{Type: TypeU32, U32: n} }

// I128 returns a 128-bit integer value.
func I128(n *big.Int) Val { return Val{Type: TypeI128, I128: new(big.Int).Set(n)} }

// I128FromInt64 returns a 128-bit integer value from an int64.
func I128FromInt64(n int64) Val { return Val{Type: TypeI128, I128: big.NewInt(n)} }

// Symbol returns a symbol value.
func Symbol(s string) Val { return Val{Type: TypeSymbol, Str: s} }

// Str returns a string value.
func Str(s string) Val { return Val{Type: TypeString, Str: s} }

// Address returns an address value, or an error if the format is invalid.
func Address(addr string) (Val, error) {
	if !IsAddress(addr) {
		return Val{}, ekerr.WithDetails(ekerr.ErrInvalidAddress, map[string]string{"address": addr})
	}
	return Val{Type: TypeAddress, Str: addr}, nil
}

// Vec returns a vector value.
func Vec(vals ...Val) Val { return Val{Type: TypeVec, Vec: vals} }

// IsAddress reports whether s looks like an account or contract address.
func IsAddress(s string) bool {
	return addressRegex.MatchString(s)
}

// EncodeArg converts a loosely typed argument into a Val using the
// standard encoding policy: strings are tried as addresses first and fall
// back to string scalars, integers become 128-bit integers, booleans
// become boolean scalars, and slices encode element-wise into vectors.
func EncodeArg(arg any) (Val, error) {
	switch v := arg.(type) {
	case nil:
		return Void(), nil
	case Val:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		if IsAddress(v) {
			return Address(v)
		}
		return Str(v), nil
	case int:
		return I128FromInt64(int64(v)), nil
	case int32:
		return I128FromInt64(int64(v)), nil
	case int64:
		return I128FromInt64(v), nil
	case uint32:
		return I128FromInt64(int64(v)), nil
	case uint64:
		return I128(new(big.Int).SetUint64(v)), nil
	case *big.Int:
		if v == nil {
			return Val{}, ekerr.WithDetails(ekerr.ErrInvalidAmount, map[string]string{"reason": "nil amount"})
		}
		return I128(v), nil
	case []any:
		vec := make([]Val, 0, len(v))
		for i, item := range v {
			encoded, err := EncodeArg(item)
			if err != nil {
				return Val{}, ekerr.Wrap(err, "vector element %d", i)
			}
			vec = append(vec, encoded)
		}
		return Vec(vec...), nil
	default:
		return Val{}, ekerr.WithDetails(ekerr.ErrValidationFailed, map[string]string{
			"reason": fmt.Sprintf("unsupported argument type %T", arg),
		})
	}
}

// EncodeArgs converts a slice of loosely typed arguments.
func EncodeArgs(args []any) ([]Val, error) {
	vals := make([]Val, 0, len(args))
	for i, arg := range args {
		v, err := EncodeArg(arg)
		if err != nil {
			return nil, ekerr.Wrap(err, "argument %d", i)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// MarshalJSON emits a compact, deterministic representation. big.Int
// serializes as a decimal string so the signing payload is stable.
func (v Val) MarshalJSON() ([]byte, error) {
	type alias struct {
		Type ValType `json:"type"`
		Bool *bool   `json:"bool,omitempty"`
		U32  *uint32 `json:"u32,omitempty"`
		I128 string  `json:"i128,omitempty"`
		Str  string  `json:"str,omitempty"`
		Vec  []Val   `json:"vec,omitempty"`
	}

	a := alias{Type: v.Type, Str: v.Str, Vec: v.Vec}
	switch v.Type {
	case TypeBool:
		a.Bool = &v.Bool
	case TypeU32:
		a.U32 = &v.U32
	case TypeI128:
		if v.I128 != nil {
			a.I128 = v.I128.String()
		}
	case TypeVoid, TypeSymbol, TypeString, TypeAddress, TypeVec:
	}
	return json.Marshal(a)
}
