package value

import "math/big"

// BigInt wraps an arbitrary-precision integer (spec 3.1, "BigInt").
// BigInt and Number never implicitly mix: every arithmetic operator
// that touches a BigInt requires the other operand to be a BigInt too,
// enforced by the evaluator rather than this type.
type BigInt struct {
	V *big.Int
}

func (*BigInt) TypeTag() string { return "bigint" }
func (b *BigInt) String() string { return b.V.String() }

// NewBigInt wraps an existing *big.Int. The caller must not mutate V
// afterward; BigInt values are treated as immutable once constructed.
func NewBigInt(v *big.Int) *BigInt { return &BigInt{V: v} }

// BigIntFromInt64 constructs a BigInt from a Go int64.
func BigIntFromInt64(n int64) *BigInt { return &BigInt{V: big.NewInt(n)} }

// BigIntFromString parses a decimal (optionally 0x/0o/0b-prefixed)
// string into a BigInt, mirroring the BigInt() constructor's string
// coercion (spec 4.10, "BigInt").
func BigIntFromString(s string) (*BigInt, bool) {
	v := new(big.Int)
	base := 10
	digits := s
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base, digits = 16, s[2:]
		case 'o', 'O':
			base, digits = 8, s[2:]
		case 'b', 'B':
			base, digits = 2, s[2:]
		}
	}
	if _, ok := v.SetString(digits, base); !ok {
		return nil, false
	}
	return &BigInt{V: v}, true
}

var (
	bigOne  = big.NewInt(1)
	bigZero = big.NewInt(0)
)

// AsIntN implements BigInt.asIntN(bits, bigint): truncates to `bits`
// bits and reinterprets as a signed two's-complement value.
func AsIntN(bits int, b *BigInt) *BigInt {
	mod := new(big.Int).Lsh(bigOne, uint(bits))
	r := new(big.Int).Mod(b.V, mod)
	if r.Sign() < 0 {
		r.Add(r, mod)
	}
	half := new(big.Int).Lsh(bigOne, uint(bits-1))
	if r.Cmp(half) >= 0 {
		r.Sub(r, mod)
	}
	return &BigInt{V: r}
}

// AsUintN implements BigInt.asUintN(bits, bigint): truncates to `bits`
// bits and reinterprets as an unsigned value.
func AsUintN(bits int, b *BigInt) *BigInt {
	mod := new(big.Int).Lsh(bigOne, uint(bits))
	r := new(big.Int).Mod(b.V, mod)
	if r.Sign() < 0 {
		r.Add(r, mod)
	}
	return &BigInt{V: r}
}
