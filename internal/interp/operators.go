package interp

import (
	"math"
	"math/big"

	"github.com/ssrlive/ecmacore/internal/errors"
	"github.com/ssrlive/ecmacore/internal/value"
)

// toPrimitive implements ToPrimitive (spec 3.3): objects are first
// asked for Symbol.toPrimitive, then fall back to valueOf/toString (or
// toString/valueOf for a "string" hint), everything else passes
// through unchanged.
func (ip *Interpreter) toPrimitive(v value.Value, hint string) (value.Value, Signal, error) {
	obj, ok := v.(*value.Object)
	if !ok {
		return v, none, nil
	}
	if sym, sig, err := ip.getProperty(obj, value.SymbolKey(value.SymToPrimitive)); err == nil && !sig.IsAbrupt() {
		if fn, ok := sym.(*value.Object); ok {
			if _, isFn := AsClosure(fn); isFn {
				h := hint
				if h == "" {
					h = "default"
				}
				r, sig, err := ip.Call(fn, obj, []value.Value{value.NewString(h)})
				if err != nil || sig.IsAbrupt() {
					return nil, sig, err
				}
				return r, none, nil
			}
		}
	}
	methods := []string{"valueOf", "toString"}
	if hint == "string" {
		methods = []string{"toString", "valueOf"}
	}
	for _, name := range methods {
		m, sig, err := ip.getProperty(obj, value.StringKey(name))
		if err != nil || sig.IsAbrupt() {
			continue
		}
		fnObj, ok := m.(*value.Object)
		if !ok {
			continue
		}
		if _, isFn := AsClosure(fnObj); !isFn {
			continue
		}
		r, sig, err := ip.Call(fnObj, obj, nil)
		if err != nil {
			return nil, none, err
		}
		if sig.IsAbrupt() {
			return nil, sig, nil
		}
		if _, isObj := r.(*value.Object); !isObj {
			return r, none, nil
		}
	}
	return nil, ip.throwErrorSig(errors.KindType, "Cannot convert object to primitive value"), nil
}

func (ip *Interpreter) toNumberValue(v value.Value) (float64, Signal, error) {
	if n, ok := value.ToNumberPrimitive(v); ok {
		return n, none, nil
	}
	if _, isBig := v.(*value.BigInt); isBig {
		return 0, ip.throwErrorSig(errors.KindType, "Cannot convert a BigInt value to a number"), nil
	}
	prim, sig, err := ip.toPrimitive(v, "number")
	if err != nil || sig.IsAbrupt() {
		return 0, sig, err
	}
	n, _ := value.ToNumberPrimitive(prim)
	return n, none, nil
}

func (ip *Interpreter) toStringValue(v value.Value) (string, Signal, error) {
	switch t := v.(type) {
	case value.StringValue:
		return t.String(), none, nil
	case *value.Symbol:
		return "", ip.throwErrorSig(errors.KindType, "Cannot convert a Symbol value to a string"), nil
	case *value.BigInt:
		return t.String(), none, nil
	case *value.Object:
		prim, sig, err := ip.toPrimitive(v, "string")
		if err != nil || sig.IsAbrupt() {
			return "", sig, err
		}
		return ip.toStringValue(prim)
	default:
		return v.String(), none, nil
	}
}

// evalBinary implements the binary operators (spec 4.4.2): arithmetic
// with BigInt/Number segregation, string concatenation, bitwise/shift
// via ToInt32/ToUint32, relational with BigInt-Number interop, equality
// (loose and strict), `in`, and `instanceof`.
func (ip *Interpreter) evalBinary(op string, l, r value.Value) (value.Value, Signal, error) {
	switch op {
	case "+":
		return ip.evalAdd(l, r)
	case "-", "*", "/", "%", "**":
		return ip.evalArith(op, l, r)
	case "&", "|", "^", "<<", ">>", ">>>":
		return ip.evalBitwise(op, l, r)
	case "<", ">", "<=", ">=":
		return ip.evalRelational(op, l, r)
	case "==":
		eq, sig, err := ip.looseEquals(l, r)
		return value.NewBoolean(eq), sig, err
	case "!=":
		eq, sig, err := ip.looseEquals(l, r)
		return value.NewBoolean(!eq), sig, err
	case "===":
		return value.NewBoolean(value.StrictEquals(l, r)), none, nil
	case "!==":
		return value.NewBoolean(!value.StrictEquals(l, r)), none, nil
	case "instanceof":
		return ip.evalInstanceof(l, r)
	case "in":
		return ip.evalIn(l, r)
	}
	return nil, ip.throwErrorSig(errors.KindSyntax, "Unknown operator %q", op), nil
}

func (ip *Interpreter) evalAdd(l, r value.Value) (value.Value, Signal, error) {
	lp, sig, err := ip.toPrimitive(l, "")
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	rp, sig, err := ip.toPrimitive(r, "")
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	_, lIsStr := lp.(value.StringValue)
	_, rIsStr := rp.(value.StringValue)
	if lIsStr || rIsStr {
		ls, sig, err := ip.toStringValue(lp)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		rs, sig, err := ip.toStringValue(rp)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewString(ls + rs), none, nil
	}
	lb, lIsBig := lp.(*value.BigInt)
	rb, rIsBig := rp.(*value.BigInt)
	if lIsBig || rIsBig {
		if !lIsBig || !rIsBig {
			return nil, ip.throwErrorSig(errors.KindType, errors.MsgMixedBigIntType), nil
		}
		return value.NewBigInt(new(big.Int).Add(lb.V, rb.V)), none, nil
	}
	ln, _ := value.ToNumberPrimitive(lp)
	rn, _ := value.ToNumberPrimitive(rp)
	return value.NewNumber(ln + rn), none, nil
}

func (ip *Interpreter) evalArith(op string, l, r value.Value) (value.Value, Signal, error) {
	lb, lIsBig := l.(*value.BigInt)
	rb, rIsBig := r.(*value.BigInt)
	if lIsBig || rIsBig {
		if !lIsBig || !rIsBig {
			return nil, ip.throwErrorSig(errors.KindType, errors.MsgMixedBigIntType), nil
		}
		return ip.bigArith(op, lb, rb)
	}
	ln, sig, err := ip.toNumberValue(l)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	rn, sig, err := ip.toNumberValue(r)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	switch op {
	case "-":
		return value.NewNumber(ln - rn), none, nil
	case "*":
		return value.NewNumber(ln * rn), none, nil
	case "/":
		return value.NewNumber(ln / rn), none, nil
	case "%":
		return value.NewNumber(math.Mod(ln, rn)), none, nil
	case "**":
		return value.NewNumber(math.Pow(ln, rn)), none, nil
	}
	panic("unreachable arith op " + op)
}

func (ip *Interpreter) bigArith(op string, l, r *value.BigInt) (value.Value, Signal, error) {
	switch op {
	case "-":
		return value.NewBigInt(new(big.Int).Sub(l.V, r.V)), none, nil
	case "*":
		return value.NewBigInt(new(big.Int).Mul(l.V, r.V)), none, nil
	case "/":
		if r.V.Sign() == 0 {
			return nil, ip.throwErrorSig(errors.KindRange, errors.MsgDivisionByZero), nil
		}
		return value.NewBigInt(new(big.Int).Quo(l.V, r.V)), none, nil
	case "%":
		if r.V.Sign() == 0 {
			return nil, ip.throwErrorSig(errors.KindRange, errors.MsgDivisionByZero), nil
		}
		return value.NewBigInt(new(big.Int).Rem(l.V, r.V)), none, nil
	case "**":
		if r.V.Sign() < 0 {
			return nil, ip.throwErrorSig(errors.KindRange, errors.MsgNegativeExponent), nil
		}
		return value.NewBigInt(new(big.Int).Exp(l.V, r.V, nil)), none, nil
	}
	panic("unreachable big arith op " + op)
}

func (ip *Interpreter) evalBitwise(op string, l, r value.Value) (value.Value, Signal, error) {
	lb, lIsBig := l.(*value.BigInt)
	rb, rIsBig := r.(*value.BigInt)
	if lIsBig || rIsBig {
		if !lIsBig || !rIsBig {
			return nil, ip.throwErrorSig(errors.KindType, errors.MsgMixedBigIntType), nil
		}
		var out big.Int
		switch op {
		case "&":
			out.And(lb.V, rb.V)
		case "|":
			out.Or(lb.V, rb.V)
		case "^":
			out.Xor(lb.V, rb.V)
		case "<<":
			out.Lsh(lb.V, uint(rb.V.Int64()))
		case ">>":
			out.Rsh(lb.V, uint(rb.V.Int64()))
		case ">>>":
			return nil, ip.throwErrorSig(errors.KindType, "BigInts have no unsigned right shift, use >> instead"), nil
		}
		return value.NewBigInt(&out), none, nil
	}
	ln, sig, err := ip.toNumberValue(l)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	rn, sig, err := ip.toNumberValue(r)
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	li, ri := value.ToInt32(ln), value.ToInt32(rn)
	switch op {
	case "&":
		return value.NewNumber(float64(li & ri)), none, nil
	case "|":
		return value.NewNumber(float64(li | ri)), none, nil
	case "^":
		return value.NewNumber(float64(li ^ ri)), none, nil
	case "<<":
		return value.NewNumber(float64(li << (uint32(ri) & 31))), none, nil
	case ">>":
		return value.NewNumber(float64(li >> (uint32(ri) & 31))), none, nil
	case ">>>":
		lu := value.ToUint32(ln)
		return value.NewNumber(float64(lu >> (uint32(ri) & 31))), none, nil
	}
	panic("unreachable bitwise op " + op)
}

func (ip *Interpreter) evalRelational(op string, l, r value.Value) (value.Value, Signal, error) {
	lp, sig, err := ip.toPrimitive(l, "number")
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	rp, sig, err := ip.toPrimitive(r, "number")
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	ls, lIsStr := lp.(value.StringValue)
	rs, rIsStr := rp.(value.StringValue)
	if lIsStr && rIsStr {
		c := compareUtf16(ls.Units, rs.Units)
		return value.NewBoolean(applyCompare(op, c)), none, nil
	}
	lb, lIsBig := lp.(*value.BigInt)
	rb, rIsBig := rp.(*value.BigInt)
	if lIsBig && rIsBig {
		return value.NewBoolean(applyCompare(op, lb.V.Cmp(rb.V))), none, nil
	}
	if lIsBig != rIsBig {
		bi := lb
		other := rp
		biIsLeft := true
		if rIsBig {
			bi = rb
			other = lp
			biIsLeft = false
		}
		c, ok := compareBigIntToPrimitive(bi.V, other)
		if !ok {
			return value.NewBoolean(false), none, nil
		}
		if !biIsLeft {
			c = -c
		}
		return value.NewBoolean(applyCompare(op, c)), none, nil
	}
	ln, _ := value.ToNumberPrimitive(lp)
	rn, _ := value.ToNumberPrimitive(rp)
	if math.IsNaN(ln) || math.IsNaN(rn) {
		return value.NewBoolean(false), none, nil
	}
	return value.NewBoolean(applyCompare(op, cmpFloat(ln, rn))), none, nil
}

// compareBigIntFloat compares bi against f exactly -- as the precise
// mathematical value f denotes, never by rounding bi through float64
// (spec 3.3: BigInt/Number comparisons must not lose precision for
// magnitudes at or above 2^53). big.Float.SetInt/SetFloat64 both pick
// a precision that represents their argument exactly, so the Cmp below
// is exact.
func compareBigIntFloat(bi *big.Int, f float64) int {
	if math.IsInf(f, 1) {
		return -1
	}
	if math.IsInf(f, -1) {
		return 1
	}
	return new(big.Float).SetInt(bi).Cmp(new(big.Float).SetFloat64(f))
}

// compareBigIntToPrimitive compares bi against a non-BigInt primitive
// for a relational operator (spec 3.3): a String is parsed as a BigInt
// (the comparison is undefined -- reported as ok=false -- if it doesn't
// parse); Number and Boolean compare against bi's exact value via
// compareBigIntFloat, never rounding bi through float64.
func compareBigIntToPrimitive(bi *big.Int, other value.Value) (int, bool) {
	switch o := other.(type) {
	case value.StringValue:
		parsed, ok := value.BigIntFromString(o.String())
		if !ok {
			return 0, false
		}
		return bi.Cmp(parsed.V), true
	case value.Boolean:
		n := int64(0)
		if o {
			n = 1
		}
		return bi.Cmp(big.NewInt(n)), true
	case value.Number:
		f := float64(o)
		if math.IsNaN(f) {
			return 0, false
		}
		return compareBigIntFloat(bi, f), true
	}
	return 0, false
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func applyCompare(op string, c int) bool {
	switch op {
	case "<":
		return c < 0
	case ">":
		return c > 0
	case "<=":
		return c <= 0
	case ">=":
		return c >= 0
	}
	return false
}

func compareUtf16(a, b []uint16) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return cmpFloat(float64(len(a)), float64(len(b)))
}

// looseEquals implements the `==` abstract equality comparison (spec
// 3.3): same-type compares strictly; null/undefined are mutually
// equal and nothing else; Number/String/BigInt/Boolean coerce toward
// Number; objects coerce via ToPrimitive.
func (ip *Interpreter) looseEquals(l, r value.Value) (bool, Signal, error) {
	if value.TypeTagEqualish(l, r) {
		return value.StrictEquals(l, r), none, nil
	}
	if value.IsNullish(l) && value.IsNullish(r) {
		return true, none, nil
	}
	if value.IsNullish(l) || value.IsNullish(r) {
		return false, none, nil
	}
	lb, lIsBig := l.(*value.BigInt)
	rb, rIsBig := r.(*value.BigInt)
	if lIsBig && rIsBig {
		return lb.V.Cmp(rb.V) == 0, none, nil
	}
	if _, ok := l.(*value.Object); ok {
		lp, sig, err := ip.toPrimitive(l, "")
		if err != nil || sig.IsAbrupt() {
			return false, sig, err
		}
		return ip.looseEquals(lp, r)
	}
	if _, ok := r.(*value.Object); ok {
		rp, sig, err := ip.toPrimitive(r, "")
		if err != nil || sig.IsAbrupt() {
			return false, sig, err
		}
		return ip.looseEquals(l, rp)
	}
	if lIsBig != rIsBig {
		var other value.Value = r
		bi := lb
		if !lIsBig {
			other = l
			bi = rb
		}
		switch o := other.(type) {
		case value.StringValue:
			parsed, ok := value.BigIntFromString(o.String())
			return ok && parsed.V.Cmp(bi.V) == 0, none, nil
		case value.Number:
			f := float64(o)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return false, none, nil
			}
			return compareBigIntFloat(bi.V, f) == 0, none, nil
		case value.Boolean:
			n := 0
			if o {
				n = 1
			}
			return bi.V.Int64() == int64(n) && bi.V.IsInt64(), none, nil
		}
		return false, none, nil
	}
	ln, sig, err := ip.toNumberValue(l)
	if err != nil || sig.IsAbrupt() {
		return false, sig, err
	}
	rn, sig, err := ip.toNumberValue(r)
	if err != nil || sig.IsAbrupt() {
		return false, sig, err
	}
	return ln == rn, none, nil
}

func (ip *Interpreter) evalInstanceof(l, r value.Value) (value.Value, Signal, error) {
	ctor, ok := r.(*value.Object)
	if !ok {
		return nil, ip.throwErrorSig(errors.KindType, "Right-hand side of 'instanceof' is not callable"), nil
	}
	if _, isFn := AsClosure(ctor); !isFn {
		return nil, ip.throwErrorSig(errors.KindType, "Right-hand side of 'instanceof' is not callable"), nil
	}
	protoV, sig, err := ip.getProperty(ctor, value.StringKey("prototype"))
	if err != nil || sig.IsAbrupt() {
		return nil, sig, err
	}
	proto, ok := protoV.(*value.Object)
	if !ok {
		return value.NewBoolean(false), none, nil
	}
	obj, ok := l.(*value.Object)
	if !ok {
		return value.NewBoolean(false), none, nil
	}
	for cur := obj.Proto; cur != nil; cur = cur.Proto {
		if cur == proto {
			return value.NewBoolean(true), none, nil
		}
	}
	return value.NewBoolean(false), none, nil
}

func (ip *Interpreter) evalIn(l, r value.Value) (value.Value, Signal, error) {
	obj, ok := r.(*value.Object)
	if !ok {
		return nil, ip.throwErrorSig(errors.KindType, "Cannot use 'in' operator to search for '%s' in %s", l.String(), r.String()), nil
	}
	key := ip.toPropertyKey(l)
	if target, handler, ok := ip.proxyParts(obj); ok {
		if sig, thrown := ip.checkProxyRevoked(obj, "has"); thrown {
			return nil, sig, nil
		}
		if trap, ok := ip.proxyTrap(handler, "has"); ok {
			res, sig, err := ip.Call(trap, handler, []value.Value{target, ip.proxyKeyValue(key)})
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			return value.NewBoolean(value.ToBoolean(res)), none, nil
		}
		return value.NewBoolean(target.HasProperty(key)), none, nil
	}
	return value.NewBoolean(obj.HasProperty(key)), none, nil
}

// evalUnary implements the unary operators (spec 4.4.2).
func (ip *Interpreter) evalUnary(op string, v value.Value, isRefUnresolved bool) (value.Value, Signal, error) {
	switch op {
	case "typeof":
		if isRefUnresolved {
			return value.NewString("undefined"), none, nil
		}
		return value.NewString(value.TypeOf(v)), none, nil
	case "void":
		return value.Undefined, none, nil
	case "!":
		return value.NewBoolean(!value.ToBoolean(v)), none, nil
	case "-":
		if b, ok := v.(*value.BigInt); ok {
			return value.NewBigInt(new(big.Int).Neg(b.V)), none, nil
		}
		n, sig, err := ip.toNumberValue(v)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewNumber(-n), none, nil
	case "+":
		n, sig, err := ip.toNumberValue(v)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewNumber(n), none, nil
	case "~":
		if b, ok := v.(*value.BigInt); ok {
			return value.NewBigInt(new(big.Int).Not(b.V)), none, nil
		}
		n, sig, err := ip.toNumberValue(v)
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewNumber(float64(^value.ToInt32(n))), none, nil
	}
	return nil, ip.throwErrorSig(errors.KindSyntax, "Unknown unary operator %q", op), nil
}
