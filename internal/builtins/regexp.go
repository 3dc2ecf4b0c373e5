package builtins

import (
	"github.com/dlclark/regexp2"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installRegExp(ip *interp.Interpreter) {
	proto := ip.Protos["RegExp"]

	ctor := newConstructor(ip, "RegExp", 2, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		if obj, ok := arg(args, 0).(*value.Object); ok && obj.Class == "RegExp" {
			return obj, interp.Signal{}, nil
		}
		pattern, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		flags := ""
		if len(args) > 1 && !value.IsNullish(args[1]) {
			flags, sig, err = toStr(ip, args[1])
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
		}
		return ip.MakeRegExp(pattern, flags), interp.Signal{}, nil
	})
	defineGlobal(ip, "RegExp", ctor)

	method(ip, proto, "exec", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		re, reOk := regexpOf(obj)
		if !ok || !reOk {
			return nil, ip.ThrowTypeError("RegExp.prototype.exec called on incompatible receiver"), nil
		}
		input, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		global := isGlobalOrSticky(obj)
		start := 0
		if global {
			start = lastIndexOf(ip, obj)
			if start > len(input) {
				setLastIndex(obj, 0)
				return value.Null, interp.Signal{}, nil
			}
		}
		m, mErr := re.FindStringMatchStartingAt(input, start)
		if mErr != nil || m == nil {
			if global {
				setLastIndex(obj, 0)
			}
			return value.Null, interp.Signal{}, nil
		}
		if global {
			setLastIndex(obj, m.Index+m.Length)
		}
		return matchToArray(ip, m, input), interp.Signal{}, nil
	})

	method(ip, proto, "test", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		re, reOk := regexpOf(obj)
		if !ok || !reOk {
			return nil, ip.ThrowTypeError("RegExp.prototype.test called on incompatible receiver"), nil
		}
		input, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		start := 0
		global := isGlobalOrSticky(obj)
		if global {
			start = lastIndexOf(ip, obj)
		}
		if start > len(input) {
			if global {
				setLastIndex(obj, 0)
			}
			return value.NewBoolean(false), interp.Signal{}, nil
		}
		m, mErr := re.FindStringMatchStartingAt(input, start)
		found := mErr == nil && m != nil
		if global {
			if found {
				setLastIndex(obj, m.Index+m.Length)
			} else {
				setLastIndex(obj, 0)
			}
		}
		return value.NewBoolean(found), interp.Signal{}, nil
	})

	method(ip, proto, "toString", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return value.NewString("/(?:)/"), interp.Signal{}, nil
		}
		src, _ := obj.GetOwn(value.StringKey("source"))
		flags, _ := obj.GetOwn(value.StringKey("flags"))
		s, _ := src.Value.(value.StringValue)
		f, _ := flags.Value.(value.StringValue)
		return value.NewString("/" + s.String() + "/" + f.String()), interp.Signal{}, nil
	})
}

func regexpOf(obj *value.Object) (*regexp2.Regexp, bool) {
	if obj == nil || obj.Internal == nil {
		return nil, false
	}
	re, ok := obj.Internal["regexp"].(*regexp2.Regexp)
	return re, ok
}

func isGlobalOrSticky(obj *value.Object) bool {
	if d, ok := obj.GetOwn(value.StringKey("global")); ok {
		if b, ok := d.Value.(value.Boolean); ok && bool(b) {
			return true
		}
	}
	if d, ok := obj.GetOwn(value.StringKey("sticky")); ok {
		if b, ok := d.Value.(value.Boolean); ok && bool(b) {
			return true
		}
	}
	return false
}

func lastIndexOf(ip *interp.Interpreter, obj *value.Object) int {
	if d, ok := obj.GetOwn(value.StringKey("lastIndex")); ok {
		if n, ok := d.Value.(value.Number); ok {
			return int(n)
		}
	}
	return 0
}

func setLastIndex(obj *value.Object, i int) {
	obj.DefineData(value.StringKey("lastIndex"), value.NewNumber(float64(i)))
}

func matchToArray(ip *interp.Interpreter, m *regexp2.Match, input string) *value.Object {
	groups := m.Groups()
	elems := make([]value.Value, len(groups))
	for i, g := range groups {
		if len(g.Captures) == 0 {
			elems[i] = value.Undefined
			continue
		}
		elems[i] = value.NewString(g.String())
	}
	arr := ip.MakeArray(elems)
	arr.DefineData(value.StringKey("index"), value.NewNumber(float64(m.Index)))
	arr.DefineData(value.StringKey("input"), value.NewString(input))
	namedGroups := value.NewObject(nil)
	hasNamed := false
	for _, g := range groups {
		if g.Name != "" && !isNumeric(g.Name) {
			hasNamed = true
			if len(g.Captures) > 0 {
				namedGroups.DefineData(value.StringKey(g.Name), value.NewString(g.String()))
			} else {
				namedGroups.DefineData(value.StringKey(g.Name), value.Undefined)
			}
		}
	}
	if hasNamed {
		arr.DefineData(value.StringKey("groups"), namedGroups)
	} else {
		arr.DefineData(value.StringKey("groups"), value.Undefined)
	}
	return arr
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
