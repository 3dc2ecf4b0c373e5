package builtins

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installJSON(ip *interp.Interpreter) {
	j := value.NewObject(ip.Protos["Object"])

	j.DefineHidden(value.StringKey("stringify"), ip.NewNativeFunction("stringify", 3, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		raw, sig, err := jsonStringify(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if raw == "" {
			return value.Undefined, interp.Signal{}, nil
		}
		indent := jsonIndent(ip, arg(args, 2))
		if indent != "" {
			raw = string(pretty.PrettyOptions([]byte(raw), &pretty.Options{Indent: indent, SortKeys: false}))
		}
		return value.NewString(raw), interp.Signal{}, nil
	}))

	j.DefineHidden(value.StringKey("parse"), ip.NewNativeFunction("parse", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if !gjson.Valid(s) {
			return nil, ip.ThrowTypeError("Unexpected token in JSON"), nil
		}
		return jsonToValue(ip, gjson.Parse(s)), interp.Signal{}, nil
	}))

	defineGlobal(ip, "JSON", j)
}

func jsonIndent(ip *interp.Interpreter, v value.Value) string {
	switch t := v.(type) {
	case value.Number:
		n := int(t)
		if n <= 0 {
			return ""
		}
		if n > 10 {
			n = 10
		}
		out := make([]byte, n)
		for i := range out {
			out[i] = ' '
		}
		return string(out)
	case value.StringValue:
		return t.String()
	}
	return ""
}

func jsonStringify(ip *interp.Interpreter, v value.Value) (string, interp.Signal, error) {
	switch t := v.(type) {
	case value.UndefinedValue:
		return "", interp.Signal{}, nil
	case *value.Object:
		if t.Callable != nil {
			return "", interp.Signal{}, nil
		}
		if tj, sig, err := callToJSON(ip, t); err != nil || sig.IsAbrupt() || tj != "" {
			return tj, sig, err
		}
		if t.Class == "Array" {
			return jsonStringifyArray(ip, t)
		}
		return jsonStringifyObject(ip, t)
	default:
		return jsonStringifyPrimitive(ip, v)
	}
}

func callToJSON(ip *interp.Interpreter, obj *value.Object) (string, interp.Signal, error) {
	fn, sig, err := ip.GetProperty(obj, value.StringKey("toJSON"))
	if err != nil || sig.IsAbrupt() {
		return "", sig, err
	}
	fo, ok := fn.(*value.Object)
	if !ok || fo.Callable == nil {
		return "", interp.Signal{}, nil
	}
	result, sig, err := ip.Call(fo, obj, nil)
	if err != nil || sig.IsAbrupt() {
		return "", sig, err
	}
	return jsonStringify(ip, result)
}

func jsonStringifyPrimitive(ip *interp.Interpreter, v value.Value) (string, interp.Signal, error) {
	switch t := v.(type) {
	case value.NullValue:
		return "null", interp.Signal{}, nil
	case value.Boolean:
		if t {
			return "true", interp.Signal{}, nil
		}
		return "false", interp.Signal{}, nil
	case value.Number:
		f := float64(t)
		if f != f || f > 1.7e308 || f < -1.7e308 {
			return "null", interp.Signal{}, nil
		}
		return strconv.FormatFloat(f, 'g', -1, 64), interp.Signal{}, nil
	case value.StringValue:
		raw, _ := sjson.Set("{}", "v", t.String())
		return gjson.Get(raw, "v").Raw, interp.Signal{}, nil
	case *value.BigInt:
		return "", ip.ThrowTypeError("Do not know how to serialize a BigInt"), nil
	default:
		return "", interp.Signal{}, nil
	}
}

func jsonStringifyArray(ip *interp.Interpreter, obj *value.Object) (string, interp.Signal, error) {
	elems := interp.ArrayElements(obj)
	raw := "[]"
	for i, e := range elems {
		s, sig, err := jsonStringify(ip, e)
		if err != nil || sig.IsAbrupt() {
			return "", sig, err
		}
		if s == "" {
			s = "null"
		}
		raw, _ = sjson.SetRaw(raw, strconv.Itoa(i), s)
	}
	return raw, interp.Signal{}, nil
}

func jsonStringifyObject(ip *interp.Interpreter, obj *value.Object) (string, interp.Signal, error) {
	raw := "{}"
	for _, k := range obj.OwnKeys() {
		if k.IsSymbol() {
			continue
		}
		d, _ := obj.GetOwn(k)
		if !d.Enumerable {
			continue
		}
		v, sig, err := ip.GetProperty(obj, k)
		if err != nil || sig.IsAbrupt() {
			return "", sig, err
		}
		s, sig, err := jsonStringify(ip, v)
		if err != nil || sig.IsAbrupt() {
			return "", sig, err
		}
		if s == "" {
			continue
		}
		raw, err = sjson.SetRawOptions(raw, k.Str, s, &sjson.Options{Optimistic: true, ReplaceInPlace: true})
		if err != nil {
			return "", ip.ThrowTypeError("JSON.stringify: %v", err), nil
		}
	}
	return raw, interp.Signal{}, nil
}

func jsonToValue(ip *interp.Interpreter, r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.Null
	case gjson.False:
		return value.NewBoolean(false)
	case gjson.True:
		return value.NewBoolean(true)
	case gjson.Number:
		return value.NewNumber(r.Num)
	case gjson.String:
		return value.NewString(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var out []value.Value
			r.ForEach(func(_, val gjson.Result) bool {
				out = append(out, jsonToValue(ip, val))
				return true
			})
			return ip.MakeArray(out)
		}
		obj := value.NewObject(ip.Protos["Object"])
		r.ForEach(func(key, val gjson.Result) bool {
			obj.DefineData(value.StringKey(key.String()), jsonToValue(ip, val))
			return true
		})
		return obj
	default:
		return value.Undefined
	}
}
