package builtins

import (
	"encoding/binary"
	"math"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

type typedArrayKind struct {
	name       string
	bytesPer   int
	read       func([]byte) float64
	write      func([]byte, float64)
}

var typedArrayKinds = []typedArrayKind{
	{"Int8Array", 1, func(b []byte) float64 { return float64(int8(b[0])) }, func(b []byte, v float64) { b[0] = byte(int8(v)) }},
	{"Uint8Array", 1, func(b []byte) float64 { return float64(b[0]) }, func(b []byte, v float64) { b[0] = byte(uint8(v)) }},
	{"Uint8ClampedArray", 1, func(b []byte) float64 { return float64(b[0]) }, func(b []byte, v float64) {
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		b[0] = byte(uint8(v + 0.5))
	}},
	{"Int16Array", 2, func(b []byte) float64 { return float64(int16(binary.LittleEndian.Uint16(b))) }, func(b []byte, v float64) { binary.LittleEndian.PutUint16(b, uint16(int16(v))) }},
	{"Uint16Array", 2, func(b []byte) float64 { return float64(binary.LittleEndian.Uint16(b)) }, func(b []byte, v float64) { binary.LittleEndian.PutUint16(b, uint16(v)) }},
	{"Int32Array", 4, func(b []byte) float64 { return float64(int32(binary.LittleEndian.Uint32(b))) }, func(b []byte, v float64) { binary.LittleEndian.PutUint32(b, uint32(int32(v))) }},
	{"Uint32Array", 4, func(b []byte) float64 { return float64(binary.LittleEndian.Uint32(b)) }, func(b []byte, v float64) { binary.LittleEndian.PutUint32(b, uint32(v)) }},
	{"Float32Array", 4, func(b []byte) float64 { return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))) }, func(b []byte, v float64) { binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v))) }},
	{"Float64Array", 8, func(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }, func(b []byte, v float64) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) }},
}

func installTypedArrays(ip *interp.Interpreter) {
	bufProto := ip.Protos["ArrayBuffer"]
	bufCtor := newConstructor(ip, "ArrayBuffer", 1, bufProto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		n := intArg(ip, args, 0, 0)
		if n < 0 {
			return nil, ip.ThrowRangeError("Invalid array buffer length"), nil
		}
		obj := value.NewObject(bufProto)
		obj.Class = "ArrayBuffer"
		obj.Internal = map[string]any{"bytes": make([]byte, n)}
		return obj, interp.Signal{}, nil
	})
	defineGlobal(ip, "ArrayBuffer", bufCtor)
	getter(ip, bufProto, "byteLength", func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return value.NewNumber(0), interp.Signal{}, nil
		}
		b, _ := obj.Internal["bytes"].([]byte)
		return value.NewNumber(float64(len(b))), interp.Signal{}, nil
	})

	for _, kind := range typedArrayKinds {
		installTypedArrayKind(ip, kind)
	}

	installDataView(ip)
}

func installTypedArrayKind(ip *interp.Interpreter, kind typedArrayKind) {
	proto := ip.Protos[kind.name]
	proto.Class = kind.name

	ctor := newConstructor(ip, kind.name, 1, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		var buf *value.Object
		var offset, length int
		switch v := arg(args, 0).(type) {
		case value.Number:
			length = int(v)
			buf = value.NewObject(ip.Protos["ArrayBuffer"])
			buf.Class = "ArrayBuffer"
			buf.Internal = map[string]any{"bytes": make([]byte, length*kind.bytesPer)}
		case *value.Object:
			if v.Class == "ArrayBuffer" {
				buf = v
				bytes, _ := buf.Internal["bytes"].([]byte)
				offset = intArg(ip, args, 1, 0)
				length = (len(bytes) - offset) / kind.bytesPer
				if len(args) > 2 {
					length = intArg(ip, args, 2, length)
				}
			} else {
				elems, sig, err := ip.IterableToSlice(v)
				if err != nil || sig.IsAbrupt() {
					return nil, sig, err
				}
				length = len(elems)
				buf = value.NewObject(ip.Protos["ArrayBuffer"])
				buf.Class = "ArrayBuffer"
				bytes := make([]byte, length*kind.bytesPer)
				buf.Internal = map[string]any{"bytes": bytes}
				obj := typedArrayObject(ip, proto, kind, buf, 0, length)
				for i, e := range elems {
					n, _, _ := toNum(ip, e)
					setTypedElem(obj, kind, i, n)
				}
				return obj, interp.Signal{}, nil
			}
		default:
			buf = value.NewObject(ip.Protos["ArrayBuffer"])
			buf.Class = "ArrayBuffer"
			buf.Internal = map[string]any{"bytes": []byte{}}
		}
		return typedArrayObject(ip, proto, kind, buf, offset, length), interp.Signal{}, nil
	})
	defineGlobal(ip, kind.name, ctor)

	getter(ip, proto, "length", func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return value.NewNumber(0), interp.Signal{}, nil
		}
		n, _ := obj.Internal["length"].(int)
		return value.NewNumber(float64(n)), interp.Signal{}, nil
	})

	method(ip, proto, "set", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return value.Undefined, interp.Signal{}, nil
		}
		offset := intArg(ip, args, 1, 0)
		elems, sig, err := ip.IterableToSlice(arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		for i, e := range elems {
			n, _, _ := toNum(ip, e)
			setTypedElem(obj, kind, offset+i, n)
		}
		return value.Undefined, interp.Signal{}, nil
	})

	method(ip, proto, "subarray", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return value.Undefined, interp.Signal{}, nil
		}
		n, _ := obj.Internal["length"].(int)
		start, end := sliceRange(ip, args, n)
		buf, _ := obj.Internal["buffer"].(*value.Object)
		off, _ := obj.Internal["offset"].(int)
		return typedArrayObject(ip, proto, kind, buf, off+start*kind.bytesPer, end-start), interp.Signal{}, nil
	})

	method(ip, proto, "toString", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		obj, ok := thisObject(this)
		if !ok {
			return value.NewString(""), interp.Signal{}, nil
		}
		n, _ := obj.Internal["length"].(int)
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = value.Number(getTypedElem(obj, kind, i)).String()
		}
		return value.NewString(joinStrings(parts, ",")), interp.Signal{}, nil
	})
}

func typedArrayObject(ip *interp.Interpreter, proto *value.Object, kind typedArrayKind, buf *value.Object, offset, length int) *value.Object {
	obj := value.NewObject(proto)
	obj.Class = kind.name
	obj.Internal = map[string]any{"buffer": buf, "offset": offset, "length": length}
	for i := 0; i < length; i++ {
		i := i
		obj.DefineOwn(value.StringKey(itoaIndex(i)), &value.PropertyDescriptor{
			Enumerable: true, Configurable: true, Writable: true,
			Value: value.NewNumber(getTypedElem(obj, kind, i)),
		})
	}
	return obj
}

func getTypedElem(obj *value.Object, kind typedArrayKind, i int) float64 {
	buf, _ := obj.Internal["buffer"].(*value.Object)
	offset, _ := obj.Internal["offset"].(int)
	if buf == nil {
		return 0
	}
	bytes, _ := buf.Internal["bytes"].([]byte)
	start := offset + i*kind.bytesPer
	if start < 0 || start+kind.bytesPer > len(bytes) {
		return 0
	}
	return kind.read(bytes[start : start+kind.bytesPer])
}

func setTypedElem(obj *value.Object, kind typedArrayKind, i int, v float64) {
	buf, _ := obj.Internal["buffer"].(*value.Object)
	offset, _ := obj.Internal["offset"].(int)
	if buf == nil {
		return
	}
	bytes, _ := buf.Internal["bytes"].([]byte)
	start := offset + i*kind.bytesPer
	if start < 0 || start+kind.bytesPer > len(bytes) {
		return
	}
	kind.write(bytes[start:start+kind.bytesPer], v)
	obj.DefineOwn(value.StringKey(itoaIndex(i)), &value.PropertyDescriptor{
		Enumerable: true, Configurable: true, Writable: true,
		Value: value.NewNumber(v),
	})
}

func installDataView(ip *interp.Interpreter) {
	proto := ip.Protos["DataView"]
	ctor := newConstructor(ip, "DataView", 1, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		buf, ok := arg(args, 0).(*value.Object)
		if !ok || buf.Class != "ArrayBuffer" {
			return nil, ip.ThrowTypeError("First argument to DataView constructor must be an ArrayBuffer"), nil
		}
		offset := intArg(ip, args, 1, 0)
		obj := value.NewObject(proto)
		obj.Class = "DataView"
		obj.Internal = map[string]any{"buffer": buf, "offset": offset}
		return obj, interp.Signal{}, nil
	})
	defineGlobal(ip, "DataView", ctor)

	get := func(name string, size int, read func([]byte) float64) {
		method(ip, proto, name, 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
			obj, ok := thisObject(this)
			if !ok {
				return value.NewNumber(0), interp.Signal{}, nil
			}
			buf, _ := obj.Internal["buffer"].(*value.Object)
			base, _ := obj.Internal["offset"].(int)
			bytes, _ := buf.Internal["bytes"].([]byte)
			at := base + intArg(ip, args, 0, 0)
			if at < 0 || at+size > len(bytes) {
				return nil, ip.ThrowRangeError("Offset is outside the bounds of the DataView"), nil
			}
			return value.NewNumber(read(bytes[at : at+size])), interp.Signal{}, nil
		})
	}
	set := func(name string, size int, write func([]byte, float64)) {
		method(ip, proto, name, 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
			obj, ok := thisObject(this)
			if !ok {
				return value.Undefined, interp.Signal{}, nil
			}
			buf, _ := obj.Internal["buffer"].(*value.Object)
			base, _ := obj.Internal["offset"].(int)
			bytes, _ := buf.Internal["bytes"].([]byte)
			at := base + intArg(ip, args, 0, 0)
			n, _, _ := toNum(ip, arg(args, 1))
			if at < 0 || at+size > len(bytes) {
				return nil, ip.ThrowRangeError("Offset is outside the bounds of the DataView"), nil
			}
			write(bytes[at:at+size], n)
			return value.Undefined, interp.Signal{}, nil
		})
	}

	get("getInt8", 1, func(b []byte) float64 { return float64(int8(b[0])) })
	get("getUint8", 1, func(b []byte) float64 { return float64(b[0]) })
	get("getInt16", 2, func(b []byte) float64 { return float64(int16(binary.LittleEndian.Uint16(b))) })
	get("getUint16", 2, func(b []byte) float64 { return float64(binary.LittleEndian.Uint16(b)) })
	get("getInt32", 4, func(b []byte) float64 { return float64(int32(binary.LittleEndian.Uint32(b))) })
	get("getUint32", 4, func(b []byte) float64 { return float64(binary.LittleEndian.Uint32(b)) })
	get("getFloat32", 4, func(b []byte) float64 { return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))) })
	get("getFloat64", 8, func(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) })

	set("setInt8", 1, func(b []byte, v float64) { b[0] = byte(int8(v)) })
	set("setUint8", 1, func(b []byte, v float64) { b[0] = byte(uint8(v)) })
	set("setInt16", 2, func(b []byte, v float64) { binary.LittleEndian.PutUint16(b, uint16(int16(v))) })
	set("setUint16", 2, func(b []byte, v float64) { binary.LittleEndian.PutUint16(b, uint16(v)) })
	set("setInt32", 4, func(b []byte, v float64) { binary.LittleEndian.PutUint32(b, uint32(int32(v))) })
	set("setUint32", 4, func(b []byte, v float64) { binary.LittleEndian.PutUint32(b, uint32(v)) })
	set("setFloat32", 4, func(b []byte, v float64) { binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v))) })
	set("setFloat64", 8, func(b []byte, v float64) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) })
}
