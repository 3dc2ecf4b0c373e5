package builtins

import (
	"time"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installDate(ip *interp.Interpreter) {
	proto := ip.Protos["Date"]

	ctor := newConstructor(ip, "Date", 0, proto, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		var t time.Time
		switch len(args) {
		case 0:
			t = time.Now()
		case 1:
			switch v := args[0].(type) {
			case value.Number:
				t = time.UnixMilli(int64(v)).UTC()
			case value.StringValue:
				parsed, err := time.Parse(time.RFC3339, v.String())
				if err != nil {
					parsed, err = time.Parse("2006-01-02", v.String())
				}
				if err != nil {
					return dateObject(ip, proto, time.Time{}, true), interp.Signal{}, nil
				}
				t = parsed
			default:
				n, sig, err := toNum(ip, args[0])
				if err != nil || sig.IsAbrupt() {
					return nil, sig, err
				}
				t = time.UnixMilli(int64(n)).UTC()
			}
		default:
			parts := make([]int, 7)
			parts[2] = 1 // day defaults to 1
			for i := 0; i < len(args) && i < 7; i++ {
				n, sig, err := toNum(ip, args[i])
				if err != nil || sig.IsAbrupt() {
					return nil, sig, err
				}
				parts[i] = int(n)
			}
			t = time.Date(parts[0], time.Month(parts[1]+1), parts[2], parts[3], parts[4], parts[5], parts[6]*1_000_000, time.UTC)
		}
		return dateObject(ip, proto, t, false), interp.Signal{}, nil
	})
	defineGlobal(ip, "Date", ctor)

	staticMethod(ip, ctor, "now", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return value.NewNumber(float64(time.Now().UnixMilli())), interp.Signal{}, nil
	})

	getTime := func(this value.Value) (time.Time, bool) {
		obj, ok := this.(*value.Object)
		if !ok || obj.Internal == nil {
			return time.Time{}, false
		}
		t, ok := obj.Internal["time"].(time.Time)
		return t, ok
	}

	num := func(name string, fn func(time.Time) float64) {
		method(ip, proto, name, 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
			t, ok := getTime(this)
			if !ok {
				return value.NewNumber(nan()), interp.Signal{}, nil
			}
			return value.NewNumber(fn(t)), interp.Signal{}, nil
		})
	}

	num("getTime", func(t time.Time) float64 { return float64(t.UnixMilli()) })
	num("valueOf", func(t time.Time) float64 { return float64(t.UnixMilli()) })
	num("getFullYear", func(t time.Time) float64 { return float64(t.Year()) })
	num("getMonth", func(t time.Time) float64 { return float64(t.Month() - 1) })
	num("getDate", func(t time.Time) float64 { return float64(t.Day()) })
	num("getDay", func(t time.Time) float64 { return float64(t.Weekday()) })
	num("getHours", func(t time.Time) float64 { return float64(t.Hour()) })
	num("getMinutes", func(t time.Time) float64 { return float64(t.Minute()) })
	num("getSeconds", func(t time.Time) float64 { return float64(t.Second()) })
	num("getMilliseconds", func(t time.Time) float64 { return float64(t.Nanosecond() / 1_000_000) })
	num("getTimezoneOffset", func(t time.Time) float64 { return 0 })

	method(ip, proto, "toISOString", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		t, ok := getTime(this)
		if !ok {
			return nil, ip.ThrowRangeError("Invalid time value"), nil
		}
		return value.NewString(t.UTC().Format("2006-01-02T15:04:05.000Z")), interp.Signal{}, nil
	})
	method(ip, proto, "toString", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		t, ok := getTime(this)
		if !ok {
			return value.NewString("Invalid Date"), interp.Signal{}, nil
		}
		return value.NewString(t.UTC().Format("Mon Jan 02 2006 15:04:05 GMT+0000 (Coordinated Universal Time)")), interp.Signal{}, nil
	})
	method(ip, proto, "toJSON", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		t, ok := getTime(this)
		if !ok {
			return value.Null, interp.Signal{}, nil
		}
		return value.NewString(t.UTC().Format("2006-01-02T15:04:05.000Z")), interp.Signal{}, nil
	})
}

func dateObject(ip *interp.Interpreter, proto *value.Object, t time.Time, invalid bool) *value.Object {
	obj := value.NewObject(proto)
	obj.Class = "Date"
	obj.Internal = map[string]any{"time": t, "invalid": invalid}
	return obj
}
