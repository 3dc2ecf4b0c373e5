package builtins

import (
	"time"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/timer"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installTimers(ip *interp.Interpreter) {
	schedule := func(repeating bool) interp.NativeFunc {
		return func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
			fn, ok := arg(args, 0).(*value.Object)
			if !ok || fn.Callable == nil {
				return nil, ip.ThrowTypeError("callback is not a function"), nil
			}
			delayMs := 0.0
			if len(args) > 1 {
				d, sig, err := toNum(ip, args[1])
				if err != nil || sig.IsAbrupt() {
					return nil, sig, err
				}
				delayMs = d
			}
			if delayMs < 0 {
				delayMs = 0
			}
			var extra []value.Value
			if len(args) > 2 {
				extra = args[2:]
			}
			delay := time.Duration(delayMs * float64(time.Millisecond))
			repeat := time.Duration(0)
			if repeating {
				repeat = delay
			}
			id := ip.Timers.Schedule(delay, repeat)
			ip.RegisterTimer(id, fn, extra, repeating)
			return value.NewNumber(float64(id)), interp.Signal{}, nil
		}
	}

	clear := func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		n, sig, err := toNum(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		id := timer.ID(int64(n))
		ip.Timers.Cancel(id)
		ip.UnregisterTimer(id)
		return value.Undefined, interp.Signal{}, nil
	}

	defineGlobal(ip, "setTimeout", ip.NewNativeFunction("setTimeout", 1, schedule(false)))
	defineGlobal(ip, "setInterval", ip.NewNativeFunction("setInterval", 1, schedule(true)))
	defineGlobal(ip, "clearTimeout", ip.NewNativeFunction("clearTimeout", 1, clear))
	defineGlobal(ip, "clearInterval", ip.NewNativeFunction("clearInterval", 1, clear))
}
