package builtins

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

func installConsole(ip *interp.Interpreter) {
	c := value.NewObject(ip.Protos["Object"])

	logFn := func(prefix func(string) string) interp.NativeFunc {
		return func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = displayValue(ip, a)
			}
			line := strings.Join(parts, " ")
			if prefix != nil {
				line = prefix(line)
			}
			fmt.Fprintln(ip.Out, line)
			return value.Undefined, interp.Signal{}, nil
		}
	}

	c.DefineHidden(value.StringKey("log"), ip.NewNativeFunction("log", 0, logFn(nil)))
	c.DefineHidden(value.StringKey("info"), ip.NewNativeFunction("info", 0, logFn(nil)))
	c.DefineHidden(value.StringKey("debug"), ip.NewNativeFunction("debug", 0, logFn(nil)))
	c.DefineHidden(value.StringKey("warn"), ip.NewNativeFunction("warn", 0, logFn(color.YellowString)))
	c.DefineHidden(value.StringKey("error"), ip.NewNativeFunction("error", 0, logFn(color.RedString)))

	defineGlobal(ip, "console", c)
}

// displayValue renders v the way console.log shows it: strings bare,
// everything else via Inspect (spec 6.3, "console.log").
func displayValue(ip *interp.Interpreter, v value.Value) string {
	if s, ok := v.(value.StringValue); ok {
		return s.String()
	}
	return value.Inspect(v)
}
