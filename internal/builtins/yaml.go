package builtins

import (
	"github.com/goccy/go-yaml"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

// installStdYaml adds std.loadYaml, a script-facing YAML parser built
// on a second codec (github.com/goccy/go-yaml) distinct from the CLI's
// config loader (gopkg.in/yaml.v3) — this one only ever decodes into
// plain `any` trees, which yamlToValue then lifts into JS values the
// same way json.go's jsonToValue does for JSON.parse.
func installStdYaml(ip *interp.Interpreter, std *value.Object) {
	std.DefineHidden(value.StringKey("loadYaml"), ip.NewNativeFunction("loadYaml", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		src, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		var decoded any
		if yerr := yaml.Unmarshal([]byte(src), &decoded); yerr != nil {
			return nil, ip.ThrowSyntaxError("Invalid YAML: %v", yerr), nil
		}
		return yamlToValue(ip, decoded), interp.Signal{}, nil
	}))
}

func yamlToValue(ip *interp.Interpreter, v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null
	case bool:
		return value.NewBoolean(t)
	case int:
		return value.NewNumber(float64(t))
	case int64:
		return value.NewNumber(float64(t))
	case uint64:
		return value.NewNumber(float64(t))
	case float64:
		return value.NewNumber(t)
	case string:
		return value.NewString(t)
	case []any:
		out := make([]value.Value, len(t))
		for i, e := range t {
			out[i] = yamlToValue(ip, e)
		}
		return ip.MakeArray(out)
	case map[string]any:
		obj := value.NewObject(ip.Protos["Object"])
		for k, e := range t {
			obj.DefineData(value.StringKey(k), yamlToValue(ip, e))
		}
		return obj
	case map[any]any:
		obj := value.NewObject(ip.Protos["Object"])
		for k, e := range t {
			ks, _ := k.(string)
			obj.DefineData(value.StringKey(ks), yamlToValue(ip, e))
		}
		return obj
	default:
		return value.Undefined
	}
}
