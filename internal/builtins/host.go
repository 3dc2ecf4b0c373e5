package builtins

import (
	"os"
	"path/filepath"

	"github.com/ssrlive/ecmacore/internal/interp"
	"github.com/ssrlive/ecmacore/internal/value"
)

// HostEnv is the minimal host surface spec.md 6.3's import shim binds
// `std`/`os` against (js_std/mod.rs, js_os.rs): an embedder can supply
// a HostEnv that talks to a sandbox, an in-memory filesystem, or the
// real OS. installHost ships DefaultHostEnv, a thin pass-through to
// the Go standard library, when the embedder doesn't care.
type HostEnv interface {
	ReadFile(path string) (string, error)
	WriteFile(path, data string) error
	Remove(path string) error
	Mkdir(path string) error
	ReadDir(path string) ([]string, error)
	Getcwd() (string, error)
	Getpid() int
}

// DefaultHostEnv is the in-memory/no-op-free default: it talks to the
// real process's filesystem, for embedders that want the shim to just
// work without wiring their own sandbox.
type DefaultHostEnv struct{}

func (DefaultHostEnv) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}

func (DefaultHostEnv) WriteFile(path, data string) error {
	return os.WriteFile(path, []byte(data), 0o644)
}

func (DefaultHostEnv) Remove(path string) error { return os.Remove(path) }

func (DefaultHostEnv) Mkdir(path string) error { return os.MkdirAll(path, 0o755) }

func (DefaultHostEnv) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func (DefaultHostEnv) Getcwd() (string, error) { return os.Getwd() }

func (DefaultHostEnv) Getpid() int { return os.Getpid() }

// installHost builds the `std` and `os` namespace objects spec.md 6.3's
// import shim pre-binds a script's `import * as NAME from "std"/"os"`
// to. They're also installed as ordinary globals named std/os;
// internal/engine's import-shim preprocessing simply aliases the
// script's chosen NAME to these same objects.
func installHost(ip *interp.Interpreter, host HostEnv) {
	if host == nil {
		host = DefaultHostEnv{}
	}

	std := value.NewObject(ip.Protos["Object"])
	def := func(obj *value.Object, name string, length int, fn interp.NativeFunc) {
		obj.DefineHidden(value.StringKey(name), ip.NewNativeFunction(name, length, fn))
	}

	def(std, "loadFile", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		path, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		data, rerr := host.ReadFile(path)
		if rerr != nil {
			return value.Null, interp.Signal{}, nil
		}
		return value.NewString(data), interp.Signal{}, nil
	})
	def(std, "sprintf", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		format, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewString(stdSprintf(ip, format, args[1:])), interp.Signal{}, nil
	})
	def(std, "gc", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		ip.GC.Collect()
		return value.Undefined, interp.Signal{}, nil
	})
	installStdYaml(ip, std)
	std.DefineHidden(value.StringKey("SEEK_SET"), value.NewNumber(0))
	std.DefineHidden(value.StringKey("SEEK_CUR"), value.NewNumber(1))
	std.DefineHidden(value.StringKey("SEEK_END"), value.NewNumber(2))
	defineGlobal(ip, "std", std)

	osObj := value.NewObject(ip.Protos["Object"])
	def(osObj, "open", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		path, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		data, rerr := host.ReadFile(path)
		if rerr != nil {
			return value.NewNumber(-1), interp.Signal{}, nil
		}
		return value.NewString(data), interp.Signal{}, nil
	})
	def(osObj, "remove", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		path, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if rerr := host.Remove(path); rerr != nil {
			return value.NewNumber(-1), interp.Signal{}, nil
		}
		return value.NewNumber(0), interp.Signal{}, nil
	})
	def(osObj, "mkdir", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		path, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		if rerr := host.Mkdir(path); rerr != nil {
			return value.NewNumber(-1), interp.Signal{}, nil
		}
		return value.NewNumber(0), interp.Signal{}, nil
	})
	def(osObj, "readdir", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		path, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		names, rerr := host.ReadDir(path)
		if rerr != nil {
			return value.Null, interp.Signal{}, nil
		}
		out := make([]value.Value, len(names))
		for i, n := range names {
			out[i] = value.NewString(n)
		}
		return ip.MakeArray(out), interp.Signal{}, nil
	})
	def(osObj, "getcwd", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		cwd, rerr := host.Getcwd()
		if rerr != nil {
			return value.NewString(""), interp.Signal{}, nil
		}
		return value.NewString(cwd), interp.Signal{}, nil
	})
	def(osObj, "getpid", 0, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		return value.NewNumber(float64(host.Getpid())), interp.Signal{}, nil
	})
	def(osObj, "join", 2, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			s, sig, err := toStr(ip, a)
			if err != nil || sig.IsAbrupt() {
				return nil, sig, err
			}
			parts[i] = s
		}
		return value.NewString(filepath.Join(parts...)), interp.Signal{}, nil
	})
	def(osObj, "dirname", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewString(filepath.Dir(s)), interp.Signal{}, nil
	})
	def(osObj, "basename", 1, func(ip *interp.Interpreter, this value.Value, args []value.Value) (value.Value, interp.Signal, error) {
		s, sig, err := toStr(ip, arg(args, 0))
		if err != nil || sig.IsAbrupt() {
			return nil, sig, err
		}
		return value.NewString(filepath.Base(s)), interp.Signal{}, nil
	})
	defineGlobal(ip, "os", osObj)
}

func stdSprintf(ip *interp.Interpreter, format string, args []value.Value) string {
	var out []byte
	argi := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			out = append(out, c)
			continue
		}
		i++
		verb := format[i]
		if verb == '%' {
			out = append(out, '%')
			continue
		}
		if argi >= len(args) {
			continue
		}
		a := args[argi]
		argi++
		switch verb {
		case 'd', 'i':
			n, _, _ := toNum(ip, a)
			out = append(out, value.Number(n).String()...)
		case 's':
			s, _, _ := toStr(ip, a)
			out = append(out, s...)
		case 'f':
			n, _, _ := toNum(ip, a)
			out = append(out, value.Number(n).String()...)
		default:
			s, _, _ := toStr(ip, a)
			out = append(out, s...)
		}
	}
	return string(out)
}
