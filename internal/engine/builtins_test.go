package engine

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// evalResult is a small helper that runs src and returns the String()
// form of the globalThis.result binding it's expected to set.
func evalResult(t *testing.T, src string) string {
	t.Helper()
	eng := New("<test>", "", Options{Out: io.Discard})
	defer eng.Close()

	err := eng.Run("<test>", "globalThis.result = ("+src+");")
	require.NoError(t, err)

	v, err := eng.Eval("globalThis.result")
	require.NoError(t, err)
	return v.String()
}

func TestArrayBuiltinsMapFilterReduce(t *testing.T) {
	got := evalResult(t, `[1, 2, 3, 4].filter(x => x % 2 === 0).map(x => x * 10).reduce((a, b) => a + b, 0)`)
	require.Equal(t, "60", got)
}

func TestStringBuiltinsCaseConversion(t *testing.T) {
	got := evalResult(t, `"Hello".toUpperCase() + " " + "WORLD".toLowerCase()`)
	require.Equal(t, "HELLO world", got)
}

func TestJSONRoundTrip(t *testing.T) {
	got := evalResult(t, `JSON.parse(JSON.stringify({a: 1, b: [2, 3]})).b[1]`)
	require.Equal(t, "3", got)
}

func TestMathBuiltins(t *testing.T) {
	got := evalResult(t, `Math.max(1, 5, 3) + Math.floor(2.9)`)
	require.Equal(t, "7", got)
}

func TestMapAndSetBuiltins(t *testing.T) {
	got := evalResult(t, `
		(() => {
			const m = new Map([["a", 1], ["b", 2]]);
			const s = new Set([1, 2, 2, 3]);
			return m.get("b") + s.size;
		})()
	`)
	require.Equal(t, "5", got)
}

func TestRegExpBuiltins(t *testing.T) {
	got := evalResult(t, `/(\d+)-(\d+)/.exec("12-34")[2]`)
	require.Equal(t, "34", got)
}

func TestSymbolBuiltinsToString(t *testing.T) {
	got := evalResult(t, `Symbol("tag").toString()`)
	require.Equal(t, "Symbol(tag)", got)
}

func TestErrorBuiltinsInstanceOf(t *testing.T) {
	got := evalResult(t, `
		(() => {
			try { null.x; } catch (e) { return e instanceof TypeError; }
		})()
	`)
	require.Equal(t, "true", got)
}

func TestTypedArrayRoundTrip(t *testing.T) {
	got := evalResult(t, `
		(() => {
			const buf = new Int32Array([1, 2, 3]);
			buf[1] = 99;
			return buf[0] + buf[1] + buf[2];
		})()
	`)
	require.Equal(t, "103", got)
}

func TestReflectAndProxy(t *testing.T) {
	got := evalResult(t, `
		(() => {
			const target = {x: 1};
			const p = new Proxy(target, {
				get(t, k) { return Reflect.get(t, k) * 2; }
			});
			return p.x;
		})()
	`)
	require.Equal(t, "2", got)
}

func TestConsoleLogWritesToOut(t *testing.T) {
	var buf stringWriter
	eng := New("<test>", "", Options{Out: &buf})
	defer eng.Close()

	err := eng.Run("<test>", `console.log("hello", 42);`)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "hello")
	require.Contains(t, buf.String(), "42")
}

func TestSetTimeoutFiresDuringEventLoopDrain(t *testing.T) {
	eng := New("<test>", "", Options{Out: io.Discard})
	defer eng.Close()

	err := eng.Run("<test>", `
		globalThis.fired = false;
		setTimeout(() => { globalThis.fired = true; }, 0);
	`)
	require.NoError(t, err)

	v, err := eng.Eval("globalThis.fired")
	require.NoError(t, err)
	require.Equal(t, "true", v.String())
}

type stringWriter struct{ data []byte }

func (w *stringWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}
func (w *stringWriter) String() string { return string(w.data) }
