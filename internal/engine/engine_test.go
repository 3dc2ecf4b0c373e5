package engine

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssrlive/ecmacore/internal/interp"
)

func TestRunEvaluatesSimpleExpression(t *testing.T) {
	eng := New("<test>", "", Options{Out: io.Discard})
	defer eng.Close()

	v, err := eng.Eval("1 + 2")
	require.NoError(t, err)
	require.Equal(t, "3", v.String())
}

func TestRunEnforcesMaxLoopIterations(t *testing.T) {
	eng := New("<test>", "", Options{
		Out:    io.Discard,
		Limits: interp.Limits{MaxLoopIterations: 100},
	})
	defer eng.Close()

	err := eng.Run("<test>", "let n = 0; while (true) { n++; }")
	require.Error(t, err)
	require.Contains(t, err.Error(), "loop iteration limit exceeded")
}

func TestRunWithoutLimitsAllowsBoundedLoop(t *testing.T) {
	eng := New("<test>", "", Options{Out: io.Discard})
	defer eng.Close()

	err := eng.Run("<test>", "let n = 0; for (let i = 0; i < 1000; i++) { n++; }")
	require.NoError(t, err)
}

func TestImportShimBindsStdNamespace(t *testing.T) {
	eng := New("<test>", "", Options{Out: io.Discard})
	defer eng.Close()

	err := eng.Run("<test>", `import * as std from "std"; std.sprintf("%d", 1);`)
	require.NoError(t, err)
}

func TestClassesAndInheritance(t *testing.T) {
	eng := New("<test>", "", Options{Out: io.Discard})
	defer eng.Close()

	err := eng.Run("<test>", `
		class Animal {
			constructor(name) { this.name = name; }
			speak() { return this.name + " makes a sound"; }
		}
		class Dog extends Animal {
			speak() { return this.name + " barks"; }
		}
		globalThis.result = new Dog("Rex").speak();
	`)
	require.NoError(t, err)

	v, err := eng.Eval("globalThis.result")
	require.NoError(t, err)
	require.Equal(t, "Rex barks", v.String())
}

func TestPromiseResolutionDrainsMicrotasks(t *testing.T) {
	eng := New("<test>", "", Options{Out: io.Discard})
	defer eng.Close()

	err := eng.Run("<test>", `
		globalThis.result = "pending";
		Promise.resolve(1).then(v => { globalThis.result = "resolved:" + v; });
	`)
	require.NoError(t, err)

	v, err := eng.Eval("globalThis.result")
	require.NoError(t, err)
	require.Equal(t, "resolved:1", v.String())
}

func TestUncaughtErrorReportsNameAndMessage(t *testing.T) {
	eng := New("<test>", "", Options{Out: io.Discard})
	defer eng.Close()

	err := eng.Run("<test>", `null.x;`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "TypeError")
	require.Contains(t, err.Error(), "Cannot read properties of null (reading 'x')")
}
