package engine

import (
	"os"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestConsoleOutputSnapshots pins console.log's rendering of a handful
// of representative values (arrays, objects, errors, nested structures)
// the way the teacher's fixture suite snapshots program output, without
// needing an external fixture corpus.
func TestConsoleOutputSnapshots(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"array", `console.log([1, "two", [3, 4], {a: 5}]);`},
		{"object", `console.log({name: "ecmacore", tags: ["js", "interpreter"]});`},
		{"error", `console.log(new TypeError("bad argument"));`},
		{"nested_map", `console.log(new Map([["x", 1], ["y", 2]]));`},
		{"undefined_and_null", `console.log(undefined, null, NaN, -0);`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf stringWriter
			eng := New("<test>", "", Options{Out: &buf})
			defer eng.Close()

			if err := eng.Run("<test>", c.src); err != nil {
				t.Fatalf("Run error: %v", err)
			}
			snaps.MatchSnapshot(t, strings.TrimRight(buf.String(), "\n"))
		})
	}
}

func TestMain(m *testing.M) {
	v := m.Run()
	// Flags any snapshot file no longer referenced by a test, the way
	// the teacher's fixture suite keeps its golden files pruned.
	snaps.Clean(m)
	os.Exit(v)
}
