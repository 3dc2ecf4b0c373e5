package errors

import (
	"github.com/go-sourcemap/sourcemap"

	"github.com/ssrlive/ecmacore/internal/token"
)

// SourceMap resolves generated-source positions back to the positions
// of a pre-transpiled original, the way goja optionally does for
// bundled/minified scripts. ecmacore's own parser never emits
// transpiled code, so this only matters for embedders feeding it
// output from an external bundler; wiring it is opt-in via
// LoadSourceMap, never consulted unless an embedder supplies one.
type SourceMap struct {
	consumer *sourcemap.Consumer
}

// LoadSourceMap parses a JSON source map (e.g. a `//# sourceMappingURL`
// payload the host read off disk) for later use with Resolve.
func LoadSourceMap(mapContent []byte) (*SourceMap, error) {
	consumer, err := sourcemap.Parse("", mapContent)
	if err != nil {
		return nil, err
	}
	return &SourceMap{consumer: consumer}, nil
}

// Resolve maps a generated-source position to its original-source
// position, falling back to pos unchanged if the map has no entry.
func (m *SourceMap) Resolve(pos token.Position) token.Position {
	if m == nil || m.consumer == nil {
		return pos
	}
	_, _, line, col, ok := m.consumer.Source(pos.Line, pos.Column)
	if !ok {
		return pos
	}
	resolved := pos
	resolved.Line = line
	resolved.Column = col
	return resolved
}

// ResolveStack rewrites every frame's position through m.
func (m *SourceMap) ResolveStack(frames []Frame) []Frame {
	if m == nil {
		return frames
	}
	out := make([]Frame, len(frames))
	for i, f := range frames {
		f.Pos = m.Resolve(f.Pos)
		out[i] = f
	}
	return out
}
