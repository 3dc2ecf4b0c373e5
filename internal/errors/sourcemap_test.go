package errors

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssrlive/ecmacore/internal/token"
)

func TestLoadSourceMapInvalid(t *testing.T) {
	_, err := LoadSourceMap([]byte("not json"))
	require.Error(t, err)
}

func TestSourceMapResolveNilIsNoop(t *testing.T) {
	var m *SourceMap
	pos := token.Position{Line: 1, Column: 2}
	require.Equal(t, pos, m.Resolve(pos))
	require.Equal(t, []Frame{{Name: "f", Pos: pos}}, m.ResolveStack([]Frame{{Name: "f", Pos: pos}}))
}
