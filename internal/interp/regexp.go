package interp

import (
	"github.com/dlclark/regexp2"

	"github.com/ssrlive/ecmacore/internal/value"
)

// makeRegExp builds a RegExp instance from a literal's pattern/flags,
// compiling it with regexp2 for full ECMAScript regex-syntax support
// (backreferences, lookaround) that Go's native regexp/RE2 cannot
// express (spec 4.10, "RegExp"). The compiled *regexp2.Regexp is kept
// in Internal for RegExp.prototype.exec/test (installed by
// internal/builtins) to reuse.
func (ip *Interpreter) makeRegExp(pattern, flags string) *value.Object {
	obj := value.NewObject(ip.Protos["RegExp"])
	obj.Class = "RegExp"
	obj.DefineData(value.StringKey("source"), value.NewString(pattern))
	obj.DefineData(value.StringKey("flags"), value.NewString(flags))
	obj.DefineData(value.StringKey("global"), value.NewBoolean(containsRune(flags, 'g')))
	obj.DefineData(value.StringKey("ignoreCase"), value.NewBoolean(containsRune(flags, 'i')))
	obj.DefineData(value.StringKey("multiline"), value.NewBoolean(containsRune(flags, 'm')))
	obj.DefineData(value.StringKey("sticky"), value.NewBoolean(containsRune(flags, 'y')))
	obj.DefineData(value.StringKey("unicode"), value.NewBoolean(containsRune(flags, 'u')))
	obj.DefineData(value.StringKey("lastIndex"), value.NewNumber(0))

	opts := regexp2.None
	if containsRune(flags, 'i') {
		opts |= regexp2.IgnoreCase
	}
	if containsRune(flags, 'm') {
		opts |= regexp2.Multiline
	}
	if containsRune(flags, 's') {
		opts |= regexp2.Singleline
	}
	re, err := regexp2.Compile(pattern, opts)
	if err == nil {
		if obj.Internal == nil {
			obj.Internal = map[string]any{}
		}
		obj.Internal["regexp"] = re
	}
	return obj
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
