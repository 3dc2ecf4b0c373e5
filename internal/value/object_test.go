package value

import "testing"

func TestDefineDataAndLookupThroughPrototypeChain(t *testing.T) {
	proto := NewObject(nil)
	proto.DefineData(StringKey("inherited"), NewNumber(1))

	obj := NewObject(proto)
	obj.DefineData(StringKey("own"), NewNumber(2))

	if !obj.HasProperty(StringKey("inherited")) {
		t.Error("HasProperty should walk the prototype chain")
	}
	d, owner := obj.Lookup(StringKey("inherited"))
	if d == nil || owner != proto {
		t.Error("Lookup should resolve the inherited property on proto")
	}
	if _, ok := obj.GetOwn(StringKey("inherited")); ok {
		t.Error("GetOwn should not see inherited properties")
	}
}

func TestDeleteOwnRespectsConfigurable(t *testing.T) {
	obj := NewObject(nil)
	obj.DefineOwn(StringKey("fixed"), &PropertyDescriptor{Value: NewNumber(1), Configurable: false})
	if obj.DeleteOwn(StringKey("fixed")) {
		t.Error("deleting a non-configurable property should fail")
	}
	if _, ok := obj.GetOwn(StringKey("fixed")); !ok {
		t.Error("non-configurable property should still be present after failed delete")
	}

	obj.DefineData(StringKey("movable"), NewNumber(2))
	if !obj.DeleteOwn(StringKey("movable")) {
		t.Error("deleting a configurable property should succeed")
	}
	if _, ok := obj.GetOwn(StringKey("movable")); ok {
		t.Error("deleted property should no longer be present")
	}
}

func TestOwnKeysOrdersIntegerIndicesFirst(t *testing.T) {
	obj := NewObject(nil)
	obj.DefineData(StringKey("b"), NewNumber(1))
	obj.DefineData(StringKey("2"), NewNumber(1))
	obj.DefineData(StringKey("a"), NewNumber(1))
	obj.DefineData(StringKey("0"), NewNumber(1))

	keys := obj.OwnKeys()
	want := []string{"0", "2", "b", "a"}
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i, w := range want {
		if keys[i].Str != w {
			t.Errorf("key %d = %q, want %q", i, keys[i].Str, w)
		}
	}
}

func TestDefineHiddenIsNonEnumerable(t *testing.T) {
	obj := NewObject(nil)
	obj.DefineHidden(StringKey("secret"), NewNumber(1))
	d, _ := obj.GetOwn(StringKey("secret"))
	if d.Enumerable {
		t.Error("DefineHidden should produce a non-enumerable property")
	}
}
