package effects

import "testing"

func TestApply_TwiceThenRevertRestoresOriginal(t *testing.T) {
	r := NewRegistry()
	x := 5.0
	r.Apply("brake", &x, 2.0)
	r.Apply("brake", &x, 2.0)
	if x != 2.0 {
		t.Fatalf("x after apply = %v, want 2", x)
	}
	r.Revert("brake", &x)
	if x != 5.0 {
		t.Errorf("x after revert = %v, want 5 (pre-apply value)", x)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestApply_ReapplyWithDifferentValueKeepsRestorePoint(t *testing.T) {
	r := NewRegistry()
	x := 10.0
	r.Apply("freeze", &x, 5.0)
	r.Apply("freeze", &x, 2.5)
	if x != 2.5 {
		t.Errorf("x = %v, want 2.5", x)
	}
	if orig, ok := r.Original("freeze", &x); !ok || orig != 10.0 {
		t.Errorf("Original = %v, %v, want 10, true", orig, ok)
	}
	r.Revert("freeze", &x)
	if x != 10.0 {
		t.Errorf("x after revert = %v, want 10", x)
	}
}

func TestRevert_NothingStoredIsNoOp(t *testing.T) {
	r := NewRegistry()
	x := 3.0
	r.Revert("missing", &x)
	if x != 3.0 {
		t.Errorf("x = %v, want 3", x)
	}

	r.Apply("a", &x, 1.0)
	r.Revert("a", &x)
	x = 7.0 // caller changed the value after the effect ended
	r.Revert("a", &x)
	if x != 7.0 {
		t.Errorf("double revert changed x to %v, want 7", x)
	}
}

func TestRevert_StackedKeysReferenceCounted(t *testing.T) {
	r := NewRegistry()
	mult := 1.0
	r.Apply("double", &mult, 2.0)
	r.Apply("mega", &mult, 5.0)

	r.Revert("double", &mult)
	if mult != 5.0 {
		t.Errorf("mult after reverting first layer = %v, want 5 (mega still active)", mult)
	}
	if !r.Active("mega") || r.Active("double") {
		t.Errorf("Active(mega)=%v Active(double)=%v, want true false", r.Active("mega"), r.Active("double"))
	}

	r.Revert("mega", &mult)
	if mult != 1.0 {
		t.Errorf("mult after reverting all layers = %v, want 1", mult)
	}
}

func TestScale_DoesNotCompound(t *testing.T) {
	r := NewRegistry()
	relief := 4.0
	r.Scale("boost", &relief, 3.5)
	r.Scale("boost", &relief, 3.5)
	if relief != 14.0 {
		t.Errorf("relief = %v, want 14", relief)
	}
	r.Revert("boost", &relief)
	if relief != 4.0 {
		t.Errorf("relief after revert = %v, want 4", relief)
	}
}

func TestClearAll_RestoresEveryTargetOnce(t *testing.T) {
	r := NewRegistry()
	a, b, c := 1.0, 2.0, 3.0
	r.Apply("k1", &a, 10)
	r.Apply("k2", &b, 20)
	r.Apply("k2", &b, 21)
	r.Apply("k3", &c, 30)

	var keys []Key
	var originals []float64
	r.ClearAll(func(key Key, original float64) {
		keys = append(keys, key)
		originals = append(originals, original)
	})

	if a != 1 || b != 2 || c != 3 {
		t.Errorf("targets = %v %v %v, want 1 2 3", a, b, c)
	}
	wantKeys := []Key{"k1", "k2", "k3"}
	wantOrig := []float64{1, 2, 3}
	if len(keys) != len(wantKeys) {
		t.Fatalf("callback calls = %d, want %d", len(keys), len(wantKeys))
	}
	for i := range wantKeys {
		if keys[i] != wantKeys[i] || originals[i] != wantOrig[i] {
			t.Errorf("call %d = (%v, %v), want (%v, %v)", i, keys[i], originals[i], wantKeys[i], wantOrig[i])
		}
	}
	for _, k := range wantKeys {
		if r.Active(k) {
			t.Errorf("Active(%q) = true after ClearAll", k)
		}
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestClearAll_NilCallback(t *testing.T) {
	r := NewRegistry()
	x := 8.0
	r.Apply("k", &x, 1)
	r.ClearAll(nil)
	if x != 8.0 {
		t.Errorf("x = %v, want 8", x)
	}
}
