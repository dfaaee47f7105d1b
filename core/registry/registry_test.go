package registry

import "testing"

func TestSetGet(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.GetGlobal("missing"); ok {
		t.Error("GetGlobal on empty registry reported ok")
	}
	r.SetGlobal("k", 42)
	v, ok := r.GetGlobal("k")
	if !ok || v.(int) != 42 {
		t.Errorf("GetGlobal = %v/%v, want 42/true", v, ok)
	}
}

func TestLock(t *testing.T) {
	r := NewRegistry()
	r.SetGlobal("k", 1)
	r.Lock("k")

	if !r.IsLocked("k") {
		t.Fatal("IsLocked = false after Lock")
	}
	defer func() {
		if recover() == nil {
			t.Error("SetGlobal on locked key did not panic")
		}
	}()
	r.SetGlobal("k", 2)
}

func TestUnlockForTesting(t *testing.T) {
	r := NewRegistry()
	r.SetGlobal("k", 1)
	r.Lock("k")
	r.UnlockForTesting("k")

	r.SetGlobal("k", 2) // must not panic
	v, _ := r.GetGlobal("k")
	if v.(int) != 2 {
		t.Errorf("value = %v, want 2", v)
	}
}

func TestLockIsPerKey(t *testing.T) {
	r := NewRegistry()
	r.Lock("a")
	if r.IsLocked("b") {
		t.Error("lock on a leaked to b")
	}
	r.SetGlobal("b", 1) // must not panic
}
