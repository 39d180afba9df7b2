package safe

import (
	"sync"
	"testing"
)

func TestMapSetGet(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("a", 1)

	v, ok := m.Get("a")
	if !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}

	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) = true; want false")
	}
}

func TestMapPopDelete(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("a", 1)

	v, ok := m.Pop("a")
	if !ok || v != 1 {
		t.Errorf("Pop(a) = %v, %v; want 1, true", v, ok)
	}
	if _, ok := m.Get("a"); ok {
		t.Error("key survived Pop")
	}

	m.Set("b", 2)
	m.Delete("b")
	if _, ok := m.Get("b"); ok {
		t.Error("key survived Delete")
	}
}

func TestMapLenValuesKeys(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)

	if m.Len() != 2 {
		t.Errorf("Len() = %d; want 2", m.Len())
	}

	values := m.Values()
	if len(values) != 2 {
		t.Errorf("len(Values()) = %d; want 2", len(values))
	}

	keys := m.Keys()
	if len(keys) != 2 {
		t.Errorf("len(Keys()) = %d; want 2", len(keys))
	}
}

func TestMapConcurrentAccess(t *testing.T) {
	m := NewMap[int, int]()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.Set(n, n*n)
		}(i)
	}
	wg.Wait()

	if m.Len() != 100 {
		t.Errorf("Len() = %d; want 100", m.Len())
	}
	v, ok := m.Get(10)
	if !ok || v != 100 {
		t.Errorf("Get(10) = %v, %v; want 100, true", v, ok)
	}
}
