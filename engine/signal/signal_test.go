package signal

import "testing"

func TestValueNotifiesOnChange(t *testing.T) {
	v := NewValue(false)
	var got []bool
	v.Subscribe(func(b bool) { got = append(got, b) })

	v.Set(true)
	v.Set(true)
	v.Set(false)

	if len(got) != 2 || got[0] != true || got[1] != false {
		t.Errorf("notifications = %v, want [true false]", got)
	}
	if v.Get() != false {
		t.Errorf("Get() = %v, want false", v.Get())
	}
}

func TestValueFanOutAndUnsubscribe(t *testing.T) {
	v := NewValue(0)
	var a, b int
	unsubA := v.Subscribe(func(n int) { a = n })
	v.Subscribe(func(n int) { b = n })

	v.Set(1)
	unsubA()
	unsubA()
	v.Set(2)

	if a != 1 {
		t.Errorf("unsubscribed listener saw %d, want 1", a)
	}
	if b != 2 {
		t.Errorf("listener saw %d, want 2", b)
	}
	if n := v.Subscribers(); n != 1 {
		t.Errorf("Subscribers() = %d, want 1", n)
	}
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	v := NewValue(0)
	calls := 0
	var unsub func()
	unsub = v.Subscribe(func(int) {
		calls++
		unsub()
	})

	v.Set(1)
	v.Set(2)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestEmitter(t *testing.T) {
	e := NewEmitter()
	count := 0
	unsub := e.Subscribe(func() { count++ })

	e.Emit()
	e.Emit()
	unsub()
	e.Emit()

	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if e.Listeners() != 0 {
		t.Errorf("Listeners() = %d, want 0", e.Listeners())
	}
}
