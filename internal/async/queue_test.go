package async

import "testing"

func TestDrainRunsJobsInFIFOOrder(t *testing.T) {
	q := NewQueue()
	var order []int
	q.Enqueue(func() { order = append(order, 1) })
	q.Enqueue(func() { order = append(order, 2) })
	q.Enqueue(func() { order = append(order, 3) })

	q.Drain()

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

func TestDrainIncludesJobsEnqueuedWhileDraining(t *testing.T) {
	q := NewQueue()
	var ran []string
	q.Enqueue(func() {
		ran = append(ran, "first")
		q.Enqueue(func() { ran = append(ran, "nested") })
	})

	q.Drain()

	if len(ran) != 2 || ran[0] != "first" || ran[1] != "nested" {
		t.Errorf("got %v, want [first nested]", ran)
	}
	if !q.Empty() {
		t.Error("queue should be empty after Drain")
	}
}

func TestEmptyOnFreshQueue(t *testing.T) {
	q := NewQueue()
	if !q.Empty() {
		t.Error("a fresh queue should be empty")
	}
}
