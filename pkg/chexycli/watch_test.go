package chexycli

import "testing"

func TestOffer_DropsWhenFull(t *testing.T) {
	events := make(chan Event, 2)
	for i := 0; i < 2; i++ {
		if !offer(events, Event{Method: "task.due"}) {
			t.Fatalf("offer %d rejected with room left", i)
		}
	}
	if offer(events, Event{Method: "task.due"}) {
		t.Fatal("offer accepted into a full queue")
	}
	if len(events) != 2 {
		t.Fatalf("queue length = %d, want 2", len(events))
	}
}
