package translate

import "testing"

func TestEnqueueRejectsEmptyAndDuplicates(t *testing.T) {
	q := NewQueue()
	if q.Enqueue("", "text") {
		t.Error("empty id must be rejected")
	}
	if q.Enqueue("a", "") {
		t.Error("empty text must be rejected")
	}
	if !q.Enqueue("a", "hello") {
		t.Error("first enqueue must succeed")
	}
	if q.Enqueue("a", "hello") {
		t.Error("duplicate pending enqueue must be rejected")
	}
}

func TestTakePreservesInsertionOrder(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a", "one")
	q.Enqueue("b", "two")
	q.Enqueue("c", "three")

	batch := q.Take(2)
	if len(batch) != 2 || batch[0].ID != "a" || batch[1].ID != "b" {
		t.Fatalf("unexpected batch: %+v", batch)
	}
	if q.PendingLen() != 1 || q.InflightLen() != 2 {
		t.Fatalf("pending=%d inflight=%d", q.PendingLen(), q.InflightLen())
	}

	// Inflight ids are never handed out again.
	second := q.Take(10)
	if len(second) != 1 || second[0].ID != "c" {
		t.Fatalf("unexpected second batch: %+v", second)
	}
	if more := q.Take(10); more != nil {
		t.Fatalf("expected empty take, got %+v", more)
	}
}

func TestSetsAreDisjointThroughLifecycle(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a", "one")
	q.Take(1)
	q.MarkTranslated("a")

	if q.InflightLen() != 0 || q.PendingLen() != 0 {
		t.Fatal("translated id must leave pending and inflight")
	}
	if !q.HasTranslated("a") {
		t.Fatal("id must be translated")
	}
	// Terminal: enqueue always refuses afterwards.
	if q.Enqueue("a", "one") {
		t.Fatal("translated id must never re-enter the queue")
	}
}

func TestMarkTranslatedIdempotent(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a", "one")
	q.Take(1)
	q.MarkTranslated("a")
	q.MarkTranslated("a")
	if !q.HasTranslated("a") {
		t.Fatal("id must remain translated")
	}
}

func TestClearInflightReleasesForReenqueue(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a", "one")
	q.Take(1)
	q.ClearInflight("a")

	if q.InflightLen() != 0 {
		t.Fatal("inflight must be cleared")
	}
	if !q.Enqueue("a", "one") {
		t.Fatal("released id must be re-enqueueable")
	}
}

func TestRequeueReturnsFailedBatch(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a", "one")
	q.Enqueue("b", "two")
	batch := q.Take(2)

	q.Requeue(batch)
	if q.InflightLen() != 0 || q.PendingLen() != 2 {
		t.Fatalf("pending=%d inflight=%d after requeue", q.PendingLen(), q.InflightLen())
	}

	again := q.Take(2)
	if len(again) != 2 || again[0].ID != "a" {
		t.Fatalf("requeue lost order: %+v", again)
	}
}

func TestRequeueSkipsTranslated(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a", "one")
	batch := q.Take(1)
	q.MarkTranslated("a")

	q.Requeue(batch)
	if q.HasPending() {
		t.Fatal("translated id must not be requeued")
	}
}

func TestRoundTripBatchingProperty(t *testing.T) {
	// Every id enqueued and successfully marked appears exactly once in the
	// output of Take before being marked.
	q := NewQueue()
	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		q.Enqueue(id, "text "+id)
	}

	seen := map[string]int{}
	for q.HasPending() {
		batch := q.Take(2)
		for _, item := range batch {
			seen[item.ID]++
			q.MarkTranslated(item.ID)
		}
	}
	for _, id := range ids {
		if seen[id] != 1 {
			t.Errorf("id %q taken %d times, want exactly once", id, seen[id])
		}
	}
}

func TestReset(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a", "one")
	q.Take(1)
	q.MarkTranslated("a")
	q.Reset()

	if q.HasTranslated("a") {
		t.Fatal("reset must clear the translated set")
	}
	if !q.Enqueue("a", "one") {
		t.Fatal("enqueue must succeed after reset")
	}
}
