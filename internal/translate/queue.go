package translate

// Item is one unit of translatable text identified by its cue id.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Queue tracks which cue ids await translation, are claimed by an outstanding
// request, or are done. The three sets are always disjoint; translated only
// grows until Reset.
type Queue struct {
	pending    []Item
	pendingSet map[string]struct{}
	inflight   map[string]Item
	translated map[string]struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.Reset()
	return q
}

// Enqueue adds a cue for translation. Returns false when the id or text is
// empty, the id has already been translated, or it is already queued.
func (q *Queue) Enqueue(id, text string) bool {
	if id == "" || text == "" {
		return false
	}
	if _, ok := q.translated[id]; ok {
		return false
	}
	if _, ok := q.pendingSet[id]; ok {
		return false
	}
	if _, ok := q.inflight[id]; ok {
		return false
	}
	q.pending = append(q.pending, Item{ID: id, Text: text})
	q.pendingSet[id] = struct{}{}
	return true
}

// Take claims up to maxItems pending items, moving them to inflight in
// insertion order. An id is never returned twice before it is released.
func (q *Queue) Take(maxItems int) []Item {
	if maxItems <= 0 || len(q.pending) == 0 {
		return nil
	}
	n := maxItems
	if n > len(q.pending) {
		n = len(q.pending)
	}
	batch := make([]Item, n)
	copy(batch, q.pending[:n])
	q.pending = append(q.pending[:0], q.pending[n:]...)
	for _, item := range batch {
		delete(q.pendingSet, item.ID)
		q.inflight[item.ID] = item
	}
	return batch
}

// MarkTranslated moves ids to the terminal translated set. Idempotent;
// unknown ids are accepted so late results never error.
func (q *Queue) MarkTranslated(ids ...string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		delete(q.inflight, id)
		if _, ok := q.pendingSet[id]; ok {
			q.removePending(id)
		}
		q.translated[id] = struct{}{}
	}
}

// ClearInflight releases claimed ids without translating them; a released id
// may be enqueued again.
func (q *Queue) ClearInflight(ids ...string) {
	for _, id := range ids {
		delete(q.inflight, id)
	}
}

// Requeue returns failed items to pending, preserving the given order.
// Items already translated are skipped.
func (q *Queue) Requeue(items []Item) {
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if _, ok := q.translated[item.ID]; ok {
			delete(q.inflight, item.ID)
			continue
		}
		delete(q.inflight, item.ID)
		if _, ok := q.pendingSet[item.ID]; ok {
			continue
		}
		q.pending = append(q.pending, item)
		q.pendingSet[item.ID] = struct{}{}
	}
}

// HasPending reports whether any item awaits a Take.
func (q *Queue) HasPending() bool {
	return len(q.pending) > 0
}

// HasTranslated reports whether the id has reached the terminal set.
func (q *Queue) HasTranslated(id string) bool {
	_, ok := q.translated[id]
	return ok
}

// PendingLen returns the number of pending items.
func (q *Queue) PendingLen() int {
	return len(q.pending)
}

// InflightLen returns the number of claimed items.
func (q *Queue) InflightLen() int {
	return len(q.inflight)
}

// Reset clears all three sets, including translated.
func (q *Queue) Reset() {
	q.pending = nil
	q.pendingSet = make(map[string]struct{})
	q.inflight = make(map[string]Item)
	q.translated = make(map[string]struct{})
}

func (q *Queue) removePending(id string) {
	delete(q.pendingSet, id)
	for i, item := range q.pending {
		if item.ID == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}
