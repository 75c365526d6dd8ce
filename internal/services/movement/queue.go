package movement

import (
	"sync"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
)

// queueKey identifies one player's pending transformation in one farm
type queueKey struct {
	farmID   model.FarmID
	playerID model.PlayerID
}

// Entry is one drained write-behind entry
type Entry struct {
	FarmID         model.FarmID
	PlayerID       model.PlayerID
	Transformation model.Transformation
}

// Queue is the write-behind buffer for transformation updates. It holds
// at most one entry per (farm, player): later writes overwrite earlier
// ones, so a drain always yields the most recent value per key.
// Constructed once at startup and shared by the update path and the
// flusher.
type Queue struct {
	mu      sync.Mutex
	pending map[queueKey]model.Transformation
}

// NewQueue creates an empty Queue
func NewQueue() *Queue {
	return &Queue{
		pending: make(map[queueKey]model.Transformation),
	}
}

// Put records the latest transformation for a (farm, player) key,
// overwriting any unflushed prior value
func (q *Queue) Put(farmID model.FarmID, playerID model.PlayerID, t model.Transformation) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[queueKey{farmID: farmID, playerID: playerID}] = t
}

// Drain atomically swaps the pending buffer for an empty one and
// returns its contents. Writes arriving during a flush land in the
// next batch rather than racing the current one.
func (q *Queue) Drain() []Entry {
	q.mu.Lock()
	pending := q.pending
	q.pending = make(map[queueKey]model.Transformation)
	q.mu.Unlock()

	entries := make([]Entry, 0, len(pending))
	for key, t := range pending {
		entries = append(entries, Entry{
			FarmID:         key.farmID,
			PlayerID:       key.playerID,
			Transformation: t,
		})
	}
	return entries
}

// Requeue puts drained entries back for the next flush. A key that
// received a fresh Put since the drain keeps the newer value; the
// requeued one is stale by definition and is dropped.
func (q *Queue) Requeue(entries []Entry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, entry := range entries {
		key := queueKey{farmID: entry.FarmID, playerID: entry.PlayerID}
		if _, ok := q.pending[key]; !ok {
			q.pending[key] = entry.Transformation
		}
	}
}

// Len returns the number of pending entries
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
