package phototinder

import (
	json "github.com/goccy/go-json"
)

// journalCap bounds every undo journal: pushing beyond it evicts the
// oldest entry, pure FIFO.
const journalCap = 100

// Journal is a bounded, invertible operation log. It backs both undo
// paths (comparison records on the ranking side, decision records on
// the triage side) with identical eviction and pop semantics. The
// caller owns the inversion of a popped entry. It serializes as a plain
// JSON array.
type Journal[T any] struct {
	entries []T
}

// Push appends an entry, evicting the oldest once journalCap is
// exceeded.
func (j *Journal[T]) Push(v T) {
	j.entries = append(j.entries, v)
	if len(j.entries) > journalCap {
		j.entries = j.entries[len(j.entries)-journalCap:]
	}
}

// Pop removes and returns the most recent entry. ok is false when the
// journal is empty, a "nothing to undo" condition rather than an error.
func (j *Journal[T]) Pop() (T, bool) {
	var zero T
	if len(j.entries) == 0 {
		return zero, false
	}
	v := j.entries[len(j.entries)-1]
	j.entries = j.entries[:len(j.entries)-1]
	return v, true
}

// Peek returns the most recent entry without removing it.
func (j *Journal[T]) Peek() (T, bool) {
	var zero T
	if len(j.entries) == 0 {
		return zero, false
	}
	return j.entries[len(j.entries)-1], true
}

func (j *Journal[T]) Len() int { return len(j.entries) }

func (j Journal[T]) MarshalJSON() ([]byte, error) {
	if j.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(j.entries)
}

func (j *Journal[T]) UnmarshalJSON(data []byte) error {
	var entries []T
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	if len(entries) > journalCap {
		entries = entries[len(entries)-journalCap:]
	}
	j.entries = entries
	return nil
}
