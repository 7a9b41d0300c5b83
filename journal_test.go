package phototinder

import (
	"fmt"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalPushPop(t *testing.T) {
	t.Parallel()

	var j Journal[int]
	_, ok := j.Pop()
	assert.False(t, ok, "empty journal has nothing to pop")

	j.Push(1)
	j.Push(2)
	j.Push(3)
	require.Equal(t, 3, j.Len())

	v, ok := j.Pop()
	require.True(t, ok)
	assert.Equal(t, 3, v, "pop is LIFO")
	assert.Equal(t, 2, j.Len())
}

func TestJournalEvictsOldest(t *testing.T) {
	t.Parallel()

	var j Journal[int]
	for i := 1; i <= journalCap+1; i++ {
		j.Push(i)
	}

	require.Equal(t, journalCap, j.Len(), "cap is never exceeded")

	// The 101st push evicted exactly entry 1: popping everything ends
	// at entry 2.
	var last int
	for {
		v, ok := j.Pop()
		if !ok {
			break
		}
		last = v
	}
	assert.Equal(t, 2, last)
}

func TestJournalJSONRoundTrip(t *testing.T) {
	t.Parallel()

	var j Journal[string]
	j.Push("a")
	j.Push("b")

	data, err := json.Marshal(j)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))

	var back Journal[string]
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, 2, back.Len())
	v, _ := back.Pop()
	assert.Equal(t, "b", v)
}

func TestJournalJSONEmpty(t *testing.T) {
	t.Parallel()

	var j Journal[int]
	data, err := json.Marshal(j)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestJournalUnmarshalTrimsOversized(t *testing.T) {
	t.Parallel()

	// A hand-edited document longer than the cap is trimmed to the
	// newest entries on load.
	raw := "["
	for i := 0; i < journalCap+10; i++ {
		if i > 0 {
			raw += ","
		}
		raw += fmt.Sprintf("%d", i)
	}
	raw += "]"

	var j Journal[int]
	require.NoError(t, json.Unmarshal([]byte(raw), &j))
	require.Equal(t, journalCap, j.Len())
	v, _ := j.Pop()
	assert.Equal(t, journalCap+9, v)
}
