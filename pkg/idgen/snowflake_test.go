package idgen

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake_NextID(t *testing.T) {
	sf, err := NewSnowflake(1)
	require.NoError(t, err)

	id1, err := sf.NextID()
	require.NoError(t, err)
	assert.True(t, id1.IsValid())

	id2, err := sf.NextID()
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	// 唯一且递增
	seen := make(map[ID]bool)
	prev := id2
	for i := 0; i < 10000; i++ {
		id, err := sf.NextID()
		require.NoError(t, err)
		assert.False(t, seen[id], "ID should be unique")
		assert.Greater(t, id, prev)
		seen[id] = true
		prev = id
	}
}

func TestSnowflake_InvalidNodeID(t *testing.T) {
	_, err := NewSnowflake(-1)
	assert.ErrorIs(t, err, ErrInvalidNodeID)

	_, err = NewSnowflake(MaxNodeID + 1)
	assert.ErrorIs(t, err, ErrInvalidNodeID)

	_, err = NewSnowflake(MaxNodeID)
	assert.NoError(t, err)
}

func TestSnowflake_Concurrent(t *testing.T) {
	sf, err := NewSnowflake(3)
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seen = make(map[ID]bool)
		wg   sync.WaitGroup
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				id, err := sf.NextID()
				assert.NoError(t, err)
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 8000)
}

func TestSnowflake_SequenceOverflow(t *testing.T) {
	sf, err := NewSnowflake(0)
	require.NoError(t, err)

	ms := Epoch + 1000
	calls := 0
	sf.now = func() int64 {
		calls++
		// 前 4096 个ID之后时钟才前进
		if calls > MaxSequence+2 {
			return ms + 1
		}
		return ms
	}

	var last ID
	for i := 0; i <= MaxSequence+1; i++ {
		last, err = sf.NextID()
		require.NoError(t, err)
	}

	ts, _, seq := Parse(last)
	assert.Equal(t, ms+1, ts.UnixMilli())
	assert.Equal(t, int64(0), seq)
}

func TestSnowflake_ClockBackward(t *testing.T) {
	sf, err := NewSnowflake(0)
	require.NoError(t, err)

	ms := Epoch + 1000
	sf.now = func() int64 { return ms }
	_, err = sf.NextID()
	require.NoError(t, err)

	ms -= maxClockBackwardTolerance + 1
	_, err = sf.NextID()
	assert.ErrorIs(t, err, ErrClockMovedBackwards)
}

func TestSnowflake_BeforeEpoch(t *testing.T) {
	sf, err := NewSnowflake(0)
	require.NoError(t, err)
	sf.now = func() int64 { return Epoch - 1 }

	_, err = sf.NextID()
	assert.ErrorIs(t, err, ErrTimestampOverflow)
}

func TestParse(t *testing.T) {
	sf, err := NewSnowflake(42)
	require.NoError(t, err)

	before := time.Now().Add(-time.Second)
	id, err := sf.NextID()
	require.NoError(t, err)

	ts, node, seq := Parse(id)
	assert.Equal(t, int64(42), node)
	assert.GreaterOrEqual(t, seq, int64(0))
	assert.True(t, ts.After(before))
	assert.Equal(t, ts, id.Time())
}

func TestID_JSON(t *testing.T) {
	id := ID(1234567890123456789)

	raw, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"1234567890123456789"`, string(raw))

	var fromString, fromNumber ID
	require.NoError(t, json.Unmarshal(raw, &fromString))
	require.NoError(t, json.Unmarshal([]byte("42"), &fromNumber))
	assert.Equal(t, id, fromString)
	assert.Equal(t, ID(42), fromNumber)

	assert.Error(t, json.Unmarshal([]byte(`"-1"`), &fromString))
	assert.Error(t, json.Unmarshal([]byte(`true`), &fromString))
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 99 ")
	require.NoError(t, err)
	assert.Equal(t, ID(99), id)
	assert.Equal(t, "99", id.String())

	for _, s := range []string{"", "abc", "-5"} {
		_, err := ParseID(s)
		assert.Error(t, err, s)
	}
}
