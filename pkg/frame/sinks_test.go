package frame

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu        sync.Mutex
	frames    []*Frame
	refcounts []int32
}

func (s *recordingSink) PushFrame(f *Frame) error {
	s.mu.Lock()
	s.frames = append(s.frames, f)
	s.refcounts = append(s.refcounts, f.RefCount())
	s.mu.Unlock()
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func TestQueueSinkDrainsInOrder(t *testing.T) {
	rec := &recordingSink{}
	q := NewQueueSink(rec, 4)

	for i := 0; i < 3; i++ {
		f := New([]byte{byte(i)}, 1, 1, 1, FormatGray8, int64(i), nil)
		require.NoError(t, q.PushFrame(f))
		f.Release()
	}
	q.Close()
	require.Equal(t, 3, rec.count())
}

func TestQueueSinkDropsOldestWhenFull(t *testing.T) {
	blocker := make(chan struct{})
	blockingSink := funcSink(func(f *Frame) error {
		<-blocker
		return nil
	})
	q := NewQueueSink(blockingSink, 1)

	f0 := New([]byte{0}, 1, 1, 1, FormatGray8, 0, nil)
	require.NoError(t, q.PushFrame(f0))
	f0.Release()

	// Give the worker a moment to pick up f0 so the queue is genuinely
	// occupied by subsequent pushes.
	time.Sleep(10 * time.Millisecond)

	var droppedFired bool
	f1 := New([]byte{1}, 1, 1, 1, FormatGray8, 1, func() { droppedFired = true })
	f2 := New([]byte{2}, 1, 1, 1, FormatGray8, 2, nil)
	require.NoError(t, q.PushFrame(f1))
	f1.Release()
	require.NoError(t, q.PushFrame(f2))
	f2.Release()

	close(blocker)
	q.Close()
	require.True(t, droppedFired, "the oldest queued frame must be released when evicted")
}

type funcSink func(f *Frame) error

func (fn funcSink) PushFrame(f *Frame) error { return fn(f) }

func TestSplitSinkTeesToBoth(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	split := NewSplitSink(a, b)

	f := New([]byte{1}, 1, 1, 1, FormatGray8, 0, nil)
	require.NoError(t, split.PushFrame(f))
	require.Equal(t, 1, a.count())
	require.Equal(t, 1, b.count())
	require.EqualValues(t, 1, f.RefCount())
}

func TestCloneSinkCopiesData(t *testing.T) {
	rec := &recordingSink{}
	clone := NewCloneSink(rec)

	f := New([]byte{1, 2, 3}, 1, 1, 3, FormatGray8, 0, nil)
	require.NoError(t, clone.PushFrame(f))
	require.Equal(t, 1, rec.count())
	require.NotSame(t, &f.Data[0], &rec.frames[0].Data[0])
}

func TestForceMonotonicSinkClampsBackwardsTimestamps(t *testing.T) {
	rec := &recordingSink{}
	mono := NewForceMonotonicSink(rec)

	f1 := New(nil, 1, 1, 1, FormatGray8, 100, nil)
	require.NoError(t, mono.PushFrame(f1))

	f2 := New(nil, 1, 1, 1, FormatGray8, 50, nil)
	require.NoError(t, mono.PushFrame(f2))

	require.Equal(t, int64(100), rec.frames[0].TimestampNs)
	require.Equal(t, int64(100), rec.frames[1].TimestampNs)
	require.Equal(t, int64(50), f2.TimestampNs, "original frame must not be mutated")
}

func TestStereoPairSinkForwardsOrderedPair(t *testing.T) {
	left := &recordingSink{}
	right := &recordingSink{}
	pair := NewStereoPairSink(left, right)

	l := New(nil, 1, 1, 1, FormatGray8, 100, nil)
	r := New(nil, 1, 1, 1, FormatGray8, 100, nil)
	require.NoError(t, pair.LeftSink().PushFrame(l))
	require.NoError(t, pair.RightSink().PushFrame(r))

	require.Equal(t, 1, left.count())
	require.Equal(t, 1, right.count())
}

func TestStereoPairSinkDropsRightWithoutMatchingLeft(t *testing.T) {
	left := &recordingSink{}
	right := &recordingSink{}
	pair := NewStereoPairSink(left, right)

	// Right frame arrives first: its pair violated the left-then-right
	// order and must be dropped.
	r := New(nil, 1, 1, 1, FormatGray8, 100, nil)
	require.NoError(t, pair.RightSink().PushFrame(r))
	require.Equal(t, 0, right.count())

	// A right frame whose timestamp mismatches the pending left is a
	// different pair and is dropped too.
	l := New(nil, 1, 1, 1, FormatGray8, 200, nil)
	require.NoError(t, pair.LeftSink().PushFrame(l))
	stale := New(nil, 1, 1, 1, FormatGray8, 150, nil)
	require.NoError(t, pair.RightSink().PushFrame(stale))
	require.Equal(t, 1, left.count())
	require.Equal(t, 0, right.count())
}
