package frame

import "sync"

// QueueSink hands frames to a worker goroutine via a bounded queue.
// When Capacity is reached, PushFrame drops the oldest queued frame
// (releasing its reference) to make room. Capacity 0 means unbounded.
type QueueSink struct {
	Downstream FrameSink
	Capacity   int

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*Frame
	closed bool
	done   chan struct{}
}

// NewQueueSink starts the worker goroutine that drains queued frames
// into downstream.
func NewQueueSink(downstream FrameSink, capacity int) *QueueSink {
	q := &QueueSink{
		Downstream: downstream,
		Capacity:   capacity,
		done:       make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// run is the worker loop: it blocks on the condition variable until a
// push path signals a pending frame, hands it downstream outside the
// lock, and exits once Close has been called and the queue is drained.
func (q *QueueSink) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.queue) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.queue) == 0 {
			q.mu.Unlock()
			return
		}
		f := q.queue[0]
		q.queue = q.queue[1:]
		q.mu.Unlock()

		_ = q.Downstream.PushFrame(f)
		f.Release()
	}
}

// PushFrame enqueues f (taking a reference). If the bounded queue is
// full, the oldest pending frame is dropped (its reference released)
// to make room for the new one. Frames pushed after Close are dropped.
func (q *QueueSink) PushFrame(f *Frame) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	if q.Capacity > 0 && len(q.queue) >= q.Capacity {
		dropped := q.queue[0]
		q.queue = q.queue[1:]
		dropped.Release()
	}
	q.queue = append(q.queue, f.Ref())
	q.cond.Signal()
	q.mu.Unlock()
	return nil
}

// Close stops the worker goroutine after it drains pending frames, and
// waits for it to exit. Idempotent.
func (q *QueueSink) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.cond.Signal()
	}
	q.mu.Unlock()
	<-q.done
}

// SplitSink tees a frame to two downstream sinks, each getting its own
// reference.
type SplitSink struct {
	A, B FrameSink
}

func NewSplitSink(a, b FrameSink) *SplitSink {
	return &SplitSink{A: a, B: b}
}

func (s *SplitSink) PushFrame(f *Frame) error {
	a := f.Ref()
	errA := s.A.PushFrame(a)
	a.Release()
	b := f.Ref()
	errB := s.B.PushFrame(b)
	b.Release()
	if errA != nil {
		return errA
	}
	return errB
}

// CloneSink deep-copies each frame before handing the copy downstream,
// so the upstream producer's buffer can be released promptly.
type CloneSink struct {
	Downstream FrameSink
}

func NewCloneSink(downstream FrameSink) *CloneSink {
	return &CloneSink{Downstream: downstream}
}

func (c *CloneSink) PushFrame(f *Frame) error {
	clone := f.Clone()
	err := c.Downstream.PushFrame(clone)
	clone.Release()
	return err
}

// ForceMonotonicSink rewrites incoming frame timestamps that go
// backwards to the last-seen timestamp (max-with-last-seen), so
// downstream consumers never observe a timestamp regression.
type ForceMonotonicSink struct {
	Downstream FrameSink

	mu       sync.Mutex
	lastSeen int64
}

func NewForceMonotonicSink(downstream FrameSink) *ForceMonotonicSink {
	return &ForceMonotonicSink{Downstream: downstream}
}

func (m *ForceMonotonicSink) PushFrame(f *Frame) error {
	m.mu.Lock()
	ts := f.TimestampNs
	if ts < m.lastSeen {
		ts = m.lastSeen
	}
	m.lastSeen = ts
	m.mu.Unlock()

	if ts == f.TimestampNs {
		return m.Downstream.PushFrame(f)
	}
	// Rewriting the timestamp mutates shared frame state, so operate on
	// a private shallow copy instead of the caller's Frame.
	rewritten := *f
	rewritten.TimestampNs = ts
	return m.Downstream.PushFrame(&rewritten)
}

// StereoPairSink routes a stereo camera pair to per-eye downstream
// sinks while enforcing left-then-right arrival order for each pair: a
// right frame whose timestamp was not announced by the preceding left
// frame belongs to a violated pair and is dropped.
type StereoPairSink struct {
	Left, Right FrameSink

	mu            sync.Mutex
	pendingLeftTs int64
}

func NewStereoPairSink(left, right FrameSink) *StereoPairSink {
	return &StereoPairSink{Left: left, Right: right}
}

// LeftSink returns the left-eye FrameSink view.
func (s *StereoPairSink) LeftSink() FrameSink { return stereoEye{s, true} }

// RightSink returns the right-eye FrameSink view.
func (s *StereoPairSink) RightSink() FrameSink { return stereoEye{s, false} }

type stereoEye struct {
	pair *StereoPairSink
	left bool
}

func (e stereoEye) PushFrame(f *Frame) error {
	return e.pair.push(f, e.left)
}

func (s *StereoPairSink) push(f *Frame, left bool) error {
	s.mu.Lock()
	if left {
		s.pendingLeftTs = f.TimestampNs
		s.mu.Unlock()
		return s.Left.PushFrame(f)
	}
	if f.TimestampNs != s.pendingLeftTs {
		s.mu.Unlock()
		Logger.Debug().Int64("ts", f.TimestampNs).Msg("frame: dropping out-of-order stereo pair")
		return nil
	}
	s.pendingLeftTs = 0
	s.mu.Unlock()
	return s.Right.PushFrame(f)
}
