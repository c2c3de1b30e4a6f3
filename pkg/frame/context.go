package frame

import "sync"

// FrameNode is anything the frame graph owns the lifetime of: a
// capture thread, a sink, a SLAM adapter. BreakApart must stop
// producers and drain queues without freeing state (so peer nodes can
// still safely reference it); Destroy then frees state. Both must be
// idempotent.
type FrameNode interface {
	BreakApart()
	Destroy()
}

// FrameContext owns a set of FrameNodes and tears them down
// deterministically in two phases: BreakApart on every node (stopping
// producers, draining queues) followed by Destroy on every node
// (freeing state). This ordering is the contract that lets a sink be
// safely unlinked from its upstream before either side is freed.
type FrameContext struct {
	mu    sync.Mutex
	nodes []FrameNode
}

// NewFrameContext constructs an empty context.
func NewFrameContext() *FrameContext {
	return &FrameContext{}
}

// Add registers a node with the context. Nodes are torn down in
// registration order.
func (c *FrameContext) Add(n FrameNode) {
	c.mu.Lock()
	c.nodes = append(c.nodes, n)
	c.mu.Unlock()
}

// Shutdown calls BreakApart on every registered node, then Destroy on
// every registered node, and clears the node list.
func (c *FrameContext) Shutdown() {
	c.mu.Lock()
	nodes := c.nodes
	c.nodes = nil
	c.mu.Unlock()

	for _, n := range nodes {
		n.BreakApart()
	}
	for _, n := range nodes {
		n.Destroy()
	}
}

// Len reports the number of nodes currently registered.
func (c *FrameContext) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

// queueSinkNode adapts *QueueSink to FrameNode so it can be registered
// with a FrameContext.
type queueSinkNode struct {
	sink *QueueSink
}

// AsNode wraps q so it can be registered with a FrameContext: BreakApart
// stops the worker goroutine (draining pending frames first); Destroy
// is a no-op since QueueSink holds no further resources.
func (q *QueueSink) AsNode() FrameNode {
	return &queueSinkNode{sink: q}
}

func (n *queueSinkNode) BreakApart() { n.sink.Close() }
func (n *queueSinkNode) Destroy()    {}
