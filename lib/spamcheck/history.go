package spamcheck

import (
	"container/ring"
	"sync"
)

// maxHistoryMsgLen limits the size of a kept message
const maxHistoryMsgLen = 1024

// LastRequests keeps track of last N requests, thread-safe.
type LastRequests struct {
	requests *ring.Ring
	size     int
	lock     sync.RWMutex
}

// NewLastRequests creates new requests tracker
func NewLastRequests(size int) *LastRequests {
	if size < 1 {
		size = 1
	}
	return &LastRequests{requests: ring.New(size), size: size}
}

// Push adds new request to the history, long messages are truncated
func (h *LastRequests) Push(req Request) {
	if len(req.Msg) > maxHistoryMsgLen {
		req.Msg = req.Msg[:maxHistoryMsgLen]
	}

	h.lock.Lock()
	defer h.lock.Unlock()
	h.requests.Value = req
	h.requests = h.requests.Next()
}

// Last returns up to n most recent requests in chronological order (oldest to newest)
func (h *LastRequests) Last(n int) []Request {
	if n < 1 {
		return []Request{}
	}

	h.lock.RLock()
	defer h.lock.RUnlock()

	all := make([]Request, 0, h.size)
	// the current element is the oldest slot, so Do walks from the oldest to the newest
	h.requests.Do(func(v any) {
		if req, ok := v.(Request); ok {
			all = append(all, req)
		}
	})

	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// Size returns the size of request history
func (h *LastRequests) Size() int {
	return h.size
}
