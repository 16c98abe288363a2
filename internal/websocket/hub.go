package websocket

import (
	"sync"

	"proctoflex-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Hub is the subscription registry: it owns the three scope maps that route
// alerts to live connections. All mutation goes through Register,
// SubscribeExam, SubscribeSession and Unregister; Unregister is the single
// teardown path and scrubs a client from every map it appears in, so a
// client absent from the user map can never linger in a scope set.
//
// One coarse lock guards all three maps. Deliveries take the read lock for
// the whole fan-out, which gives each delivery a consistent snapshot; sends
// are non-blocking channel writes, so holding the lock across them is cheap.
type Hub struct {
	mu sync.RWMutex

	// userID -> live connections (multi-device)
	clients map[uuid.UUID][]*Client
	// examID -> subscribed connections
	examSubs map[uint]map[*Client]struct{}
	// sessionID -> subscribed connections
	sessionSubs map[uint]map[*Client]struct{}

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients:     make(map[uuid.UUID][]*Client),
		examSubs:    make(map[uint]map[*Client]struct{}),
		sessionSubs: make(map[uint]map[*Client]struct{}),
		logger:      log,
	}
}

// Register adds the client under its user. Registering the same client
// twice is a no-op.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, existing := range h.clients[c.UserID] {
		if existing == c {
			return
		}
	}
	h.clients[c.UserID] = append(h.clients[c.UserID], c)
	h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": c.UserID, "role": c.Role})
}

// Unregister removes the client from the user map and from every exam and
// session set it subscribed to, then closes its send channel. Calling it
// again for the same client is a no-op: teardown happens exactly once no
// matter how the connection died.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[c.UserID]
	found := false
	for i, existing := range conns {
		if existing == c {
			h.clients[c.UserID] = append(conns[:i], conns[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return
	}
	if len(h.clients[c.UserID]) == 0 {
		delete(h.clients, c.UserID)
	}

	for examID, set := range h.examSubs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.examSubs, examID)
		}
	}
	for sessionID, set := range h.sessionSubs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.sessionSubs, sessionID)
		}
	}

	close(c.Send)
	h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"user_id": c.UserID})
}

// SubscribeExam adds the client to an exam scope. Unknown exam ids are
// accepted: the scope simply becomes live once matching alerts appear.
func (h *Hub) SubscribeExam(c *Client, examID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.registered(c) {
		return
	}
	if h.examSubs[examID] == nil {
		h.examSubs[examID] = make(map[*Client]struct{})
	}
	h.examSubs[examID][c] = struct{}{}
}

// SubscribeSession adds the client to a session scope; re-subscribing is a
// no-op.
func (h *Hub) SubscribeSession(c *Client, sessionID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.registered(c) {
		return
	}
	if h.sessionSubs[sessionID] == nil {
		h.sessionSubs[sessionID] = make(map[*Client]struct{})
	}
	h.sessionSubs[sessionID][c] = struct{}{}
}

// push sends one frame to a single client, dropping it if the buffer is
// full. Unregister closes Send under the write lock, so checking
// registration under the read lock orders the send before any close: a
// reply racing a purge lands on a still-open channel or not at all.
func (h *Hub) push(c *Client, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.registered(c) {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// registered must be called with the lock held.
func (h *Hub) registered(c *Client) bool {
	for _, existing := range h.clients[c.UserID] {
		if existing == c {
			return true
		}
	}
	return false
}

// AlertTarget names the scopes one alert fans out to. Nil fields mean the
// scope could not be resolved and is skipped.
type AlertTarget struct {
	SessionID *uint
	ExamID    *uint
	StudentID *uuid.UUID
}

// DeliverAlert pushes the payload to every connection entitled to it: the
// session's subscribers, the exam's subscribers, the student's own
// connections, and every connected admin or instructor, each at most once.
// Sends are best effort and independent per connection; a connection whose
// buffer is full is treated as dead and purged without disturbing the rest.
// Returns how many connections accepted the payload.
func (h *Hub) DeliverAlert(target AlertTarget, payload []byte) int {
	h.mu.RLock()

	recipients := make(map[*Client]struct{})
	if target.SessionID != nil {
		for c := range h.sessionSubs[*target.SessionID] {
			recipients[c] = struct{}{}
		}
	}
	if target.ExamID != nil {
		for c := range h.examSubs[*target.ExamID] {
			recipients[c] = struct{}{}
		}
	}
	if target.StudentID != nil {
		for _, c := range h.clients[*target.StudentID] {
			recipients[c] = struct{}{}
		}
	}
	// Admins and instructors see everything, subscription or not.
	for _, conns := range h.clients {
		for _, c := range conns {
			if c.Role.Observer() {
				recipients[c] = struct{}{}
			}
		}
	}

	delivered := 0
	var dead []*Client
	for c := range recipients {
		select {
		case c.Send <- payload:
			delivered++
		default:
			dead = append(dead, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range dead {
		h.logger.Warn("Hub", "Send buffer full, dropping client", map[string]interface{}{"user_id": c.UserID})
		h.Unregister(c)
	}

	return delivered
}

// ConnectionCount reports live connections, for the dashboard.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}
