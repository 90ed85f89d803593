package users

import (
	"sync"
	"time"
)

// StatusChange is published whenever the webhook path writes a profile's
// subscription fields, so open sessions can react without polling.
type StatusChange struct {
	UID               uint       `json:"uid"`
	StatusAssinatura  string     `json:"statusAssinatura"`
	ProximoVencimento *time.Time `json:"proximoVencimento,omitempty"`
}

// StatusNotifier is a per-uid subscription registry. Subscribers get a
// buffered channel; a slow consumer drops updates instead of blocking the
// webhook path.
type StatusNotifier struct {
	mu   sync.RWMutex
	subs map[uint]map[chan StatusChange]struct{}
}

// Notifier is the process-wide registry wired between the webhook handler
// and the session stream endpoint.
var Notifier = NewStatusNotifier()

func NewStatusNotifier() *StatusNotifier {
	return &StatusNotifier{subs: make(map[uint]map[chan StatusChange]struct{})}
}

// Subscribe registers a listener for one uid. The returned cancel func must
// be called on session end; it closes the channel.
func (n *StatusNotifier) Subscribe(uid uint) (<-chan StatusChange, func()) {
	ch := make(chan StatusChange, 8)

	n.mu.Lock()
	if n.subs[uid] == nil {
		n.subs[uid] = make(map[chan StatusChange]struct{})
	}
	n.subs[uid][ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if set, ok := n.subs[uid]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(n.subs, uid)
			}
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

func (n *StatusNotifier) Publish(change StatusChange) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.subs[change.UID] {
		select {
		case ch <- change:
		default:
		}
	}
}
