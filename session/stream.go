package session

import "sync"

// userStream is the "current value + change stream" holder behind
// Manager.Subscribe: a mutable value plus a registry of subscriber
// callbacks. New subscribers immediately receive the current value; every
// write notifies all subscribers in subscription order. Callbacks run
// synchronously on the writing goroutine and must not re-enter the Manager.
type userStream struct {
	mu     sync.Mutex
	value  *User
	nextID int
	order  []int
	subs   map[int]func(*User)
}

func newUserStream() *userStream {
	return &userStream{subs: make(map[int]func(*User))}
}

func (s *userStream) get() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *userStream) set(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = u
	for _, id := range s.order {
		s.subs[id](u)
	}
}

func (s *userStream) subscribe(fn func(*User)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)
	current := s.value
	s.mu.Unlock()

	// Immediate replay of the current value, outside the registry lock.
	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; !ok {
			return
		}
		delete(s.subs, id)
		for i, subID := range s.order {
			if subID == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}
