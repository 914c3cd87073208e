package tracking

// listeners is an ordered set of change callbacks.
type listeners struct {
	next int
	subs []listener
}

type listener struct {
	id int
	fn func()
}

// add registers fn and returns a func that removes it. Removing twice is a no-op.
func (l *listeners) add(fn func()) func() {
	l.next++
	id := l.next
	l.subs = append(l.subs, listener{id: id, fn: fn})
	return func() {
		for i, s := range l.subs {
			if s.id == id {
				l.subs = append(l.subs[:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners) notify() {
	// Copy so a callback may unsubscribe itself.
	subs := append([]listener(nil), l.subs...)
	for _, s := range subs {
		s.fn()
	}
}
