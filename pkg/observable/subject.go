// Package observable implementa un registro de observadores que conserva el
// último valor confirmado (semántica de replay).
//
// Un suscriptor tardío recibe primero el valor actual y luego cada valor
// publicado, en el mismo orden en que se publicaron. La entrega es síncrona:
// Publish no retorna hasta que todos los suscriptores recibieron el valor.
package observable

import (
	"sync"
	"sync/atomic"
)

type subscriber[T any] struct {
	fn     func(T)
	active atomic.Bool
}

// Subject mantiene el último valor y la lista de suscriptores.
// El valor publicado no debe modificarse después de Publish.
type Subject[T any] struct {
	deliverMu sync.Mutex // serializa Publish y el replay de Subscribe

	valueMu sync.RWMutex
	value   T

	subsMu sync.Mutex
	subs   []*subscriber[T]
	closed bool
}

// New crea un Subject con un valor inicial.
func New[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial}
}

// Value devuelve el último valor confirmado. Se puede llamar desde un suscriptor.
func (s *Subject[T]) Value() T {
	s.valueMu.RLock()
	defer s.valueMu.RUnlock()
	return s.value
}

// Publish confirma v como valor actual y lo entrega a todos los suscriptores.
// Un suscriptor no debe llamar a Publish ni a Subscribe del mismo Subject.
func (s *Subject[T]) Publish(v T) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.valueMu.Lock()
	s.value = v
	s.valueMu.Unlock()

	for _, sub := range s.snapshot() {
		if sub.active.Load() {
			sub.fn(v)
		}
	}
}

// Subscribe registra fn, le entrega el valor actual y devuelve la función para
// desuscribirse. La desuscripción puede hacerse desde dentro de fn.
func (s *Subject[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	sub := &subscriber[T]{fn: fn}
	sub.active.Store(true)

	s.subsMu.Lock()
	if s.closed {
		s.subsMu.Unlock()
		return func() {}
	}
	s.subs = append(s.subs, sub)
	s.subsMu.Unlock()

	fn(s.Value())

	return func() {
		if !sub.active.CompareAndSwap(true, false) {
			return
		}
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		for i, x := range s.subs {
			if x == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				break
			}
		}
	}
}

// Len número de suscriptores activos.
func (s *Subject[T]) Len() int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return len(s.subs)
}

// Close descarta todos los suscriptores; los Publish posteriores solo actualizan el valor.
func (s *Subject[T]) Close() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, sub := range s.subs {
		sub.active.Store(false)
	}
	s.subs = nil
	s.closed = true
}

func (s *Subject[T]) snapshot() []*subscriber[T] {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	out := make([]*subscriber[T], len(s.subs))
	copy(out, s.subs)
	return out
}
