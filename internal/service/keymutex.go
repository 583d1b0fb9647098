package service

import "sync"

// KeyMutex hands out one mutex per string key, giving narrow critical
// sections (e.g. solve-count crediting per user+problem) without a
// global lock. Mutexes are kept for the process lifetime; the key space
// is bounded by active user/problem pairs.
type KeyMutex struct {
	mutexes sync.Map
}

func (km *KeyMutex) Lock(key string) {
	m, _ := km.mutexes.LoadOrStore(key, &sync.Mutex{})
	m.(*sync.Mutex).Lock()
}

func (km *KeyMutex) Unlock(key string) {
	m, ok := km.mutexes.Load(key)
	if !ok {
		panic("unlock of unknown key: " + key)
	}
	m.(*sync.Mutex).Unlock()
}
