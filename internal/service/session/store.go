package session

import (
	"sync"
)

// Store хранит активные движки сессий в памяти.
// Сессии эфемерны: результат завершенной сессии сохраняется
// как попытка, после чего движок удаляется из хранилища.
type Store struct {
	mu      sync.RWMutex
	engines map[string]*Engine
}

// NewStore создает пустое хранилище сессий
func NewStore() *Store {
	return &Store{
		engines: make(map[string]*Engine),
	}
}

// Put регистрирует движок в хранилище
func (s *Store) Put(engine *Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engines[engine.ID()] = engine
}

// Get возвращает движок по идентификатору сессии
func (s *Store) Get(id string) (*Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	engine, ok := s.engines[id]
	return engine, ok
}

// Delete удаляет движок из хранилища
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.engines, id)
}

// Count возвращает число зарегистрированных сессий
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.engines)
}
