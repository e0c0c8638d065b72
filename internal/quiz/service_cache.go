package quiz

// Cache-specific helpers are isolated here so service.go can focus on orchestration.

func (s *Service) cacheGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Service) getCachedQuiz(id int64) (Quiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.quizCache[id]
	return item, ok
}

// setCachedQuiz keeps item only if no save happened since gen was read.
func (s *Service) setCachedQuiz(item Quiz, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	s.quizCache[item.ID] = item
}

func (s *Service) getCachedList() ([]Quiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.listValid {
		return nil, false
	}
	// Callers treat the list as read-only.
	return s.listCache, true
}

func (s *Service) setCachedList(items []Quiz, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	s.listCache = items
	s.listValid = true
}

// storeSaved drops everything a save of item can make stale and caches the
// saved quiz itself. The listing is rebuilt from the store on the next read.
func (s *Service) storeSaved(item Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.quizCache[item.ID] = item
	s.listCache = nil
	s.listValid = false
}
