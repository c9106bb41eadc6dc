package whitelist

import "sync/atomic"

// Store publishes the current RuleSet. Readers never take a lock and always see
// one complete generation.
type Store struct {
	current    atomic.Pointer[RuleSet]
	generation atomic.Uint64
}

func NewStore() *Store {
	s := &Store{}
	s.current.Store(NewRuleSet(0, nil))
	return s
}

func (s *Store) Current() *RuleSet {
	return s.current.Load()
}

// Replace compiles raws into the next generation and publishes it.
func (s *Store) Replace(raws []string) *RuleSet {
	next := NewRuleSet(s.generation.Add(1), raws)
	s.current.Store(next)
	return next
}

func (s *Store) Decide(hostname string) bool {
	return s.current.Load().Decide(hostname)
}
