package filecontext

import "sync"

// FileContext is one precomputed destination assignment: the target directory
// path inside the store and the base file name to use there. It is produced by
// the upload orchestrator, consumed at most once by the storage provider, and
// never persisted.
type FileContext struct {
	TargetPath string
	BaseName   string
}

// Scope is a per-request FIFO of FileContext entries. The orchestrator
// allocates one Scope per logical request and threads it explicitly to the
// storage provider; concurrent requests each hold their own Scope, so there is
// no cross-request queue to contend on. The internal mutex only guards a
// provider draining the scope from a different goroutine than the one that
// filled it.
//
// A nil *Scope is valid and behaves as permanently empty, covering direct
// provider use outside the orchestrated flow.
type Scope struct {
	mu      sync.Mutex
	entries []FileContext
}

// NewScope returns an empty scope for one logical request.
func NewScope() *Scope {
	return &Scope{}
}

// Establish appends entries in the exact order files will be handed to the
// storage provider.
func (s *Scope) Establish(entries ...FileContext) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
}

// Next dequeues the oldest entry. ok is false when the scope is empty; the
// provider then falls back to its own default naming. That degradation is
// deliberate, not an error: more files than established contexts simply means
// the excess files get default names.
func (s *Scope) Next() (FileContext, bool) {
	if s == nil {
		return FileContext{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return FileContext{}, false
	}
	entry := s.entries[0]
	s.entries = s.entries[1:]
	return entry, true
}

// Len reports how many entries remain queued.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
