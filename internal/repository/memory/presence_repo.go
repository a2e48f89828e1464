package memory

import (
	"sync"

	"github.com/cribwatch/relay/internal/domain"
)

// PresenceRepository maps live connection ids to their role and room.
type PresenceRepository struct {
	bindings map[string]domain.Binding
	mu       sync.RWMutex
}

func NewPresenceRepository() *PresenceRepository {
	return &PresenceRepository{
		bindings: make(map[string]domain.Binding),
	}
}

func (r *PresenceRepository) Bind(binding domain.Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bindings[binding.ConnectionID]; ok {
		return domain.ErrAlreadyBound
	}
	r.bindings[binding.ConnectionID] = binding
	return nil
}

func (r *PresenceRepository) Resolve(connectionID string) (domain.Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	binding, ok := r.bindings[connectionID]
	if !ok {
		return domain.Binding{}, domain.ErrTargetUnavailable
	}
	return binding, nil
}

func (r *PresenceRepository) Unbind(connectionID string) (domain.Binding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	binding, ok := r.bindings[connectionID]
	if !ok {
		return domain.Binding{}, domain.ErrTargetUnavailable
	}
	delete(r.bindings, connectionID)
	return binding, nil
}

func (r *PresenceRepository) CountByRole(role domain.Role) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, b := range r.bindings {
		if b.Role == role {
			count++
		}
	}
	return count
}

var _ domain.PresenceRepository = (*PresenceRepository)(nil)
