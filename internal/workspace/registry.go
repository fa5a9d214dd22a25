package workspace

import "sync"

// Registry hands out one workspace per user id.
type Registry struct {
	deps Deps

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, workspaces: make(map[string]*Workspace)}
}

func (r *Registry) Get(userID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workspaces[userID]
	if !ok {
		w = New(userID, r.deps)
		r.workspaces[userID] = w
	}
	return w
}

// Drop forgets a user's workspace, e.g. after sign-out.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workspaces, userID)
}
