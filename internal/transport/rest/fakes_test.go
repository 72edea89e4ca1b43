package rest

import (
	"context"
	"sync"
	"time"

	"realtyflow/internal/model"
)

type memSessions struct {
	mu sync.Mutex
	m  map[string]model.WizardSession
}

func (c *memSessions) Set(_ context.Context, s *model.WizardSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *s
	cp.Answers = s.Answers.Clone()
	c.m[s.ID] = cp
	return nil
}

func (c *memSessions) Get(_ context.Context, id string) (*model.WizardSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.m[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *memSessions) Delete(_ context.Context, s *model.WizardSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, s.ID)
	return nil
}

func (c *memSessions) ListByOwner(_ context.Context, ownerID string) ([]*model.WizardSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []*model.WizardSession{}
	for _, s := range c.m {
		if s.OwnerID == ownerID {
			s := s
			out = append(out, &s)
		}
	}
	return out, nil
}

type memDrafts struct{ memSessions }

func (r *memDrafts) Save(ctx context.Context, s *model.WizardSession) error {
	return r.memSessions.Set(ctx, s)
}

func (r *memDrafts) GetByID(ctx context.Context, id string) (*model.WizardSession, error) {
	return r.memSessions.Get(ctx, id)
}

func (r *memDrafts) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}

type memSubmissions struct {
	mu sync.Mutex
	m  map[string]model.Submission
}

func (r *memSubmissions) Save(_ context.Context, s *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[s.SessionID] = *s
	return nil
}

func (r *memSubmissions) GetBySessionID(_ context.Context, id string) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memSubmissions) ListByOwner(context.Context, string, string) ([]*model.Submission, error) {
	return nil, nil
}

type memLeads struct {
	mu sync.Mutex
	m  map[string]model.Lead
}

func (r *memLeads) Create(_ context.Context, l *model.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[l.ID] = *l
	return nil
}

func (r *memLeads) GetByID(_ context.Context, id string) (*model.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *memLeads) ListByOwner(_ context.Context, ownerID string) ([]*model.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Lead{}
	for _, l := range r.m {
		if l.OwnerID == ownerID {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

func (r *memLeads) Update(ctx context.Context, l *model.Lead) error { return r.Create(ctx, l) }

func (r *memLeads) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}

func (r *memLeads) CountOwned(_ context.Context, ownerID string, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if l, ok := r.m[id]; ok && l.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *memLeads) DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error) {
	n, _ := r.CountOwned(ctx, ownerID, ids)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.m, id)
	}
	return n, nil
}

// emptyPosts and emptyComments back the tables this test doesn't exercise
type emptyPosts struct{}

func (emptyPosts) Create(context.Context, *model.Post) error                  { return nil }
func (emptyPosts) GetByID(context.Context, string) (*model.Post, error)        { return nil, nil }
func (emptyPosts) GetBySessionID(context.Context, string) (*model.Post, error) { return nil, nil }
func (emptyPosts) ListByOwner(context.Context, string) ([]*model.Post, error) {
	return []*model.Post{}, nil
}
func (emptyPosts) Update(context.Context, *model.Post) error { return nil }
func (emptyPosts) Delete(context.Context, string) error      { return nil }
func (emptyPosts) CountOwned(context.Context, string, []string) (int64, error) {
	return 0, nil
}
func (emptyPosts) DeleteMany(context.Context, string, []string) (int64, error) {
	return 0, nil
}

type emptyComments struct{}

func (emptyComments) Create(context.Context, *model.Comment) error           { return nil }
func (emptyComments) GetByID(context.Context, string) (*model.Comment, error) { return nil, nil }
func (emptyComments) ListByOwner(context.Context, string) ([]*model.Comment, error) {
	return []*model.Comment{}, nil
}
func (emptyComments) Update(context.Context, *model.Comment) error { return nil }
func (emptyComments) Delete(context.Context, string) error         { return nil }
func (emptyComments) DeleteByPost(context.Context, string) error   { return nil }
func (emptyComments) CountOwned(context.Context, string, []string) (int64, error) {
	return 0, nil
}
func (emptyComments) DeleteMany(context.Context, string, []string) (int64, error) {
	return 0, nil
}

type memTokens struct {
	mu sync.Mutex
	m  map[string]time.Time
}

func (c *memTokens) Revoke(_ context.Context, jti string, until time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[jti] = until
	return nil
}

func (c *memTokens) IsRevoked(_ context.Context, jti string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.m[jti]
	return ok, nil
}
