package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"realtyflow/internal/model"
)

type fakeSessionCache struct {
	mu       sync.Mutex
	sessions map[string]model.WizardSession
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{sessions: map[string]model.WizardSession{}}
}

func (c *fakeSessionCache) Set(_ context.Context, s *model.WizardSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *s
	cp.Answers = s.Answers.Clone()
	c.sessions[s.ID] = cp
	return nil
}

func (c *fakeSessionCache) Get(_ context.Context, id string) (*model.WizardSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		return nil, nil
	}
	s.Answers = s.Answers.Clone()
	return &s, nil
}

func (c *fakeSessionCache) Delete(_ context.Context, s *model.WizardSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, s.ID)
	return nil
}

func (c *fakeSessionCache) ListByOwner(_ context.Context, ownerID string) ([]*model.WizardSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []*model.WizardSession{}
	for _, s := range c.sessions {
		if s.OwnerID == ownerID {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeDraftRepo struct {
	mu     sync.Mutex
	drafts map[string]model.WizardSession
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: map[string]model.WizardSession{}}
}

func (r *fakeDraftRepo) Save(_ context.Context, s *model.WizardSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	cp.Answers = s.Answers.Clone()
	if s.Saved != nil {
		saved := *s.Saved
		saved.Answers = s.Saved.Answers.Clone()
		cp.Saved = &saved
	}
	r.drafts[s.ID] = cp
	return nil
}

func (r *fakeDraftRepo) GetByID(_ context.Context, id string) (*model.WizardSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.drafts[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeDraftRepo) ListByOwner(_ context.Context, ownerID string) ([]*model.WizardSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.WizardSession{}
	for _, s := range r.drafts {
		if s.OwnerID == ownerID {
			s := s
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *fakeDraftRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
	return nil
}

type fakeSubmissionRepo struct {
	mu   sync.Mutex
	subs map[string]model.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{subs: map[string]model.Submission{}}
}

func (r *fakeSubmissionRepo) Save(_ context.Context, sub *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.ID == "" {
		sub.ID = sub.SessionID
	}
	r.subs[sub.SessionID] = *sub
	return nil
}

func (r *fakeSubmissionRepo) GetBySessionID(_ context.Context, id string) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeSubmissionRepo) ListByOwner(_ context.Context, ownerID, questionnaireID string) ([]*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Submission{}
	for _, s := range r.subs {
		if s.OwnerID == ownerID && (questionnaireID == "" || s.QuestionnaireID == questionnaireID) {
			s := s
			out = append(out, &s)
		}
	}
	return out, nil
}

// ownedStore backs the lead, comment and post fakes
type ownedStore[T any] struct {
	mu      sync.Mutex
	items   map[string]T
	order   []string
	idOf    func(*T) string
	ownerOf func(*T) string
}

func newOwnedStore[T any](idOf, ownerOf func(*T) string) *ownedStore[T] {
	return &ownedStore[T]{items: map[string]T{}, idOf: idOf, ownerOf: ownerOf}
}

func (s *ownedStore[T]) Create(_ context.Context, item *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.idOf(item)
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = *item
	return nil
}

func (s *ownedStore[T]) GetByID(_ context.Context, id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *ownedStore[T]) ListByOwner(_ context.Context, ownerID string) ([]*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*T{}
	for _, id := range s.order {
		item, ok := s.items[id]
		if ok && s.ownerOf(&item) == ownerID {
			out = append(out, &item)
		}
	}
	return out, nil
}

func (s *ownedStore[T]) Update(_ context.Context, item *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.idOf(item)
	if _, ok := s.items[id]; !ok {
		return model.ErrNotFound
	}
	s.items[id] = *item
	return nil
}

func (s *ownedStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *ownedStore[T]) CountOwned(_ context.Context, ownerID string, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if item, ok := s.items[id]; ok && s.ownerOf(&item) == ownerID {
			n++
		}
	}
	return n, nil
}

func (s *ownedStore[T]) DeleteMany(_ context.Context, ownerID string, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if item, ok := s.items[id]; ok && s.ownerOf(&item) == ownerID {
			delete(s.items, id)
			n++
		}
	}
	return n, nil
}

func (s *ownedStore[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type fakeLeadRepo struct{ *ownedStore[model.Lead] }

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{newOwnedStore(
		func(l *model.Lead) string { return l.ID },
		func(l *model.Lead) string { return l.OwnerID })}
}

type fakePostRepo struct{ *ownedStore[model.Post] }

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{newOwnedStore(
		func(p *model.Post) string { return p.ID },
		func(p *model.Post) string { return p.OwnerID })}
}

func (r *fakePostRepo) Create(ctx context.Context, p *model.Post) error {
	if p.ID == "" {
		p.ID = "post-" + p.SessionID
	}
	return r.ownedStore.Create(ctx, p)
}

func (r *fakePostRepo) GetBySessionID(_ context.Context, sessionID string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.SessionID == sessionID {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

type fakeCommentRepo struct{ *ownedStore[model.Comment] }

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{newOwnedStore(
		func(c *model.Comment) string { return c.ID },
		func(c *model.Comment) string { return c.OwnerID })}
}

func (r *fakeCommentRepo) DeleteByPost(_ context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.items {
		if c.PostID == postID {
			delete(r.items, id)
		}
	}
	return nil
}

type fakeTokenCache struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeTokenCache() *fakeTokenCache {
	return &fakeTokenCache{revoked: map[string]time.Time{}}
}

func (c *fakeTokenCache) Revoke(_ context.Context, jti string, until time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revoked[jti] = until
	return nil
}

func (c *fakeTokenCache) IsRevoked(_ context.Context, jti string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.revoked[jti]
	return ok, nil
}

type broadcastEvent struct {
	OwnerID string
	Type    string
	Payload interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (b *recordingBroadcaster) BroadcastToOwner(ownerID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{ownerID, msgType, payload})
}

func (b *recordingBroadcaster) ofType(msgType string) []broadcastEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []broadcastEvent
	for _, e := range b.events {
		if e.Type == msgType {
			out = append(out, e)
		}
	}
	return out
}

type stubSubmitter struct {
	result *model.ActionResult
	calls  int
}

func (s *stubSubmitter) Submit(_ context.Context, sub *model.Submission) model.ActionResult {
	s.calls++
	if s.result != nil {
		return *s.result
	}
	return model.Succeeded(ActionSubmit, sub.SessionID)
}
