package service

import (
	"cmp"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"realtyflow/internal/listing"
	"realtyflow/internal/model"
	"realtyflow/internal/questionnaire"
	"realtyflow/internal/repository"

	"go.uber.org/zap"
)

var leadTable = listing.NewTable(
	listing.Column[*model.Lead]{Key: "name", Text: func(l *model.Lead) string { return l.Name }, Compare: func(a, b *model.Lead) int { return listing.CompareStrings(a.Name, b.Name) }, Searchable: true},
	listing.Column[*model.Lead]{Key: "email", Text: func(l *model.Lead) string { return l.Email }, Searchable: true},
	listing.Column[*model.Lead]{Key: "phone", Text: func(l *model.Lead) string { return l.Phone }, Searchable: true},
	listing.Column[*model.Lead]{Key: "source", Text: func(l *model.Lead) string { return l.Source }, Compare: func(a, b *model.Lead) int { return listing.CompareStrings(a.Source, b.Source) }},
	listing.Column[*model.Lead]{Key: "status", Text: func(l *model.Lead) string { return string(l.Status) }, Compare: func(a, b *model.Lead) int { return listing.CompareStrings(string(a.Status), string(b.Status)) }},
	listing.Column[*model.Lead]{Key: "propertyInterest", Text: func(l *model.Lead) string { return l.PropertyInterest }, Searchable: true},
	listing.Column[*model.Lead]{Key: "budget", Compare: func(a, b *model.Lead) int { return cmp.Compare(a.Budget, b.Budget) }},
	listing.Column[*model.Lead]{Key: "createdAt", Compare: func(a, b *model.Lead) int { return a.CreatedAt.Compare(b.CreatedAt) }},
)

var commentTable = listing.NewTable(
	listing.Column[*model.Comment]{Key: "author", Text: func(c *model.Comment) string { return c.Author }, Compare: func(a, b *model.Comment) int { return listing.CompareStrings(a.Author, b.Author) }, Searchable: true},
	listing.Column[*model.Comment]{Key: "text", Text: func(c *model.Comment) string { return c.Text }, Searchable: true},
	listing.Column[*model.Comment]{Key: "platform", Text: func(c *model.Comment) string { return c.Platform }, Compare: func(a, b *model.Comment) int { return listing.CompareStrings(a.Platform, b.Platform) }},
	listing.Column[*model.Comment]{Key: "postId", Text: func(c *model.Comment) string { return c.PostID }},
	listing.Column[*model.Comment]{Key: "replied", Text: func(c *model.Comment) string { return strconv.FormatBool(c.Replied) }, Compare: func(a, b *model.Comment) int { return compareBool(a.Replied, b.Replied) }},
	listing.Column[*model.Comment]{Key: "createdAt", Compare: func(a, b *model.Comment) int { return a.CreatedAt.Compare(b.CreatedAt) }},
)

var postTable = listing.NewTable(
	listing.Column[*model.Post]{Key: "title", Text: func(p *model.Post) string { return p.Title }, Compare: func(a, b *model.Post) int { return listing.CompareStrings(a.Title, b.Title) }, Searchable: true},
	listing.Column[*model.Post]{Key: "body", Text: func(p *model.Post) string { return p.Body }, Searchable: true},
	listing.Column[*model.Post]{Key: "kind", Text: func(p *model.Post) string { return p.Kind }, Compare: func(a, b *model.Post) int { return listing.CompareStrings(a.Kind, b.Kind) }},
	listing.Column[*model.Post]{Key: "status", Text: func(p *model.Post) string { return string(p.Status) }, Compare: func(a, b *model.Post) int { return listing.CompareStrings(string(a.Status), string(b.Status)) }},
	listing.Column[*model.Post]{Key: "platform", Text: func(p *model.Post) string { return strings.Join(p.Platforms, ",") }},
	listing.Column[*model.Post]{Key: "likes", Compare: func(a, b *model.Post) int { return cmp.Compare(a.Likes, b.Likes) }},
	listing.Column[*model.Post]{Key: "commentCount", Compare: func(a, b *model.Post) int { return cmp.Compare(a.CommentCount, b.CommentCount) }},
	listing.Column[*model.Post]{Key: "createdAt", Compare: func(a, b *model.Post) int { return a.CreatedAt.Compare(b.CreatedAt) }},
)

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

// DashboardService serves the agent's leads, comments and posts
type DashboardService struct {
	leads       repository.LeadRepo
	comments    repository.CommentRepo
	posts       repository.PostRepo
	submissions repository.SubmissionRepo
	broadcaster Broadcaster
	logger      *zap.Logger
	now         func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	leads repository.LeadRepo,
	comments repository.CommentRepo,
	posts repository.PostRepo,
	submissions repository.SubmissionRepo,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		leads:       leads,
		comments:    comments,
		posts:       posts,
		submissions: submissions,
		logger:      logger,
		now:         time.Now,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *DashboardService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *DashboardService) broadcast(ownerID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOwner(ownerID, msgType, payload)
	}
}

// owned resolves a fetched entity: missing is ErrNotFound, another owner's is ErrForbidden
func owned[T any](item *T, err error, ownerOf func(*T) string, ownerID, what, id string) (*T, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	if item == nil {
		return nil, fmt.Errorf("%s %s: %w", what, id, model.ErrNotFound)
	}
	if ownerOf(item) != ownerID {
		return nil, model.ErrForbidden
	}
	return item, nil
}

type bulkRepo interface {
	CountOwned(ctx context.Context, ownerID string, ids []string) (int64, error)
	DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error)
}

// bulkDelete deletes all of ids or none: every ID must exist and belong to ownerID
func bulkDelete(ctx context.Context, repo bulkRepo, ownerID string, ids []string) (int64, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return 0, &model.ValidationError{Fields: []model.FieldError{{QuestionID: "ids", Message: "no ids given"}}}
	}
	n, err := repo.CountOwned(ctx, ownerID, unique)
	if err != nil {
		return 0, fmt.Errorf("failed to check ownership: %w", err)
	}
	if n != int64(len(unique)) {
		return 0, fmt.Errorf("%d of %d ids: %w", int64(len(unique))-n, len(unique), model.ErrNotFound)
	}
	deleted, err := repo.DeleteMany(ctx, ownerID, unique)
	if err != nil {
		return 0, fmt.Errorf("failed to delete: %w", err)
	}
	return deleted, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Leads

func (s *DashboardService) ListLeads(ctx context.Context, ownerID string, q listing.Query) (listing.Page[*model.Lead], error) {
	leads, err := s.leads.ListByOwner(ctx, ownerID)
	if err != nil {
		return listing.Page[*model.Lead]{}, fmt.Errorf("failed to list leads: %w", err)
	}
	return leadTable.Apply(leads, q)
}

func (s *DashboardService) GetLead(ctx context.Context, ownerID, id string) (*model.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	return owned(lead, err, func(l *model.Lead) string { return l.OwnerID }, ownerID, "lead", id)
}

func (s *DashboardService) UpdateLeadStatus(ctx context.Context, ownerID, id string, status model.LeadStatus) (*model.Lead, error) {
	if !status.Valid() {
		return nil, &model.ValidationError{Fields: []model.FieldError{{QuestionID: "status", Message: fmt.Sprintf("unknown status %q", status)}}}
	}
	lead, err := s.GetLead(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	lead.Status = status
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	s.broadcast(ownerID, EventLeadUpdated, lead)
	return lead, nil
}

func (s *DashboardService) DeleteLead(ctx context.Context, ownerID, id string) error {
	if _, err := s.GetLead(ctx, ownerID, id); err != nil {
		return err
	}
	return s.leads.Delete(ctx, id)
}

func (s *DashboardService) BulkDeleteLeads(ctx context.Context, ownerID string, ids []string) (int64, error) {
	n, err := bulkDelete(ctx, s.leads, ownerID, ids)
	if err == nil {
		s.logger.Info("leads deleted", zap.String("owner", ownerID), zap.Int64("count", n))
	}
	return n, err
}

// Comments

func (s *DashboardService) ListComments(ctx context.Context, ownerID string, q listing.Query) (listing.Page[*model.Comment], error) {
	comments, err := s.comments.ListByOwner(ctx, ownerID)
	if err != nil {
		return listing.Page[*model.Comment]{}, fmt.Errorf("failed to list comments: %w", err)
	}
	return commentTable.Apply(comments, q)
}

func (s *DashboardService) GetComment(ctx context.Context, ownerID, id string) (*model.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	return owned(comment, err, func(c *model.Comment) string { return c.OwnerID }, ownerID, "comment", id)
}

// ReplyToComment stores the agent's reply. Replying again overwrites the reply.
func (s *DashboardService) ReplyToComment(ctx context.Context, ownerID, id, reply string) (*model.Comment, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, &model.ValidationError{Fields: []model.FieldError{{QuestionID: "reply", Message: "reply is empty"}}}
	}
	comment, err := s.GetComment(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	comment.Replied = true
	comment.Reply = reply
	comment.RepliedAt = &now
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

func (s *DashboardService) DeleteComment(ctx context.Context, ownerID, id string) error {
	if _, err := s.GetComment(ctx, ownerID, id); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}

func (s *DashboardService) BulkDeleteComments(ctx context.Context, ownerID string, ids []string) (int64, error) {
	return bulkDelete(ctx, s.comments, ownerID, ids)
}

// Posts

func (s *DashboardService) ListPosts(ctx context.Context, ownerID string, q listing.Query) (listing.Page[*model.Post], error) {
	posts, err := s.posts.ListByOwner(ctx, ownerID)
	if err != nil {
		return listing.Page[*model.Post]{}, fmt.Errorf("failed to list posts: %w", err)
	}
	return postTable.Apply(posts, q)
}

func (s *DashboardService) GetPost(ctx context.Context, ownerID, id string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	return owned(post, err, func(p *model.Post) string { return p.OwnerID }, ownerID, "post", id)
}

// CreatePostFromSubmission turns a submitted post wizard into a post.
// Calling it twice for the same session returns the existing post.
func (s *DashboardService) CreatePostFromSubmission(ctx context.Context, ownerID, sessionID string) (*model.Post, error) {
	sub, err := s.submissions.GetBySessionID(ctx, sessionID)
	sub, err = owned(sub, err, func(x *model.Submission) string { return x.OwnerID }, ownerID, "submission", sessionID)
	if err != nil {
		return nil, err
	}
	if sub.QuestionnaireID != questionnaire.PostWizardID {
		return nil, &model.ValidationError{Fields: []model.FieldError{{QuestionID: "sessionId", Message: "not a post wizard submission"}}}
	}

	existing, err := s.posts.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	post := PostFromAnswers(sub.Answers)
	post.OwnerID = ownerID
	post.SessionID = sessionID
	post.CreatedAt = s.now()
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("post created", zap.String("post", post.ID), zap.String("session", sessionID))
	s.broadcast(ownerID, EventPostCreated, post)
	return post, nil
}

// PostFromAnswers maps post wizard answers onto a post
func PostFromAnswers(answers model.AnswerMap) *model.Post {
	text := func(id string) string {
		v, _ := answers.Get(id)
		return strings.TrimSpace(v.Text)
	}

	post := &model.Post{
		Title:     text("title"),
		Body:      text("caption"),
		Kind:      text("postKind"),
		Platforms: []string{},
		Status:    model.PostPublished,
	}
	if v, ok := answers.Get("platforms"); ok {
		post.Platforms = append(post.Platforms, v.List...)
	}
	if v, ok := answers.Get("media"); ok && v.File != nil {
		post.Media = []model.FileRef{*v.File}
	}
	if text("schedule") == "later" {
		post.Status = model.PostScheduled
		post.ScheduledFor = text("scheduledAt")
	}
	return post
}

// DeletePost deletes a post and its comments
func (s *DashboardService) DeletePost(ctx context.Context, ownerID, id string) error {
	if _, err := s.GetPost(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.comments.DeleteByPost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	return s.posts.Delete(ctx, id)
}

func (s *DashboardService) BulkDeletePosts(ctx context.Context, ownerID string, ids []string) (int64, error) {
	n, err := bulkDelete(ctx, s.posts, ownerID, ids)
	if err != nil {
		return 0, err
	}
	for _, id := range dedupe(ids) {
		if err := s.comments.DeleteByPost(ctx, id); err != nil {
			s.logger.Warn("failed to delete comments of post", zap.String("post", id), zap.Error(err))
		}
	}
	return n, nil
}
