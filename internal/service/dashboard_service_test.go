package service

import (
	"context"
	"testing"
	"time"

	"realtyflow/internal/listing"
	"realtyflow/internal/model"
	"realtyflow/internal/questionnaire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dashboardFixture struct {
	svc         *DashboardService
	leads       *fakeLeadRepo
	comments    *fakeCommentRepo
	posts       *fakePostRepo
	submissions *fakeSubmissionRepo
	events      *recordingBroadcaster
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	f := &dashboardFixture{
		leads:       newFakeLeadRepo(),
		comments:    newFakeCommentRepo(),
		posts:       newFakePostRepo(),
		submissions: newFakeSubmissionRepo(),
		events:      &recordingBroadcaster{},
	}
	f.svc = NewDashboardService(f.leads, f.comments, f.posts, f.submissions, zap.NewNop())
	f.svc.SetBroadcaster(f.events)

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, l := range []model.Lead{
		{ID: "l1", OwnerID: "agent_1", Name: "Dana Levi", Email: "dana@example.com", Source: "facebook", Status: model.LeadNew, Budget: 900},
		{ID: "l2", OwnerID: "agent_1", Name: "Avi Cohen", Email: "avi@example.com", Source: "website", Status: model.LeadContacted, Budget: 1500},
		{ID: "l3", OwnerID: "agent_1", Name: "Noa Bar", Phone: "050-0000000", Source: "facebook", Status: model.LeadNew, Budget: 1200},
		{ID: "l4", OwnerID: "agent_2", Name: "Eli Dahan", Email: "eli@example.com", Source: "instagram", Status: model.LeadNew, Budget: 700},
	} {
		l := l
		l.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, f.leads.Create(ctx, &l))
	}
	for _, c := range []model.Comment{
		{ID: "c1", OwnerID: "agent_1", PostID: "p1", Author: "Yossi", Platform: "facebook", Text: "Is it still available?"},
		{ID: "c2", OwnerID: "agent_1", PostID: "p1", Author: "Rina", Platform: "instagram", Text: "Beautiful view"},
		{ID: "c3", OwnerID: "agent_2", PostID: "p2", Author: "Moshe", Platform: "facebook", Text: "Price?"},
	} {
		c := c
		require.NoError(t, f.comments.Create(ctx, &c))
	}
	for _, p := range []model.Post{
		{ID: "p1", OwnerID: "agent_1", Title: "Sea view apartment", Kind: "listing", Status: model.PostPublished, Likes: 40},
		{ID: "p2", OwnerID: "agent_2", Title: "Open house Sunday", Kind: "open-house", Status: model.PostScheduled, Likes: 3},
	} {
		p := p
		require.NoError(t, f.posts.Create(ctx, &p))
	}
	return f
}

func TestListLeads(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	page, err := f.svc.ListLeads(ctx, "agent_1", listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	page, err = f.svc.ListLeads(ctx, "agent_1", listing.Query{
		Filters: map[string]string{"source": "facebook"},
		SortBy:  "budget",
		Desc:    true,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Noa Bar", page.Items[0].Name)
	assert.Equal(t, "Dana Levi", page.Items[1].Name)

	page, err = f.svc.ListLeads(ctx, "agent_1", listing.Query{Search: "avi@"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "l2", page.Items[0].ID)

	_, err = f.svc.ListLeads(ctx, "agent_1", listing.Query{SortBy: "shoeSize"})
	assert.ErrorIs(t, err, listing.ErrUnknownColumn)
}

func TestUpdateLeadStatus(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	lead, err := f.svc.UpdateLeadStatus(ctx, "agent_1", "l1", model.LeadQualified)
	require.NoError(t, err)
	assert.Equal(t, model.LeadQualified, lead.Status)
	assert.Len(t, f.events.ofType(EventLeadUpdated), 1)

	_, err = f.svc.UpdateLeadStatus(ctx, "agent_1", "l1", "hot")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.UpdateLeadStatus(ctx, "agent_1", "l4", model.LeadLost)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.svc.UpdateLeadStatus(ctx, "agent_1", "l9", model.LeadLost)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBulkDeleteIsAllOrNothing(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	// l4 belongs to another agent: nothing is deleted
	_, err := f.svc.BulkDeleteLeads(ctx, "agent_1", []string{"l1", "l4"})
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 4, f.leads.len())

	_, err = f.svc.BulkDeleteLeads(ctx, "agent_1", []string{"l1", "missing"})
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 4, f.leads.len())

	_, err = f.svc.BulkDeleteLeads(ctx, "agent_1", nil)
	assert.ErrorIs(t, err, model.ErrValidation)

	n, err := f.svc.BulkDeleteLeads(ctx, "agent_1", []string{"l1", "l2", "l1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 2, f.leads.len())
}

func TestReplyToComment(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	_, err := f.svc.ReplyToComment(ctx, "agent_1", "c1", "   ")
	assert.ErrorIs(t, err, model.ErrValidation)

	c, err := f.svc.ReplyToComment(ctx, "agent_1", "c1", " Yes, call me ")
	require.NoError(t, err)
	assert.True(t, c.Replied)
	assert.Equal(t, "Yes, call me", c.Reply)
	assert.NotNil(t, c.RepliedAt)

	page, err := f.svc.ListComments(ctx, "agent_1", listing.Query{Filters: map[string]string{"replied": "false"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c2", page.Items[0].ID)

	_, err = f.svc.ReplyToComment(ctx, "agent_1", "c3", "hi")
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestDeletePostRemovesComments(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.DeletePost(ctx, "agent_1", "p1"))
	assert.Equal(t, 1, f.posts.len())
	assert.Equal(t, 1, f.comments.len())

	assert.ErrorIs(t, f.svc.DeletePost(ctx, "agent_1", "p2"), model.ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteComment(ctx, "agent_1", "c1"), model.ErrNotFound)
}

func TestCreatePostFromSubmission(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()

	require.NoError(t, f.submissions.Save(ctx, &model.Submission{
		SessionID:       "s1",
		QuestionnaireID: questionnaire.PostWizardID,
		OwnerID:         "agent_1",
		Answers: model.AnswerMap{
			"postKind":    model.TextValue("listing"),
			"title":       model.TextValue("Garden flat in Ramat Gan"),
			"caption":     model.TextValue("Three rooms, quiet street"),
			"platforms":   model.ListValue("facebook", "instagram"),
			"media":       model.FileValue(model.FileRef{ID: "f1", Name: "flat.jpg"}),
			"schedule":    model.TextValue("later"),
			"scheduledAt": model.TextValue("2026-04-01 10:00"),
		},
	}))
	require.NoError(t, f.submissions.Save(ctx, &model.Submission{
		SessionID:       "s2",
		QuestionnaireID: questionnaire.AgentOnboardingID,
		OwnerID:         "agent_1",
	}))

	post, err := f.svc.CreatePostFromSubmission(ctx, "agent_1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "Garden flat in Ramat Gan", post.Title)
	assert.Equal(t, "listing", post.Kind)
	assert.Equal(t, model.PostScheduled, post.Status)
	assert.Equal(t, "2026-04-01 10:00", post.ScheduledFor)
	assert.Equal(t, []string{"facebook", "instagram"}, post.Platforms)
	require.Len(t, post.Media, 1)
	assert.Equal(t, "f1", post.Media[0].ID)
	assert.Len(t, f.events.ofType(EventPostCreated), 1)

	again, err := f.svc.CreatePostFromSubmission(ctx, "agent_1", "s1")
	require.NoError(t, err)
	assert.Equal(t, post.ID, again.ID)
	assert.Equal(t, 3, f.posts.len())

	_, err = f.svc.CreatePostFromSubmission(ctx, "agent_1", "s2")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.CreatePostFromSubmission(ctx, "agent_2", "s1")
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.svc.CreatePostFromSubmission(ctx, "agent_1", "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPostFromAnswersPublishesNow(t *testing.T) {
	post := PostFromAnswers(model.AnswerMap{
		"title":    model.TextValue(" Market update "),
		"schedule": model.TextValue("now"),
	})
	assert.Equal(t, "Market update", post.Title)
	assert.Equal(t, model.PostPublished, post.Status)
	assert.Empty(t, post.ScheduledFor)
	assert.Empty(t, post.Media)
	assert.NotNil(t, post.Platforms)
}
