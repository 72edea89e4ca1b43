package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"realtyflow/internal/config"
	"realtyflow/internal/model"
	"realtyflow/internal/repository"
	"realtyflow/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile      string
	username        string
	leadCount       int
	postCount       int
	commentsPerPost int
	timeout         time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed mock dashboard data for an agent",
	Long: `Inserts mock leads, posts and comments into MongoDB for one agent,
so the dashboard tables have something to list, filter and sort.

Example:
  seed --username agent --leads 25 --posts 6 --comments 3`,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "config file (YAML)")
	rootCmd.Flags().StringVarP(&username, "username", "u", "", "agent username (defaults to the configured agent)")
	rootCmd.Flags().IntVar(&leadCount, "leads", 20, "number of leads")
	rootCmd.Flags().IntVar(&postCount, "posts", 5, "number of posts")
	rootCmd.Flags().IntVar(&commentsPerPost, "comments", 3, "comments per post")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if username == "" {
		username = cfg.Auth.Username
	}
	ownerID := service.AgentID(username)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	client, err := repository.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDB)
	repository.EnsureIndexes(ctx, db, logger)

	leads := repository.NewLeadRepo(db)
	posts := repository.NewPostRepo(db)
	comments := repository.NewCommentRepo(db)

	now := time.Now()
	for i := 0; i < leadCount; i++ {
		lead := mockLead(ownerID, i, now)
		if err := leads.Create(ctx, lead); err != nil {
			return fmt.Errorf("create lead %d: %w", i, err)
		}
	}

	created := 0
	for i := 0; i < postCount; i++ {
		post := mockPost(ownerID, i, now)
		post.CommentCount = commentsPerPost
		if err := posts.Create(ctx, post); err != nil {
			return fmt.Errorf("create post %d: %w", i, err)
		}
		for j := 0; j < commentsPerPost; j++ {
			if err := comments.Create(ctx, mockComment(ownerID, post, i*commentsPerPost+j, now)); err != nil {
				return fmt.Errorf("create comment on %s: %w", post.ID, err)
			}
			created++
		}
	}

	logger.Info("Seeded dashboard data",
		zap.String("agentId", ownerID),
		zap.String("db", cfg.MongoDB),
		zap.Int("leads", leadCount),
		zap.Int("posts", postCount),
		zap.Int("comments", created),
	)
	return nil
}

var (
	firstNames = []string{"Dana", "Avi", "Noa", "Yossi", "Maya", "Eli", "Tamar", "Omer", "Shira", "Ron"}
	lastNames  = []string{"Levi", "Cohen", "Mizrahi", "Peretz", "Biton", "Dahan", "Friedman", "Azulay"}
	sources    = []string{"facebook", "instagram", "website", "referral", "yad2"}
	interests  = []string{"3-room apartment", "garden apartment", "penthouse", "private house", "office space", "plot of land"}
	statuses   = []model.LeadStatus{model.LeadNew, model.LeadNew, model.LeadContacted, model.LeadQualified, model.LeadClosed, model.LeadLost}
	platforms  = []string{"facebook", "instagram", "linkedin", "tiktok"}
	postKinds  = []string{"listing", "open-house", "market-update", "testimonial"}
	remarks    = []string{
		"Is this still available?",
		"What's the asking price?",
		"Beautiful place, sent you a DM",
		"Can I come to the open house on Friday?",
		"Does it have parking?",
		"Great agent, highly recommended!",
	}
)

func pick[T any](list []T, i int) T {
	return list[i%len(list)]
}

func mockLead(ownerID string, i int, now time.Time) *model.Lead {
	first, last := pick(firstNames, i), pick(lastNames, i/len(firstNames)+i)
	return &model.Lead{
		OwnerID:          ownerID,
		Name:             first + " " + last,
		Email:            fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
		Phone:            fmt.Sprintf("05%d-%07d", i%10, 1000000+i*7919%9000000),
		Source:           pick(sources, i),
		Status:           pick(statuses, i),
		PropertyInterest: pick(interests, i),
		Budget:           800_000 + (i*137_000)%4_200_000,
		CreatedAt:        now.Add(-time.Duration(i) * 7 * time.Hour),
	}
}

func mockPost(ownerID string, i int, now time.Time) *model.Post {
	kind := pick(postKinds, i)
	status := model.PostPublished
	if i%4 == 3 {
		status = model.PostDraft
	}
	return &model.Post{
		OwnerID:   ownerID,
		Title:     fmt.Sprintf("%s #%d", strings.ReplaceAll(kind, "-", " "), i+1),
		Body:      "Bright, renovated and minutes from the beach. Contact us for a private viewing.",
		Kind:      kind,
		Platforms: []string{pick(platforms, i), pick(platforms, i+1)},
		Status:    status,
		Likes:     (i * 37) % 250,
		CreatedAt: now.Add(-time.Duration(i) * 26 * time.Hour),
	}
}

func mockComment(ownerID string, post *model.Post, i int, now time.Time) *model.Comment {
	return &model.Comment{
		OwnerID:   ownerID,
		PostID:    post.ID,
		Author:    pick(firstNames, i+3) + " " + pick(lastNames, i),
		Platform:  post.Platforms[0],
		Text:      pick(remarks, i),
		CreatedAt: now.Add(-time.Duration(i) * 3 * time.Hour),
	}
}
