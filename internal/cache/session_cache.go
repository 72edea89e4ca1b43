package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"realtyflow/internal/model"

	"github.com/redis/go-redis/v9"
)

// SessionCache holds live wizard sessions. Each owner has a ZSET of session IDs scored by last update.
type SessionCache interface {
	Set(ctx context.Context, session *model.WizardSession) error
	Get(ctx context.Context, id string) (*model.WizardSession, error)
	Delete(ctx context.Context, session *model.WizardSession) error
	ListByOwner(ctx context.Context, ownerID string) ([]*model.WizardSession, error)
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new wizard session cache
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("wizard:%s", id)
}

func ownerSessionsKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:wizards", ownerID)
}

func (c *sessionCache) Set(ctx context.Context, session *model.WizardSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, c.ttl)
	pipe.ZAdd(ctx, ownerSessionsKey(session.OwnerID), redis.Z{
		Score:  float64(session.UpdatedAt.Unix()),
		Member: session.ID,
	})
	pipe.Expire(ctx, ownerSessionsKey(session.OwnerID), c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.WizardSession, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.WizardSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, session *model.WizardSession) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, sessionKey(session.ID))
	pipe.ZRem(ctx, ownerSessionsKey(session.OwnerID), session.ID)
	_, err := pipe.Exec(ctx)
	return err
}

// ListByOwner returns the owner's live sessions, most recently updated first.
// Index entries whose session has expired are pruned.
func (c *sessionCache) ListByOwner(ctx context.Context, ownerID string) ([]*model.WizardSession, error) {
	ids, err := c.client.ZRevRange(ctx, ownerSessionsKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	sessions := []*model.WizardSession{}
	for _, id := range ids {
		session, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if session == nil {
			c.client.ZRem(ctx, ownerSessionsKey(ownerID), id)
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}
