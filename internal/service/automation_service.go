package service

import (
	"context"
	"fmt"

	"realtyflow/internal/model"
	"realtyflow/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AutomationService runs the simulated AI media tools and lead auto-responses.
// Every result is pushed to the agent as EventAutomationResult.
type AutomationService struct {
	media         MediaProcessor
	sender        ResponseSender
	leads         repository.LeadRepo
	broadcaster   Broadcaster
	maxConcurrent int
	logger        *zap.Logger
}

// NewAutomationService creates a new automation service
func NewAutomationService(
	media MediaProcessor,
	sender ResponseSender,
	leads repository.LeadRepo,
	maxConcurrent int,
	logger *zap.Logger,
) *AutomationService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &AutomationService{
		media:         media,
		sender:        sender,
		leads:         leads,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *AutomationService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *AutomationService) report(ownerID string, res model.ActionResult) {
	if !res.OK() {
		s.logger.Warn("automation failed",
			zap.String("action", res.Action),
			zap.String("target", res.TargetID),
			zap.String("error", res.Error))
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOwner(ownerID, EventAutomationResult, res)
	}
}

// EnhanceMedia runs an enhancement mode over an uploaded file
func (s *AutomationService) EnhanceMedia(ctx context.Context, ownerID string, file model.FileRef, mode string) model.ActionResult {
	res := s.media.Enhance(ctx, file, mode)
	s.report(ownerID, res)
	return res
}

// GenerateImage creates an image from a text prompt
func (s *AutomationService) GenerateImage(ctx context.Context, ownerID, prompt string) model.ActionResult {
	res := s.media.Generate(ctx, prompt)
	s.report(ownerID, res)
	return res
}

// SendAutoResponses messages each lead concurrently. Every lead must belong to
// ownerID before anything is sent. Individual delivery failures are reported
// in the results; the error is for lookups and cancellation only.
// Leads reached successfully move from new to contacted.
func (s *AutomationService) SendAutoResponses(ctx context.Context, ownerID string, leadIDs []string, message string) ([]model.ActionResult, error) {
	ids := dedupe(leadIDs)
	if len(ids) == 0 {
		return nil, &model.ValidationError{Fields: []model.FieldError{{QuestionID: "leadIds", Message: "no leads given"}}}
	}
	if message == "" {
		return nil, &model.ValidationError{Fields: []model.FieldError{{QuestionID: "message", Message: "message is empty"}}}
	}

	leads := make([]*model.Lead, len(ids))
	for i, id := range ids {
		lead, err := s.leads.GetByID(ctx, id)
		lead, err = owned(lead, err, func(l *model.Lead) string { return l.OwnerID }, ownerID, "lead", id)
		if err != nil {
			return nil, err
		}
		leads[i] = lead
	}

	results := make([]model.ActionResult, len(leads))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.maxConcurrent)
	for i, lead := range leads {
		eg.Go(func() error {
			res := s.sender.Send(egCtx, lead, message)
			results[i] = res
			s.report(ownerID, res)
			if !res.OK() {
				return nil
			}

			lead.LastResponseAt = &res.FinishedAt
			if lead.Status == model.LeadNew {
				lead.Status = model.LeadContacted
			}
			if err := s.leads.Update(egCtx, lead); err != nil {
				return fmt.Errorf("failed to update lead %s: %w", lead.ID, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	s.logger.Info("auto-responses sent", zap.String("owner", ownerID), zap.Int("leads", len(leads)))
	return results, nil
}
