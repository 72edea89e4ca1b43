package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realtyflow/internal/config"
	"realtyflow/internal/model"

	"github.com/google/uuid"
)

// Action names reported in model.ActionResult
const (
	ActionSubmit       = "submit"
	ActionEnhance      = "enhance-media"
	ActionGenerate     = "generate-image"
	ActionAutoResponse = "auto-response"
)

// Enhancement modes accepted by MediaProcessor.Enhance
const (
	EnhanceAuto           = "enhance"
	EnhanceVirtualStaging = "virtual-staging"
)

var ErrEmptyPrompt = errors.New("prompt is empty")

// Submitter hands a completed questionnaire to whatever consumes it
type Submitter interface {
	Submit(ctx context.Context, sub *model.Submission) model.ActionResult
}

// MediaProcessor enhances uploaded media and generates images
type MediaProcessor interface {
	Enhance(ctx context.Context, file model.FileRef, mode string) model.ActionResult
	Generate(ctx context.Context, prompt string) model.ActionResult
}

// ResponseSender delivers an automatic response to a lead
type ResponseSender interface {
	Send(ctx context.Context, lead *model.Lead, message string) model.ActionResult
}

// wait blocks for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SimulatedSubmitter accepts every submission after a fixed delay
type SimulatedSubmitter struct {
	Delay time.Duration
}

func (s SimulatedSubmitter) Submit(ctx context.Context, sub *model.Submission) model.ActionResult {
	if err := wait(ctx, s.Delay); err != nil {
		return model.Failed(ActionSubmit, sub.SessionID, err)
	}
	return model.Succeeded(ActionSubmit, sub.SessionID)
}

// SimulatedMedia pretends to process media. Outputs are new file handles; no bytes are produced.
type SimulatedMedia struct {
	EnhanceDelay  time.Duration
	GenerateDelay time.Duration
}

func (m SimulatedMedia) Enhance(ctx context.Context, file model.FileRef, mode string) model.ActionResult {
	if mode != EnhanceAuto && mode != EnhanceVirtualStaging {
		return model.Failed(ActionEnhance, file.ID, fmt.Errorf("unknown enhancement mode %q", mode))
	}
	if err := wait(ctx, m.EnhanceDelay); err != nil {
		return model.Failed(ActionEnhance, file.ID, err)
	}
	res := model.Succeeded(ActionEnhance, file.ID)
	res.Output = &model.FileRef{
		ID:          uuid.New().String(),
		Name:        mode + "-" + file.Name,
		ContentType: file.ContentType,
		Size:        file.Size,
	}
	return res
}

func (m SimulatedMedia) Generate(ctx context.Context, prompt string) model.ActionResult {
	id := uuid.New().String()
	if prompt == "" {
		return model.Failed(ActionGenerate, id, ErrEmptyPrompt)
	}
	if err := wait(ctx, m.GenerateDelay); err != nil {
		return model.Failed(ActionGenerate, id, err)
	}
	res := model.Succeeded(ActionGenerate, id)
	res.Output = &model.FileRef{
		ID:          id,
		Name:        "generated-" + id[:8] + ".png",
		ContentType: "image/png",
	}
	return res
}

// SimulatedSender pretends to message a lead
type SimulatedSender struct {
	Delay time.Duration
}

func (s SimulatedSender) Send(ctx context.Context, lead *model.Lead, message string) model.ActionResult {
	if lead.Email == "" && lead.Phone == "" {
		return model.Failed(ActionAutoResponse, lead.ID, errors.New("lead has no contact details"))
	}
	if err := wait(ctx, s.Delay); err != nil {
		return model.Failed(ActionAutoResponse, lead.ID, err)
	}
	return model.Succeeded(ActionAutoResponse, lead.ID)
}

// NewSimulatedPorts builds the default port implementations from configuration
func NewSimulatedPorts(cfg config.AutomationConfig) (Submitter, MediaProcessor, ResponseSender) {
	return SimulatedSubmitter{Delay: cfg.SubmitDelay},
		SimulatedMedia{EnhanceDelay: cfg.EnhanceDelay, GenerateDelay: cfg.GenerateDelay},
		SimulatedSender{Delay: cfg.SendDelay}
}
