package service

import (
	"context"
	"testing"
	"time"

	"realtyflow/internal/config"
	"realtyflow/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestSimulatedPortsHonourCancellation(t *testing.T) {
	submitter, media, sender := NewSimulatedPorts(config.AutomationConfig{
		EnhanceDelay:  time.Minute,
		GenerateDelay: time.Minute,
		SendDelay:     time.Minute,
		SubmitDelay:   time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := submitter.Submit(ctx, &model.Submission{SessionID: "s1"})
	assert.False(t, res.OK())
	assert.Equal(t, "s1", res.TargetID)

	assert.False(t, media.Enhance(ctx, model.FileRef{ID: "f1"}, EnhanceAuto).OK())
	assert.False(t, media.Generate(ctx, "a kitchen").OK())
	assert.False(t, sender.Send(ctx, &model.Lead{ID: "l1", Email: "a@example.com"}, "hi").OK())
}

func TestSimulatedSenderNeedsContact(t *testing.T) {
	res := SimulatedSender{}.Send(context.Background(), &model.Lead{ID: "l1"}, "hi")
	assert.False(t, res.OK())
	assert.Equal(t, ActionAutoResponse, res.Action)
}

func TestSimulatedSubmitterSucceeds(t *testing.T) {
	res := SimulatedSubmitter{}.Submit(context.Background(), &model.Submission{SessionID: "s1"})
	assert.True(t, res.OK())
	assert.Equal(t, ActionSubmit, res.Action)
}
