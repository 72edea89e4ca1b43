package questionnaire

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"realtyflow/internal/model"
)

const overrideCatalog = `
id: post-wizard
title: Quick post
sections:
  - id: content
    title: Content
    questions:
      - id: caption
        type: textarea
        title: Caption
        required: true
`

func TestLoadWithDirOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post.yaml"), []byte(overrideCatalog), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mini.yaml"), []byte(minimalCatalog), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	r, err := Load(dir)
	require.NoError(t, err)

	var ids []string
	for _, q := range r.List() {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{AgentOnboardingID, "mini", PostWizardID}, ids)

	post, err := r.Get(PostWizardID)
	require.NoError(t, err)
	want := []model.Section{{
		ID:    "content",
		Title: "Content",
		Questions: []model.Question{
			{ID: "caption", Type: model.QuestionTypeTextarea, Title: "Caption", Required: true},
		},
	}}
	if diff := cmp.Diff(want, post.Sections()); diff != "" {
		t.Errorf("post wizard sections mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithDirRejectsBrokenCatalog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: bad\nsections: nope\n"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)

	qs, err := LoadWithDir("")
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}

func TestRegistryReplace(t *testing.T) {
	r := MustBuiltin()
	mini, err := Parse(strings.NewReader(minimalCatalog))
	require.NoError(t, err)

	require.NoError(t, r.Replace(mini))
	_, err = r.Get(AgentOnboardingID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	got, err := r.Get("mini")
	require.NoError(t, err)
	assert.Same(t, mini, got)

	assert.Error(t, r.Replace(mini, mini))
	_, err = r.Get("mini")
	assert.NoError(t, err, "a rejected replacement leaves the registry untouched")
}

func TestWatchReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	r, err := Load(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped, err := Watch(ctx, dir, r, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "mini.yaml"), []byte(minimalCatalog), 0o644))
	assert.Eventually(t, func() bool {
		_, err := r.Get("mini")
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	// a broken edit keeps the last good set
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mini.yaml"), []byte("id: [broken"), 0o644))
	time.Sleep(3 * reloadDelay)
	_, err = r.Get("mini")
	assert.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "mini.yaml")))
	assert.Eventually(t, func() bool {
		_, err := r.Get("mini")
		return err != nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	<-stopped
}

func TestWatchMissingDir(t *testing.T) {
	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), MustBuiltin(), zap.NewNop())
	assert.Error(t, err)
}
