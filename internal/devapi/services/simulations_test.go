package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/repositories/cases"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/repositories/simulations"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponder struct {
	reply string
	err   error
	seen  []int
}

func (r *stubResponder) Respond(_ context.Context, _ *models.ClinicalCase, history []models.ChatMessage, _ string) (string, error) {
	r.seen = append(r.seen, len(history))
	return r.reply, r.err
}

type simFixture struct {
	svc       *SimulationService
	sessions  *simulations.MemoryRepository
	responder *stubResponder
	approved  *models.ClinicalCase
	pending   *models.ClinicalCase
}

func newSimFixture(t *testing.T) *simFixture {
	t.Helper()
	ctx := context.Background()
	caseRepo := cases.NewMemoryRepository()

	approved, err := caseRepo.Create(ctx, &models.ClinicalCase{SourceID: "a", Title: "Toux", Status: models.CaseApproved})
	require.NoError(t, err)
	pending, err := caseRepo.Create(ctx, &models.ClinicalCase{SourceID: "b", Title: "Fièvre"})
	require.NoError(t, err)

	sessions := simulations.NewMemoryRepository()
	responder := &stubResponder{reply: "Je tousse depuis une semaine."}
	return &simFixture{
		svc:       NewSimulationService(sessions, caseRepo, responder, logging.Discard()),
		sessions:  sessions,
		responder: responder,
		approved:  approved,
		pending:   pending,
	}
}

func TestSimulationService_StartIsIdempotent(t *testing.T) {
	f := newSimFixture(t)
	ctx := context.Background()

	first, created, err := f.svc.Start(ctx, "u-1", f.approved.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Toux", first.Case.Title)

	again, created, err := f.svc.Start(ctx, "u-1", f.approved.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Session.ID, again.Session.ID)
}

func TestSimulationService_StartRejectsUnavailableCase(t *testing.T) {
	f := newSimFixture(t)
	ctx := context.Background()

	for _, id := range []string{f.pending.ID, "missing"} {
		_, _, err := f.svc.Start(ctx, "u-1", id)
		assert.ErrorIs(t, err, common.ErrorValidation)
		assert.Contains(t, err.Error(), msgCaseUnavailable)
	}

	_, _, err := f.svc.Start(ctx, "u-1", " ")
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Contains(t, err.Error(), msgCaseIDRequired)
}

func TestSimulationService_PostMessage(t *testing.T) {
	f := newSimFixture(t)
	ctx := context.Background()

	view, _, err := f.svc.Start(ctx, "u-1", f.approved.ID)
	require.NoError(t, err)

	reply, err := f.svc.PostMessage(ctx, view.Session.ID, "u-1", "  Qu'est-ce qui vous amène ?  ")
	require.NoError(t, err)
	assert.Equal(t, models.SenderPatient, reply.Sender)
	assert.Equal(t, "Je tousse depuis une semaine.", reply.Content)

	_, err = f.svc.PostMessage(ctx, view.Session.ID, "u-1", "Depuis quand ?")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, f.responder.seen)

	got, err := f.svc.Get(ctx, view.Session.ID, "u-1")
	require.NoError(t, err)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, models.SenderLearner, got.Messages[0].Sender)
	assert.Equal(t, "Qu'est-ce qui vous amène ?", got.Messages[0].Content)
}

func TestSimulationService_PostMessageErrors(t *testing.T) {
	f := newSimFixture(t)
	ctx := context.Background()

	view, _, err := f.svc.Start(ctx, "u-1", f.approved.ID)
	require.NoError(t, err)

	_, err = f.svc.PostMessage(ctx, view.Session.ID, "u-1", "   ")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = f.svc.PostMessage(ctx, view.Session.ID, "u-2", "Bonjour")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	f.responder.err = errors.New("offline")
	_, err = f.svc.PostMessage(ctx, view.Session.ID, "u-1", "Bonjour")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestSimulationService_End(t *testing.T) {
	f := newSimFixture(t)
	ctx := context.Background()
	end := time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return end }

	view, _, err := f.svc.Start(ctx, "u-1", f.approved.ID)
	require.NoError(t, err)

	done, err := f.svc.End(ctx, view.Session.ID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, models.SimulationCompleted, done.Session.Status)
	require.NotNil(t, done.Session.EndTime)
	assert.Equal(t, end, *done.Session.EndTime)

	_, err = f.svc.End(ctx, view.Session.ID, "u-1")
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = f.svc.PostMessage(ctx, view.Session.ID, "u-1", "Bonjour")
	assert.ErrorIs(t, err, common.ErrorValidation)

	next, created, err := f.svc.Start(ctx, "u-1", f.approved.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, view.Session.ID, next.Session.ID)
}

func TestSimulationService_List(t *testing.T) {
	f := newSimFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Start(ctx, "u-1", f.approved.ID)
	require.NoError(t, err)
	_, _, err = f.svc.Start(ctx, "u-2", f.approved.ID)
	require.NoError(t, err)

	list, err := f.svc.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Toux", list[0].Case.Title)
	assert.Nil(t, list[0].Messages)
}
