package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/directory"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func syncDirectory(n int) directory.UserDirectory {
	entries := make([]directory.Entry, 0, n)
	for i := 0; i < n; i++ {
		phone := fmt.Sprintf("+55219000000%02d", i)
		entries = append(entries, directory.Entry{Phone: phone, Document: fmt.Sprintf("doc-%02d", i)})
	}
	return directory.NewStatic(entries)
}

func newTestSync(gw Gateway, dir directory.UserDirectory, batchSize int) (*SyncOrchestrator, *fakeStore, *fakeNotifier) {
	userStore := newFakeStore()
	notifier := &fakeNotifier{}
	recon := NewReconstructor(gw, dir, zap.NewNop())
	negotiation := NewNegotiation(recon, gw, userStore, notifier, zap.NewNop())
	orchestrator := NewSyncOrchestrator(negotiation, dir, nil, batchSize, time.Millisecond, zap.NewNop())
	return orchestrator, userStore, notifier
}

func TestSyncAllBatches(t *testing.T) {
	gw := newHappyGateway()
	dir := syncDirectory(7)
	orchestrator, userStore, _ := newTestSync(gw, dir, 2)

	result, started := orchestrator.SyncAll(context.Background())
	require.True(t, started)

	// Seven users at batch size two means four batches.
	assert.Equal(t, 7, result.Total)
	assert.Equal(t, 7, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 4, result.Batches)

	all, err := dir.All(context.Background())
	require.NoError(t, err)
	for _, entry := range all {
		stored, ok := userStore.record(entry.Phone)
		require.True(t, ok, "every directory user gets a record")
		assert.Equal(t, models.TagOptionsComputed, stored.StatusTag)
	}
}

func TestSyncAllOneFailureDoesNotAbort(t *testing.T) {
	gw := newHappyGateway()
	gw.authenticateFn = func(document string) (string, error) {
		if document == "doc-03" {
			return "", errors.Join(models.ErrAuthFailed, errors.New("status 401"))
		}
		return "tok-1", nil
	}
	dir := syncDirectory(7)
	orchestrator, userStore, notifier := newTestSync(gw, dir, 2)

	result, started := orchestrator.SyncAll(context.Background())
	require.True(t, started)
	assert.Equal(t, 7, result.Total)
	assert.Equal(t, 6, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 4, result.Batches)

	stored, ok := userStore.record("+5521900000003")
	require.True(t, ok)
	assert.Equal(t, models.TagEscalateAuth, stored.StatusTag)

	events := notifier.published()
	require.Len(t, events, 1)
	assert.Equal(t, models.TagEscalateAuth, events[0].Tag)
}

func TestSyncAllEmptyDirectory(t *testing.T) {
	gw := newHappyGateway()
	orchestrator, _, _ := newTestSync(gw, syncDirectory(0), 2)

	result, started := orchestrator.SyncAll(context.Background())
	require.True(t, started)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, result.Batches)
}

func TestSyncAllSingleUserSingleBatch(t *testing.T) {
	gw := newHappyGateway()
	orchestrator, _, _ := newTestSync(gw, syncDirectory(1), 2)

	result, started := orchestrator.SyncAll(context.Background())
	require.True(t, started)
	assert.Equal(t, 1, result.Batches)
}

func TestSyncAllCancellationStopsBetweenBatches(t *testing.T) {
	gw := newHappyGateway()
	dir := syncDirectory(6)
	userStore := newFakeStore()
	recon := NewReconstructor(gw, dir, zap.NewNop())
	negotiation := NewNegotiation(recon, gw, userStore, &fakeNotifier{}, zap.NewNop())
	orchestrator := NewSyncOrchestrator(negotiation, dir, nil, 2, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, started := orchestrator.SyncAll(ctx)
	require.True(t, started)

	// The first batch runs, the inter-batch delay observes the cancel.
	assert.Equal(t, 1, result.Batches)
	assert.Equal(t, 2, result.Succeeded+result.Failed)
}

func TestSyncAllBatchSizeFloor(t *testing.T) {
	gw := newHappyGateway()
	orchestrator, _, _ := newTestSync(gw, syncDirectory(3), 0)

	result, started := orchestrator.SyncAll(context.Background())
	require.True(t, started)
	assert.Equal(t, 3, result.Batches, "batch size below one is clamped to one")
}

func TestSyncOnePanicIsContained(t *testing.T) {
	gw := newHappyGateway()
	gw.creditorsFn = func(string) (models.CredoresResponse, error) {
		panic("upstream payload exploded the decoder")
	}
	dir := syncDirectory(2)
	orchestrator, _, _ := newTestSync(gw, dir, 2)

	result, started := orchestrator.SyncAll(context.Background())
	require.True(t, started)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 0, result.Succeeded)
}
