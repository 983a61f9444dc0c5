package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repos "github.com/yungbote/onboarding-backend/internal/data/repos/onboarding"
	"github.com/yungbote/onboarding-backend/internal/data/repos/testutil"
	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
	"github.com/yungbote/onboarding-backend/internal/observability"
	"github.com/yungbote/onboarding-backend/internal/platform/logger"
)

const threeProducts = `{
	"businessName": "Oak & Ember",
	"products": [
		{"id": "0b7c1f3e-2a4d-4e6f-8a9b-1c2d3e4f5a6b", "name": "Soap", "description": "Olive oil soap bar", "price": 6.5},
		{"id": "1c8d2a4f-3b5e-4f70-9bac-2d3e4f5a6b7c", "name": "Candle", "description": "Soy wax candle jar"},
		{"id": "2d9e3b50-4c6f-4a81-acbd-3e4f5a6b7c8d", "name": "Balm", "description": "Beeswax lip balm tin"}
	]
}`

var productIDs = []string{
	"0b7c1f3e-2a4d-4e6f-8a9b-1c2d3e4f5a6b",
	"1c8d2a4f-3b5e-4f70-9bac-2d3e4f5a6b7c",
	"2d9e3b50-4c6f-4a81-acbd-3e4f5a6b7c8d",
}

type harness struct {
	svc   *onboardingService
	store *sessionStore
	m     *observability.Metrics
}

func newHarness(t *testing.T, repo repos.SessionRecordRepo) *harness {
	t.Helper()
	m := observability.New(time.Second)
	store := newTestStore(repo, m, time.Now().UTC())
	svc := NewOnboardingService(logger.Nop(), store, NewPhotoLifecycle(logger.Nop(), &countingObjects{}, m), nil, m).(*onboardingService)
	return &harness{svc: svc, store: store, m: m}
}

func (h *harness) at(ts time.Time) {
	h.store.now = fixedClock(ts)
	h.svc.now = fixedClock(ts)
}

func patchOf(t *testing.T, raw string) onboarding.FormData {
	t.Helper()
	var fd onboarding.FormData
	require.NoError(t, json.Unmarshal([]byte(raw), &fd))
	return fd
}

func TestUpdateRoundTripKeepsProductIdentity(t *testing.T) {
	for name, repo := range map[string]func(t *testing.T) repos.SessionRecordRepo{
		"memory": func(*testing.T) repos.SessionRecordRepo { return newCountingRepo() },
		"sqlite": func(t *testing.T) repos.SessionRecordRepo {
			return repos.NewSessionRecordRepo(testutil.DB(t), testutil.Logger(t))
		},
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, repo(t))
			ctx := context.Background()
			t0 := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
			h.at(t0)

			boot, err := h.svc.Bootstrap(ctx)
			require.NoError(t, err)
			sid := boot.SessionID.String()

			t1 := t0.Add(time.Minute)
			h.at(t1)
			res, err := h.svc.Update(ctx, UpdateInput{SessionID: sid, CurrentStep: 3, FormData: patchOf(t, threeProducts)})
			require.NoError(t, err)
			assert.True(t, res.LastSaved.Equal(t1))

			first, err := h.svc.Get(ctx, sid)
			require.NoError(t, err)
			ps := first.FormData.ProductList()
			require.Len(t, ps, 3)
			for i, p := range ps {
				assert.Equal(t, productIDs[i], p.ID)
				assert.Equal(t, i, p.DisplayOrder)
				assert.True(t, p.CreatedAt.Equal(t1), "product %d createdAt", i)
			}

			// Sending the same document again only moves the save timestamps.
			t2 := t1.Add(time.Minute)
			h.at(t2)
			_, err = h.svc.Update(ctx, UpdateInput{SessionID: sid, CurrentStep: 3, FormData: patchOf(t, threeProducts)})
			require.NoError(t, err)

			second, err := h.svc.Get(ctx, sid)
			require.NoError(t, err)
			assert.Equal(t, first.CurrentStep, second.CurrentStep)
			assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
			assert.True(t, second.UpdatedAt.Equal(t2))
			assert.True(t, second.LastActivity.Equal(t2))
			assert.JSONEq(t, string(first.FormData.Extra["businessName"]), string(second.FormData.Extra["businessName"]))
			ps2 := second.FormData.ProductList()
			require.Len(t, ps2, 3)
			for i := range ps2 {
				assert.Equal(t, ps[i].ID, ps2[i].ID)
				assert.Equal(t, ps[i].Name, ps2[i].Name)
				assert.Equal(t, ps[i].DisplayOrder, ps2[i].DisplayOrder)
				assert.True(t, ps2[i].CreatedAt.Equal(ps[i].CreatedAt))
			}
		})
	}
}

func TestUpdateRejectsInvalidPatchWithoutWriting(t *testing.T) {
	repo := newCountingRepo()
	h := newHarness(t, repo)
	ctx := context.Background()

	boot, err := h.svc.Bootstrap(ctx)
	require.NoError(t, err)
	before := repo.rows[boot.SessionID]

	_, err = h.svc.Update(ctx, UpdateInput{
		SessionID:   boot.SessionID.String(),
		CurrentStep: 3,
		FormData:    patchOf(t, `{"products":[{"id":"`+uuid.NewString()+`","name":"ab","description":"Olive oil soap bar","price":19.999}]}`),
	})
	var ve *onboarding.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "products[0].name", ve.Violations[0].Field)
	assert.Equal(t, float64(1), h.m.ValidationFailureCount("products"))
	assert.Equal(t, before, repo.rows[boot.SessionID])
}

func TestUpdateRejectsOutOfRangeStep(t *testing.T) {
	h := newHarness(t, newCountingRepo())
	boot, err := h.svc.Bootstrap(context.Background())
	require.NoError(t, err)

	_, err = h.svc.Update(context.Background(), UpdateInput{SessionID: boot.SessionID.String(), CurrentStep: 7})
	var ve *onboarding.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "currentStep", ve.Violations[0].Field)
}

func TestUpdateMalformedIDTouchesNothing(t *testing.T) {
	repo := newCountingRepo()
	h := newHarness(t, repo)

	_, err := h.svc.Update(context.Background(), UpdateInput{SessionID: "abc", CurrentStep: 1})
	assert.True(t, onboarding.IsFormatError(err))
	assert.Equal(t, 0, repo.Calls())
}

func TestUpdateUnknownSession(t *testing.T) {
	h := newHarness(t, newCountingRepo())
	_, err := h.svc.Update(context.Background(), UpdateInput{SessionID: uuid.NewString(), CurrentStep: 1})
	assert.ErrorIs(t, err, onboarding.ErrNotFound)
}

func TestStepsIsACopy(t *testing.T) {
	h := newHarness(t, newCountingRepo())
	steps := h.svc.Steps()
	require.Len(t, steps, 7)
	steps[0].Key = "mutated"
	assert.Equal(t, onboarding.StepWelcome, onboarding.Steps[0].Key)
}
