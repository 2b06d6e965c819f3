package bottles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
)

// fakeStore keeps bottles in memory and applies the same clamping rules as
// the BFF so invariants can be checked after every mutation.
type fakeStore struct {
	bottles  map[string]*bff.StoreBottle
	history  map[string][]bff.HistoryEntry
	failIDs  map[string]bool
	expired  bool
	calls    int
	lastGift bff.GiftRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bottles: map[string]*bff.StoreBottle{
			"b1": {ID: "b1", Type: "山崎", CapacityMl: 750, RemainingMl: 300},
			"b2": {ID: "b2", Type: "白州", CapacityMl: 700, RemainingMl: 700},
		},
		history: map[string][]bff.HistoryEntry{},
		failIDs: map[string]bool{},
	}
}

func (f *fakeStore) apply(id string, newMl int, change enums.BottleChangeType) (*bff.StoreBottle, error) {
	b, ok := f.bottles[id]
	if !ok {
		return nil, &bff.APIError{Status: 404, Message: "Bottle not found"}
	}
	if newMl > b.CapacityMl {
		newMl = b.CapacityMl
	}
	if newMl < 0 {
		newMl = 0
	}
	f.history[id] = append(f.history[id], bff.HistoryEntry{
		PreviousMl: b.RemainingMl,
		NewMl:      newMl,
		ChangeType: change,
		CreatedAt:  bff.Time{Time: time.Now().Add(time.Duration(len(f.history[id])) * time.Second)},
	})
	b.RemainingMl = newMl
	b.RemainingPct = PctOf(newMl, b.CapacityMl)
	out := *b
	return &out, nil
}

func (f *fakeStore) UpdateRemaining(ctx context.Context, bottleID string, req bff.RemainingUpdate) (*bff.StoreBottle, error) {
	f.calls++
	if f.expired {
		return nil, bff.ErrUnauthorized
	}
	if f.failIDs[bottleID] {
		return nil, &bff.APIError{Status: 500, Message: "boom"}
	}
	return f.apply(bottleID, req.RemainingMl, enums.BottleChangeUpdate)
}

func (f *fakeStore) RefillToFull(ctx context.Context, storeID, bottleID string) (*bff.StoreBottle, error) {
	f.calls++
	b, ok := f.bottles[bottleID]
	if !ok {
		return nil, &bff.APIError{Status: 404}
	}
	return f.apply(bottleID, b.CapacityMl, enums.BottleChangeRefill)
}

func (f *fakeStore) AddBottle(ctx context.Context, req bff.NewBottleRequest) (*bff.StoreBottle, error) {
	f.calls++
	b := &bff.StoreBottle{ID: "new", Type: req.Type, CapacityMl: req.CapacityMl, RemainingMl: *req.RemainingMl}
	f.bottles[b.ID] = b
	out := *b
	return &out, nil
}

func (f *fakeStore) CreateGift(ctx context.Context, req bff.GiftRequest) (*bff.Gift, error) {
	f.calls++
	f.lastGift = req
	b, ok := f.bottles[req.BottleID]
	if !ok {
		return nil, &bff.APIError{Status: 404}
	}
	if _, err := f.apply(req.BottleID, b.RemainingMl+GiftAddMl(b.CapacityMl, req.AddPct), enums.BottleChangeGift); err != nil {
		return nil, err
	}
	return &bff.Gift{ID: "g1", BottleID: req.BottleID, AddPct: req.AddPct, Reason: req.Reason, Status: "applied"}, nil
}

func (f *fakeStore) BottleKeeps(ctx context.Context, storeID string) ([]bff.BottleKeep, error) {
	var out []bff.BottleKeep
	for _, id := range []string{"b1", "b2"} {
		b := f.bottles[id]
		out = append(out, bff.BottleKeep{ID: b.ID, Type: b.Type, CapacityMl: b.CapacityMl, RemainingMl: b.RemainingMl, Consumption: f.history[id]})
	}
	return out, nil
}

func (f *fakeStore) assertInvariant(t *testing.T) {
	t.Helper()
	for id, b := range f.bottles {
		assert.GreaterOrEqual(t, b.RemainingMl, 0, id)
		assert.LessOrEqual(t, b.RemainingMl, b.CapacityMl, id)
	}
}

var (
	mama      = &session.Session{Portal: enums.PortalStaff, Role: enums.StaffRoleMama, StoreID: "bar-sakura-001"}
	bartender = &session.Session{Portal: enums.PortalStaff, Role: enums.StaffRoleBartender, StoreID: "bar-sakura-001"}
)

func storeService(t *testing.T, store *fakeStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Store: store})
	require.NoError(t, err)
	return svc
}

func TestGiftScenario(t *testing.T) {
	store := newFakeStore()
	svc := storeService(t, store)

	outcome, err := svc.Gift(context.Background(), mama, Gift{
		TargetUserID: "u1",
		BottleID:     "b1",
		AddPct:       10,
		Reason:       " 誕生日 ",
		CapacityMl:   750,
		PreviousMl:   300,
	})
	require.NoError(t, err)
	assert.Equal(t, 375, outcome.ExpectedMl)
	assert.Equal(t, "誕生日", store.lastGift.Reason)
	assert.Equal(t, "bar-sakura-001", store.lastGift.StoreID)

	keeps, err := svc.Keeps(context.Background(), "bar-sakura-001")
	require.NoError(t, err)
	assert.Equal(t, 375, keeps[0].RemainingMl)
	require.Len(t, keeps[0].History, 1)
	assert.Equal(t, enums.BottleChangeGift, keeps[0].History[0].ChangeType)
	assert.Equal(t, 75, keeps[0].History[0].DeltaMl)
	store.assertInvariant(t)
}

func TestGiftValidation(t *testing.T) {
	store := newFakeStore()
	svc := storeService(t, store)
	ctx := context.Background()

	_, err := svc.Gift(ctx, bartender, Gift{TargetUserID: "u1", BottleID: "b1", AddPct: 10, Reason: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = svc.Gift(ctx, mama, Gift{TargetUserID: "u1", BottleID: "b1", AddPct: 10, Reason: "  "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Gift(ctx, mama, Gift{TargetUserID: "u1", BottleID: "b1", AddPct: 0, Reason: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	assert.Zero(t, store.calls, "invalid gifts never reach the BFF")
}

func TestSetRemainingRejectsOutOfRange(t *testing.T) {
	store := newFakeStore()
	svc := storeService(t, store)

	_, err := svc.SetRemaining(context.Background(), "s", "b1", 750, 751)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = svc.SetRemaining(context.Background(), "s", "b1", 750, -1)
	require.Error(t, err)
	assert.Zero(t, store.calls)

	updated, err := svc.SetRemaining(context.Background(), "s", "b1", 750, 120)
	require.NoError(t, err)
	assert.Equal(t, 120, updated.RemainingMl)
	store.assertInvariant(t)
}

func TestSaveBatchReportsCounts(t *testing.T) {
	store := newFakeStore()
	store.failIDs["b2"] = true
	svc := storeService(t, store)

	result := svc.SaveBatch(context.Background(), "s", []Update{
		{BottleID: "b1", CapacityMl: 750, Ml: 100},
		{BottleID: "b2", CapacityMl: 700, Ml: 600},
		{BottleID: "b1", CapacityMl: 750, Ml: 900},
	})
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, multierr.Errors(result.Err), 2)
	assert.Equal(t, []string{"1本の残量を保存しました", "2本の更新に失敗しました"}, result.Toasts())
	store.assertInvariant(t)
}

func TestSaveBatchStopsOnExpiredSession(t *testing.T) {
	store := newFakeStore()
	store.expired = true
	svc := storeService(t, store)

	result := svc.SaveBatch(context.Background(), "s", []Update{
		{BottleID: "b1", CapacityMl: 750, Ml: 100},
		{BottleID: "b2", CapacityMl: 700, Ml: 600},
		{BottleID: "b1", CapacityMl: 750, Ml: 200},
		{BottleID: "b2", CapacityMl: 700, Ml: 300},
	})
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, errors.Is(result.Err, bff.ErrUnauthorized))
}

func TestSaveBatchCountsUnreadableRows(t *testing.T) {
	store := newFakeStore()
	svc := storeService(t, store)

	result := svc.SaveBatch(context.Background(), "s", []Update{
		{BottleID: "b1", CapacityMl: 750, Ml: 100},
		{BottleID: "b2", Err: pkgerrors.New(pkgerrors.CodeValidation, "ml must be a number")},
	})
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 700, store.bottles["b2"].RemainingMl)
	assert.Equal(t, []string{"1本の残量を保存しました", "1本の更新に失敗しました"}, result.Toasts())
}

func TestSaveBatchAllSucceeded(t *testing.T) {
	svc := storeService(t, newFakeStore())
	result := svc.SaveBatch(context.Background(), "s", []Update{
		{BottleID: "b1", CapacityMl: 750, Ml: 0},
		{BottleID: "b2", CapacityMl: 700, Ml: 350},
	})
	require.NoError(t, result.Err)
	assert.Equal(t, []string{"2本の残量を保存しました"}, result.Toasts())
}

func TestRefillRequiresMama(t *testing.T) {
	store := newFakeStore()
	svc := storeService(t, store)

	_, err := svc.RefillToFull(context.Background(), bartender, "b1")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.Zero(t, store.calls)

	bottle, err := svc.RefillToFull(context.Background(), mama, "b1")
	require.NoError(t, err)
	assert.Equal(t, 750, bottle.RemainingMl)
	store.assertInvariant(t)
}

func TestCreateDefaults(t *testing.T) {
	store := newFakeStore()
	svc := storeService(t, store)
	ctx := context.Background()

	created, err := svc.Create(ctx, NewBottle{StoreID: "s", OwnerUserID: "u1", Type: "響"})
	require.NoError(t, err)
	assert.Equal(t, 750, created.CapacityMl)
	assert.Equal(t, 750, created.RemainingMl)

	half := 350
	created, err = svc.Create(ctx, NewBottle{StoreID: "s", OwnerUserID: "u1", Type: "響", CapacityMl: 700, RemainingMl: &half})
	require.NoError(t, err)
	assert.Equal(t, 350, created.RemainingMl)

	over := 701
	_, err = svc.Create(ctx, NewBottle{StoreID: "s", OwnerUserID: "u1", Type: "響", CapacityMl: 700, RemainingMl: &over})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, NewBottle{StoreID: "s", OwnerUserID: "u1", Type: " "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	store.assertInvariant(t)
}

func TestHistoryNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	entries := []bff.HistoryEntry{
		{ID: "old", ChangeType: enums.BottleChangeUpdate, CreatedAt: bff.Time{Time: base}},
		{ID: "new", ChangeType: enums.BottleChangeRefill, CreatedAt: bff.Time{Time: base.Add(time.Hour)}},
		{ID: "mid", ChangeType: enums.BottleChangeGift, CreatedAt: bff.Time{Time: base.Add(time.Minute)}},
	}
	lines := History(entries)
	require.Len(t, lines, 3)
	assert.Equal(t, "new", lines[0].ID)
	assert.Equal(t, "mid", lines[1].ID)
	assert.Equal(t, "old", lines[2].ID)
	assert.Equal(t, "old", entries[0].ID, "input order untouched")
	assert.Equal(t, "満量補充", lines[0].Label)
}

func TestPartitionShares(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	shares := []ShareLine{
		{ID: "s1", BottleID: "b1", SharedToID: "u1", Active: true, CreatedAt: base},
		{ID: "s2", BottleID: "b1", SharedToID: "u2", Active: false, CreatedAt: base.Add(time.Hour)},
		{ID: "s3", BottleID: "b1", SharedToID: "u1", Active: true, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "s4", BottleID: "b1", SharedToID: "u3", Active: true, CreatedAt: base.Add(3 * time.Hour)},
	}
	active, ended := PartitionShares(shares)
	assert.Len(t, active, 2)
	assert.Equal(t, "s4", active[0].ID)
	assert.Equal(t, "s3", active[1].ID)
	assert.Len(t, ended, 2)
	assert.Equal(t, len(shares), len(active)+len(ended))
}

type fakeConsumer struct {
	bottles []bff.Bottle
	detail  *bff.BottleDetail
	shared  []bff.ShareRequest
	err     error
}

func (f *fakeConsumer) Bottles(ctx context.Context) ([]bff.Bottle, error) { return f.bottles, f.err }

func (f *fakeConsumer) BottleDetail(ctx context.Context, bottleID string) (*bff.BottleDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func (f *fakeConsumer) CreateShare(ctx context.Context, req bff.ShareRequest) (*bff.Share, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.shared = append(f.shared, req)
	return &bff.Share{ID: "sh1", BottleID: req.BottleID, SharedToUserID: req.SharedToUserID, Active: true}, nil
}

func (f *fakeConsumer) EndShare(ctx context.Context, shareID string) (*bff.Share, error) {
	return &bff.Share{ID: shareID, Active: false}, f.err
}

func TestConsumerShelfAndDetail(t *testing.T) {
	consumer := &fakeConsumer{
		bottles: []bff.Bottle{
			{ID: "b1", CapacityMl: 750, RemainingMl: 150},
			{ID: "b9", CapacityMl: 750, RemainingMl: 750, ShareID: "sh", SharedByUserName: "Ken"},
		},
		detail: &bff.BottleDetail{
			Bottle: bff.Bottle{ID: "b1", CapacityMl: 750, RemainingMl: 150},
			Shares: []bff.BottleShareRef{{ID: "sh1", SharedToUserID: "u2", User: bff.Ref{ID: "u2", Name: "Aki"}}},
		},
	}
	svc, err := NewService(ServiceParams{Consumer: consumer})
	require.NoError(t, err)

	shelf, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, shelf.Own, 1)
	require.Len(t, shelf.Shared, 1)
	assert.Equal(t, TierLow, shelf.Own[0].Tier)
	assert.Equal(t, StateUnopened, shelf.Shared[0].State)

	detail, err := svc.Detail(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, detail.ActiveShare, 1)
	assert.Equal(t, "Aki", detail.ActiveShare[0].SharedToName)
	assert.Empty(t, detail.EndedShare)

	_, err = svc.Share(context.Background(), "b1", "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, consumer.shared)
}

func TestShareSurfacesServerMessage(t *testing.T) {
	consumer := &fakeConsumer{err: &bff.APIError{Status: 409, Message: "すでにシェア中です"}}
	svc, err := NewService(ServiceParams{Consumer: consumer})
	require.NoError(t, err)

	_, err = svc.Share(context.Background(), "b1", "u2")
	require.Error(t, err)
	assert.Equal(t, "すでにシェア中です", pkgerrors.As(err).Message())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	consumer.err = errors.New("dial tcp: refused")
	_, err = svc.Share(context.Background(), "b1", "u2")
	assert.Equal(t, "シェアに失敗しました", pkgerrors.As(err).Message())
}
