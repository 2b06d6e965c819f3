package customers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/internal/bottles"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
)

type fakeAPI struct {
	customers  []bff.Customer
	detail     *bff.CustomerDetail
	memos      []bff.MemoRequest
	checkinErr error
	ended      *bff.EndedCheckin
}

func (f *fakeAPI) Customers(ctx context.Context, storeID string) ([]bff.Customer, error) {
	return f.customers, nil
}

func (f *fakeAPI) CustomerDetail(ctx context.Context, storeID, userID string) (*bff.CustomerDetail, error) {
	if f.detail == nil {
		return nil, &bff.APIError{Status: http.StatusNotFound, Message: "Not Found"}
	}
	return f.detail, nil
}

func (f *fakeAPI) CustomerSummary(ctx context.Context, storeID, userID string) (*bff.CustomerSummary, error) {
	return &bff.CustomerSummary{User: bff.Ref{ID: userID}}, nil
}

func (f *fakeAPI) CreateMemo(ctx context.Context, req bff.MemoRequest) (*bff.Memo, error) {
	f.memos = append(f.memos, req)
	return &bff.Memo{ID: "memo-1", Body: req.Body}, nil
}

func (f *fakeAPI) CreateStoreCheckin(ctx context.Context, req bff.StaffCheckinRequest) (*bff.StaffCheckin, error) {
	if f.checkinErr != nil {
		return nil, f.checkinErr
	}
	return &bff.StaffCheckin{ID: "c1", UserID: req.UserID, Status: enums.CheckinStatusActive}, nil
}

func (f *fakeAPI) EndStoreCheckin(ctx context.Context, checkinID string) (*bff.EndedCheckin, error) {
	return f.ended, nil
}

var bartender = &session.Session{Portal: enums.PortalStaff, Role: enums.StaffRoleBartender, StoreID: "bar-sakura-001", SubjectID: "s-bar"}

func newService(t *testing.T, api *fakeAPI) Service {
	t.Helper()
	svc, err := NewService(api, nil)
	require.NoError(t, err)
	return svc
}

func TestListFiltersByNameOrNickname(t *testing.T) {
	api := &fakeAPI{customers: []bff.Customer{
		{ID: "u1", Name: "Taro Yamada", Nickname: "たろう"},
		{ID: "u2", Name: "Hanako"},
	}}
	svc := newService(t, api)

	all, err := svc.List(context.Background(), bartender, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, _ := svc.List(context.Background(), bartender, "yamada")
	require.Len(t, byName, 1)
	assert.Equal(t, "u1", byName[0].ID)

	byNick, _ := svc.List(context.Background(), bartender, "たろ")
	require.Len(t, byNick, 1)
	assert.Equal(t, "u1", byNick[0].ID)
}

func TestDetailBuildsPageModel(t *testing.T) {
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	api := &fakeAPI{detail: &bff.CustomerDetail{
		ID:       "u1",
		Name:     "Taro",
		Nickname: "たろう",
		Bottles: []bff.StoreBottle{
			{ID: "b1", Type: "山崎", CapacityMl: 750, RemainingMl: 150},
			{ID: "b2", Type: "響", CapacityMl: 700, RemainingMl: 700},
		},
		Shares: []bff.CustomerShare{
			{ID: "s2", BottleID: "b1", SharedToID: "u2", SharedToName: "Hanako", Active: true, CreatedAt: bff.Time{Time: base.Add(time.Hour)}},
		},
		ShareHistory: []bff.CustomerShare{
			{ID: "s2", BottleID: "b1", SharedToID: "u2", SharedToName: "Hanako", Active: true, CreatedAt: bff.Time{Time: base.Add(time.Hour)}},
			{ID: "s1", BottleID: "b1", SharedToID: "u3", SharedToName: "Jiro", CreatedAt: bff.Time{Time: base}, EndedAt: bff.Time{Time: base.Add(30 * time.Minute)}},
		},
		Memos: []bff.Memo{
			{ID: "m1", Body: "old", CreatedAt: bff.Time{Time: base}},
			{ID: "m2", Body: "new", CreatedAt: bff.Time{Time: base.Add(time.Hour)}},
		},
		BottleHistories: map[string][]bff.HistoryEntry{
			"b1": {
				{ID: "h1", PreviousMl: 750, NewMl: 300, ChangeType: enums.BottleChangeUpdate, CreatedAt: bff.Time{Time: base}},
				{ID: "h2", PreviousMl: 300, NewMl: 150, ChangeType: enums.BottleChangeUpdate, CreatedAt: bff.Time{Time: base.Add(time.Hour)}},
			},
		},
	}}
	svc := newService(t, api)

	detail, err := svc.Detail(context.Background(), bartender, "u1")
	require.NoError(t, err)
	assert.Equal(t, "たろう", detail.Name)

	require.Len(t, detail.Bottles, 2)
	assert.Equal(t, 20, detail.Bottles[0].Pct)
	assert.Equal(t, bottles.TierLow, detail.Bottles[0].Tier)
	assert.Equal(t, bottles.StatePartial, detail.Bottles[0].State)
	require.Len(t, detail.Bottles[0].History, 2)
	assert.Equal(t, "h2", detail.Bottles[0].History[0].ID)
	assert.Equal(t, bottles.StateUnopened, detail.Bottles[1].State)
	assert.Empty(t, detail.Bottles[1].History)

	require.Len(t, detail.ActiveShares, 1)
	assert.Equal(t, "s2", detail.ActiveShares[0].ID)
	require.Len(t, detail.EndedShares, 1)
	assert.Equal(t, "s1", detail.EndedShares[0].ID)

	assert.Equal(t, "m2", detail.Memos[0].ID)
}

func TestDetailNotFound(t *testing.T) {
	_, err := newService(t, &fakeAPI{}).Detail(context.Background(), bartender, "ghost")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAddMemoRequiresBody(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(t, api)

	_, err := svc.AddMemo(context.Background(), bartender, "u1", " \n ")
	require.Error(t, err)
	assert.Equal(t, "メモを入力してください", pkgerrors.As(err).Message())
	assert.Empty(t, api.memos)

	_, err = svc.AddMemo(context.Background(), bartender, "u1", "ハイボール濃いめ")
	require.NoError(t, err)
	require.Len(t, api.memos, 1)
	assert.Equal(t, "bar-sakura-001", api.memos[0].StoreID)
}

func TestCheckinConflict(t *testing.T) {
	api := &fakeAPI{checkinErr: &bff.APIError{Status: http.StatusConflict, Message: "Already checked in"}}
	_, err := newService(t, api).Checkin(context.Background(), bartender, "u1")
	require.Error(t, err)
	assert.Equal(t, "既にチェックイン中です", pkgerrors.As(err).Message())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	api.checkinErr = errors.New("dial tcp: refused")
	_, err = newService(t, api).Checkin(context.Background(), bartender, "u1")
	assert.Equal(t, "チェックインに失敗しました", pkgerrors.As(err).Message())
}

func TestEndCheckinPreparesUpdates(t *testing.T) {
	api := &fakeAPI{ended: &bff.EndedCheckin{
		ID:      "c1",
		Bottles: []bff.StoreBottle{{ID: "b1", CapacityMl: 750, RemainingMl: 400}},
	}}
	out, err := newService(t, api).EndCheckin(context.Background(), bartender, "c1")
	require.NoError(t, err)
	assert.Equal(t, enums.CheckinStatusEnded, out.Checkin.Status)
	assert.Equal(t, []bottles.Update{{BottleID: "b1", CapacityMl: 750, Ml: 400}}, out.Updates)
}

func TestRequiresStaffSession(t *testing.T) {
	consumer := &session.Session{Portal: enums.PortalConsumer, SubjectID: "u1"}
	_, err := newService(t, &fakeAPI{}).List(context.Background(), consumer, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}
