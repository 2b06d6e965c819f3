package amigos

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
)

type fakeAPI struct {
	amigos  []bff.Amigo
	scanErr error
	calls   []string
	tokens  int
}

func (f *fakeAPI) Amigos(ctx context.Context, storeID string) ([]bff.Amigo, error) {
	f.calls = append(f.calls, "amigos")
	return f.amigos, nil
}

func (f *fakeAPI) SearchUsers(ctx context.Context, query string) ([]bff.UserSummary, error) {
	f.calls = append(f.calls, "search:"+query)
	return []bff.UserSummary{{ID: "u1", Name: "Aki"}}, nil
}

func (f *fakeAPI) RequestAmigo(ctx context.Context, req bff.AmigoRequest) (*bff.Amigo, error) {
	f.calls = append(f.calls, "request:"+req.TargetUserID+"@"+req.StoreID)
	return &bff.Amigo{ID: "a1", TargetUserID: req.TargetUserID, Status: enums.AmigoStatusPending}, nil
}

func (f *fakeAPI) AcceptAmigo(ctx context.Context, amigoID string) (*bff.Amigo, error) {
	f.calls = append(f.calls, "accept:"+amigoID)
	return &bff.Amigo{ID: amigoID, Status: enums.AmigoStatusActive}, nil
}

func (f *fakeAPI) MyQR(ctx context.Context) (*bff.MyQR, error) {
	f.tokens++
	return &bff.MyQR{Token: fmt.Sprintf("tok-%d", f.tokens), Name: "Me", StoreName: "Bar Sakura"}, nil
}

func (f *fakeAPI) ScanAmigoQR(ctx context.Context, token string) (*bff.ScanResult, error) {
	f.calls = append(f.calls, "scan:"+token)
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return &bff.ScanResult{Success: true, AmigoID: "a9", Name: "Ken"}, nil
}

func newService(t *testing.T, api *fakeAPI) *service {
	t.Helper()
	svc, err := NewService(api, NewCodec(""))
	require.NoError(t, err)
	return svc.(*service)
}

func TestScanRejectsMalformedWithoutNetwork(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(t, api)

	_, err := svc.Scan(context.Background(), "https://example.com/abc")
	require.Error(t, err)
	assert.True(t, IsInvalidPayload(err))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, api.calls)
}

func TestScanSendsToken(t *testing.T) {
	api := &fakeAPI{}
	res, err := newService(t, api).Scan(context.Background(), "bottle-amigo:tok-1")
	require.NoError(t, err)
	assert.Equal(t, "Ken", res.Name)
	assert.Equal(t, []string{"scan:tok-1"}, api.calls)
}

func TestScanSurfacesServerMessage(t *testing.T) {
	api := &fakeAPI{scanErr: &bff.APIError{Status: 400, Message: "QRコードの有効期限が切れています"}}
	_, err := newService(t, api).Scan(context.Background(), "bottle-amigo:old")
	require.Error(t, err)
	assert.Equal(t, "QRコードの有効期限が切れています", pkgerrors.As(err).Message())
}

func TestMyQRRefreshes(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(t, api)
	now := time.Date(2026, 5, 1, 21, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	first, err := svc.MyQR(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bottle-amigo:tok-1", first.Payload)
	assert.Equal(t, now.Add(10*time.Minute), first.ExpiresAt)

	second, err := svc.MyQR(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.Payload, second.Payload)

	token, err := DecodePayload(second.Payload)
	require.NoError(t, err)
	assert.Equal(t, second.Token, token)
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(t, api)
	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), q)
		require.Error(t, err)
		assert.Equal(t, "検索ワードを入力してください", pkgerrors.As(err).Message())
	}
	assert.Empty(t, api.calls)

	users, err := svc.Search(context.Background(), " Aki ")
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, []string{"search:Aki"}, api.calls)
}

func TestRequestAndAccept(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(t, api)

	_, err := svc.Request(context.Background(), "u2", "bar-sakura-001")
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), "a1")
	require.NoError(t, err)
	_, err = svc.Request(context.Background(), " ", "")
	assert.Error(t, err)

	assert.Equal(t, []string{"request:u2@bar-sakura-001", "accept:a1"}, api.calls)
}

func TestPartitionOrderAndGroups(t *testing.T) {
	list := []bff.Amigo{
		{ID: "1", Status: enums.AmigoStatusActive},
		{ID: "2", Status: enums.AmigoStatusPending, CanAccept: false},
		{ID: "3", Status: enums.AmigoStatusPending, CanAccept: true},
	}
	g := Partition(list)
	require.Len(t, g.PendingReceived, 1)
	require.Len(t, g.PendingSent, 1)
	require.Len(t, g.Active, 1)
	assert.Equal(t, "3", g.PendingReceived[0].ID)
	assert.Equal(t, "2", g.PendingSent[0].ID)
	assert.Equal(t, "1", g.Active[0].ID)
}

func TestPartitionIsDisjointCover(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	statuses := []enums.AmigoStatus{enums.AmigoStatusActive, enums.AmigoStatusPending}
	for round := 0; round < 200; round++ {
		n := rng.Intn(20)
		list := make([]bff.Amigo, n)
		for i := range list {
			list[i] = bff.Amigo{
				ID:        fmt.Sprintf("%d-%d", round, i),
				Status:    statuses[rng.Intn(len(statuses))],
				CanAccept: rng.Intn(2) == 0,
			}
		}
		g := Partition(list)
		seen := map[string]int{}
		for _, group := range [][]bff.Amigo{g.PendingReceived, g.PendingSent, g.Active} {
			for _, a := range group {
				seen[a.ID]++
			}
		}
		require.Equal(t, n, g.Len())
		require.Len(t, seen, n)
		for id, count := range seen {
			require.Equal(t, 1, count, id)
		}
	}
}
