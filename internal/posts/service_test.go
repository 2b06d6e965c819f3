package posts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
)

type fakeAPI struct {
	posts   []bff.Post
	created []bff.PostRequest
	deleted []string
}

func (f *fakeAPI) Posts(ctx context.Context, storeID string) ([]bff.Post, error) {
	return f.posts, nil
}

func (f *fakeAPI) CreatePost(ctx context.Context, req bff.PostRequest) (*bff.Post, error) {
	f.created = append(f.created, req)
	return &bff.Post{ID: "p1", Type: req.Type, Title: req.Title, Body: req.Body}, nil
}

func (f *fakeAPI) UpdatePost(ctx context.Context, postID string, req bff.PostRequest) (*bff.Post, error) {
	return &bff.Post{ID: postID, Type: req.Type, Title: req.Title, Body: req.Body}, nil
}

func (f *fakeAPI) DeletePost(ctx context.Context, storeID, postID string) error {
	f.deleted = append(f.deleted, storeID+"/"+postID)
	return nil
}

var staffer = &session.Session{Portal: enums.PortalStaff, Role: enums.StaffRoleBartender, StoreID: "bar-sakura-001"}

func TestInputValidate(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		msg  string
	}{
		{"event needs title", Input{Type: enums.PostTypeEvent, Body: "ライブ"}, "イベントにはタイトルが必要です"},
		{"body required", Input{Type: enums.PostTypeMemo, Body: "  "}, "本文を入力してください"},
		{"unknown type", Input{Type: "ad", Body: "x"}, "投稿タイプが不正です"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			require.Error(t, err)
			assert.Equal(t, tc.msg, pkgerrors.As(err).Message())
		})
	}
	assert.NoError(t, Input{Type: enums.PostTypeIntro, Body: "新人です"}.Validate())
	assert.NoError(t, Input{Type: enums.PostTypeEvent, Title: "ジャズの夜", Body: "20時から"}.Validate())
}

func TestCreateScopesToStore(t *testing.T) {
	api := &fakeAPI{}
	svc, err := NewService(api)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), staffer, Input{Type: enums.PostTypeMemo, Body: " 本日貸切 "})
	require.NoError(t, err)
	require.Len(t, api.created, 1)
	assert.Equal(t, "bar-sakura-001", api.created[0].StoreID)
	assert.Equal(t, "本日貸切", api.created[0].Body)

	_, err = svc.Create(context.Background(), staffer, Input{Type: enums.PostTypeEvent, Body: "x"})
	assert.Error(t, err)
	assert.Len(t, api.created, 1)

	_, err = svc.Create(context.Background(), nil, Input{Type: enums.PostTypeMemo, Body: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestListNewestFirstWithLabels(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	api := &fakeAPI{posts: []bff.Post{
		{ID: "old", Type: enums.PostTypeIntro, CreatedAt: bff.Time{Time: base}},
		{ID: "new", Type: enums.PostTypeEvent, CreatedAt: bff.Time{Time: base.Add(time.Hour)}},
	}}
	svc, _ := NewService(api)
	lines, err := svc.List(context.Background(), staffer)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "new", lines[0].ID)
	assert.Equal(t, "イベント", lines[0].Label)
	assert.Equal(t, "紹介", lines[1].Label)
}

func TestDelete(t *testing.T) {
	api := &fakeAPI{}
	svc, _ := NewService(api)
	require.NoError(t, svc.Delete(context.Background(), staffer, "p9"))
	assert.Equal(t, []string{"bar-sakura-001/p9"}, api.deleted)
	assert.Error(t, svc.Delete(context.Background(), staffer, ""))
}

func TestEveryTypeHasLabel(t *testing.T) {
	for _, typ := range enums.PostTypes() {
		assert.NotEqual(t, string(typ), TypeLabel(typ))
	}
}
