package posts

import (
	"context"
	"sort"
	"strings"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

type API interface {
	Posts(ctx context.Context, storeID string) ([]bff.Post, error)
	CreatePost(ctx context.Context, req bff.PostRequest) (*bff.Post, error)
	UpdatePost(ctx context.Context, postID string, req bff.PostRequest) (*bff.Post, error)
	DeletePost(ctx context.Context, storeID, postID string) error
}

// Service manages the posts of the caller's store.
type Service interface {
	List(ctx context.Context, actor *session.Session) ([]Line, error)
	Create(ctx context.Context, actor *session.Session, in Input) (*bff.Post, error)
	Update(ctx context.Context, actor *session.Session, postID string, in Input) (*bff.Post, error)
	Delete(ctx context.Context, actor *session.Session, postID string) error
}

// Input is a post as submitted from the editor.
type Input struct {
	Type  enums.PostType
	Title string
	Body  string
}

// Line is a post with its type label.
type Line struct {
	bff.Post
	Label string
}

type service struct {
	api API
}

func NewService(api API) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bff api is required")
	}
	return &service{api: api}, nil
}

// Validate checks the type and requires a body, plus a title for events.
func (in Input) Validate() error {
	if !in.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.PostTypeInvalid))
	}
	if strings.TrimSpace(in.Body) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.PostBodyRequired))
	}
	if in.Type.RequiresTitle() && strings.TrimSpace(in.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.PostTitleRequired))
	}
	return nil
}

func (in Input) request(storeID string) bff.PostRequest {
	return bff.PostRequest{
		StoreID: storeID,
		Type:    in.Type,
		Title:   strings.TrimSpace(in.Title),
		Body:    strings.TrimSpace(in.Body),
	}
}

func (s *service) List(ctx context.Context, actor *session.Session) ([]Line, error) {
	if err := session.RequireStaff(actor); err != nil {
		return nil, err
	}
	posts, err := s.api.Posts(ctx, actor.StoreID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt.Time)
	})
	lines := make([]Line, 0, len(posts))
	for _, p := range posts {
		lines = append(lines, Line{Post: p, Label: TypeLabel(p.Type)})
	}
	return lines, nil
}

func (s *service) Create(ctx context.Context, actor *session.Session, in Input) (*bff.Post, error) {
	if err := session.RequireStaff(actor); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	post, err := s.api.CreatePost(ctx, in.request(actor.StoreID))
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	return post, nil
}

func (s *service) Update(ctx context.Context, actor *session.Session, postID string, in Input) (*bff.Post, error) {
	if err := session.RequireStaff(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(postID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id is required")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	post, err := s.api.UpdatePost(ctx, postID, in.request(actor.StoreID))
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	return post, nil
}

func (s *service) Delete(ctx context.Context, actor *session.Session, postID string) error {
	if err := session.RequireStaff(actor); err != nil {
		return err
	}
	if strings.TrimSpace(postID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "post id is required")
	}
	if err := s.api.DeletePost(ctx, actor.StoreID, postID); err != nil {
		return bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	return nil
}

// TypeLabel names a post type. Every type has a case.
func TypeLabel(t enums.PostType) string {
	switch t {
	case enums.PostTypeEvent:
		return i18n.T(i18n.LabelPostEvent)
	case enums.PostTypeMemo:
		return i18n.T(i18n.LabelPostMemo)
	case enums.PostTypeIntro:
		return i18n.T(i18n.LabelPostIntro)
	case enums.PostTypeMessage:
		return i18n.T(i18n.LabelPostMessage)
	case enums.PostTypeStaff:
		return i18n.T(i18n.LabelPostStaff)
	}
	return string(t)
}
