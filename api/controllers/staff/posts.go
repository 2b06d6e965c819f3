package staff

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/api/validators"
	"github.com/angelmondragon/bottle-amigo/internal/posts"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

const titlePosts = "投稿"

func Posts(pages *responses.Pages, svc posts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editing := r.URL.Query().Get("edit")
		lines, err := svc.List(r.Context(), actor(r))
		if err != nil {
			pages.LoadFailed(w, r, err, router.PagePosts, titlePosts, views.NewPostsView(nil, ""))
			return
		}
		pages.Render(w, r, router.PagePosts, titlePosts, views.NewPostsView(lines, editing))
	}
}

func CreatePost(pages *responses.Pages, svc posts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := postsPath()
		in, err := readPost(r)
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		if _, err := svc.Create(r.Context(), actor(r), in); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.PostCreated)))
	}
}

func UpdatePost(pages *responses.Pages, svc posts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		in, err := readPost(r)
		if err != nil {
			pages.Fail(w, r, err, postsPath()+"?edit="+id)
			return
		}
		if _, err := svc.Update(r.Context(), actor(r), id, in); err != nil {
			pages.Fail(w, r, err, postsPath()+"?edit="+id)
			return
		}
		pages.Redirect(w, r, postsPath(), views.Success(i18n.T(i18n.PostUpdated)))
	}
}

func DeletePost(pages *responses.Pages, svc posts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), actor(r), chi.URLParam(r, "id")); err != nil {
			pages.Fail(w, r, err, postsPath())
			return
		}
		pages.Redirect(w, r, postsPath(), views.Success(i18n.T(i18n.PostDeleted)))
	}
}

func readPost(r *http.Request) (posts.Input, error) {
	if err := validators.ParseForm(r); err != nil {
		return posts.Input{}, err
	}
	return posts.Input{
		Type:  enums.PostType(r.PostForm.Get("type")),
		Title: validators.SanitizeString(r.PostForm.Get("title"), 100),
		Body:  validators.SanitizeString(r.PostForm.Get("body"), 2000),
	}, nil
}

func postsPath() string {
	return router.PagePath(enums.PortalStaff, router.PagePosts)
}
