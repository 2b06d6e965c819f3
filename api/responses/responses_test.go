package responses

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/types"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "検索ワードを入力してください").
		WithDetails(map[string]string{"field": "q"})
	WriteError(t.Context(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Message != "検索ワードを入力してください" {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
	if body.Error.Details == nil {
		t.Fatalf("expected details in public payload")
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(t.Context(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Contains(body.Error.Message, "boom") {
		t.Fatalf("internal error text leaked: %q", body.Error.Message)
	}
}

func TestToastFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"typed message", pkgerrors.New(pkgerrors.CodeConflict, "既にチェックイン中です"), "既にチェックイン中です"},
		{"internal hidden", pkgerrors.New(pkgerrors.CodeInternal, "nil map"), i18n.T(i18n.ErrorGeneric)},
		{"dependency without message", pkgerrors.New(pkgerrors.CodeDependency, ""), "通信エラーが発生しました"},
		{"dependency with message", bff.Wrap(&bff.APIError{Status: 502}, "退店処理に失敗しました"), "退店処理に失敗しました"},
		{"raw unauthorized", bff.ErrUnauthorized, "ログインしてください"},
		{"untyped", errors.New("socket closed"), i18n.T(i18n.ErrorGeneric)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToastFor(tc.err); got != tc.want {
				t.Fatalf("ToastFor = %q, want %q", got, tc.want)
			}
		})
	}
}

type stubRenderer struct {
	last views.Document
	err  error
}

func (s *stubRenderer) Render(w io.Writer, doc views.Document) error {
	s.last = doc
	if s.err != nil {
		return s.err
	}
	_, err := fmt.Fprintf(w, "<h1>%s</h1>", doc.Title)
	return err
}

func newPages(r Renderer) *Pages {
	return NewPages(PagesParams{Portal: enums.PortalStaff, Renderer: r, Cookie: "bottle_amigo_staff_token"})
}

func TestRenderBuildsDocument(t *testing.T) {
	stub := &stubRenderer{}
	pages := newPages(stub)

	s := &session.Session{Portal: enums.PortalStaff, Role: enums.StaffRoleMama}
	req := httptest.NewRequest(http.MethodGet, "/staff/customers", nil)
	req = req.WithContext(session.WithContext(req.Context(), s))
	w := httptest.NewRecorder()

	pages.Render(w, req, router.PageCustomers, "顧客", "payload", views.Success("保存しました"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if stub.last.Session != s || stub.last.Data != "payload" {
		t.Fatalf("unexpected document %+v", stub.last)
	}
	if len(stub.last.Toasts) != 1 || stub.last.Toasts[0].Text != "保存しました" {
		t.Fatalf("unexpected toasts %+v", stub.last.Toasts)
	}
	if len(stub.last.Nav) == 0 {
		t.Fatal("expected staff navigation")
	}
}

func TestRenderDropsOtherPortalSession(t *testing.T) {
	stub := &stubRenderer{}
	pages := newPages(stub)

	req := httptest.NewRequest(http.MethodGet, "/staff/login", nil)
	req = req.WithContext(session.WithContext(req.Context(), &session.Session{Portal: enums.PortalConsumer}))
	pages.Render(httptest.NewRecorder(), req, router.PageLogin, "ログイン", nil)

	if stub.last.Session != nil {
		t.Fatal("consumer session leaked into the staff layout")
	}
}

func TestFailRedirectsWithToast(t *testing.T) {
	pages := newPages(&stubRenderer{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/staff/posts", nil)

	pages.Fail(w, req, pkgerrors.New(pkgerrors.CodeValidation, "本文を入力してください"), "/staff/posts")

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/staff/posts" {
		t.Fatalf("unexpected location %q", loc)
	}
	next := httptest.NewRequest(http.MethodGet, "/staff/posts", nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}
	toasts := views.TakeFlash(httptest.NewRecorder(), next)
	if len(toasts) != 1 || toasts[0].Text != "本文を入力してください" || toasts[0].Kind != views.ToastError {
		t.Fatalf("unexpected flash %+v", toasts)
	}
}

func TestFailOnExpiredSessionGoesToLogin(t *testing.T) {
	pages := newPages(&stubRenderer{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/staff/posts", nil)

	pages.Fail(w, req, bff.Wrap(bff.ErrUnauthorized, "投稿に失敗しました"), "/staff/posts")

	if loc := w.Header().Get("Location"); loc != "/staff/login" {
		t.Fatalf("expected login redirect, got %q", loc)
	}
	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "bottle_amigo_staff_token" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected the session cookie to be cleared")
	}
}

func TestLoadFailedRendersEmptyPage(t *testing.T) {
	stub := &stubRenderer{}
	pages := newPages(stub)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff/bottle-keeps", nil)

	pages.LoadFailed(w, req, pkgerrors.New(pkgerrors.CodeDependency, "読み込みに失敗しました"), router.PageBottleKeeps, "ボトルキープ", "empty")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if stub.last.Data != "empty" || len(stub.last.Toasts) != 1 {
		t.Fatalf("unexpected document %+v", stub.last)
	}
}
