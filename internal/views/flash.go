package views

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "ba_flash"

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

// Toast is a short message shown once after an action.
type Toast struct {
	Kind ToastKind `json:"k"`
	Text string    `json:"t"`
}

func Success(text string) Toast { return Toast{Kind: ToastSuccess, Text: text} }

func Failure(text string) Toast { return Toast{Kind: ToastError, Text: text} }

// SetFlash stores toasts for the next page render, surviving one redirect.
func SetFlash(w http.ResponseWriter, toasts ...Toast) {
	if len(toasts) == 0 {
		return
	}
	raw, err := json.Marshal(toasts)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeFlash returns pending toasts and clears them.
func TakeFlash(w http.ResponseWriter, r *http.Request) []Toast {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1, HttpOnly: true})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var toasts []Toast
	if err := json.Unmarshal(raw, &toasts); err != nil {
		return nil
	}
	return toasts
}
