package staff

import (
	"net/http"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/internal/bottles"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
)

const titleKeeps = "ボトルキープ"

func BottleKeeps(pages *responses.Pages, svc bottles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keeps, err := svc.Keeps(r.Context(), actor(r).StoreID)
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageBottleKeeps, titleKeeps, views.KeepsView{})
			return
		}
		pages.Render(w, r, router.PageBottleKeeps, titleKeeps, views.KeepsView{Keeps: keeps})
	}
}
