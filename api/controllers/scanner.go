package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/angelmondragon/bottle-amigo/api/middleware"
	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/api/validators"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

// ScanOutcome tells the scanner script where to go next, or what to show.
type ScanOutcome struct {
	Redirect string `json:"redirect,omitempty"`
	Message  string `json:"message,omitempty"`
	// Flash is shown on the page Redirect leads to.
	Flash []views.Toast `json:"-"`
}

// ScanFunc handles one decoded QR payload. It runs after the lease was
// consumed, so a failure needs a fresh lease to retry.
type ScanFunc func(ctx context.Context, payload string) (ScanOutcome, error)

type scanPayload struct {
	ScannerID string `json:"scannerId" validate:"required"`
	Payload   string `json:"payload"`
}

// ScannerAcquire leases the camera scanner on the mounted page. Only page
// may hold a scanner; any other mounted page means the browser is stale.
func ScannerAcquire(page router.Page, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		scope := currentScope(r, page)
		if scope == nil {
			responses.WriteError(ctx, logg, w, staleScanner())
			return
		}
		sc, err := scope.AcquireScanner()
		if err != nil {
			if errors.Is(err, router.ErrScannerBusy) || errors.Is(err, router.ErrScopeClosed) {
				responses.WriteError(ctx, logg, w, staleScanner())
				return
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"scannerId": sc.ID})
	}
}

// ScannerScan consumes the lease named in the body and hands the payload to
// handle. The outcome is dropped when the page was left while handle ran.
func ScannerScan(page router.Page, handle ScanFunc, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var body scanPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		scope := currentScope(r, page)
		if scope == nil {
			responses.WriteError(ctx, logg, w, staleScanner())
			return
		}
		sc, ok := scope.Scanner(strings.TrimSpace(body.ScannerID))
		if !ok {
			responses.WriteError(ctx, logg, w, staleScanner())
			return
		}
		sc.Release()

		outcome, err := handle(ctx, body.Payload)
		if scope.Closed() {
			if logg != nil {
				logg.Debug(ctx, "scanner.result.dropped")
			}
			responses.WriteError(ctx, nil, w, staleScanner())
			return
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if len(outcome.Flash) > 0 {
			views.SetFlash(w, outcome.Flash...)
		}
		responses.WriteSuccess(w, outcome)
	}
}

func currentScope(r *http.Request, page router.Page) *router.Scope {
	nav := middleware.NavigatorFromContext(r.Context())
	if nav == nil {
		return nil
	}
	scope := nav.Current()
	if scope == nil || scope.Page() != page || scope.Closed() {
		return nil
	}
	return scope
}

func staleScanner() error {
	return pkgerrors.New(pkgerrors.CodeConflict, i18n.T(i18n.ScannerStale))
}
