package validators

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

const maxImage = 2 << 20

// ImageDataURL reads an uploaded image field as a base64 data URL. A
// missing or empty upload yields "".
func ImageDataURL(r *http.Request, field string) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, i18n.T(i18n.ValidationFailed))
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxImage+1))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, i18n.T(i18n.ValidationFailed))
	}
	if len(raw) == 0 {
		return "", nil
	}
	if len(raw) > maxImage {
		return "", pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed)).WithDetails(map[string]any{"field": field, "max_bytes": maxImage})
	}
	mime := http.DetectContentType(raw)
	if !strings.HasPrefix(mime, "image/") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed)).WithDetails(map[string]any{"field": field})
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
