package validators

import (
	"net/http"
	"strings"

	"github.com/go-playground/form/v4"

	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

const maxMultipart = 8 << 20

var formDecoder = form.NewDecoder()

// DecodeForm fills dest from a url-encoded or multipart body using its
// form tags, then validates it.
func DecodeForm(r *http.Request, dest any) error {
	if err := ParseForm(r); err != nil {
		return err
	}
	if err := formDecoder.Decode(dest, r.PostForm); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, i18n.T(i18n.ValidationFailed))
	}
	return Struct(dest)
}

// ParseForm parses either body encoding once.
func ParseForm(r *http.Request) error {
	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(maxMultipart)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, i18n.T(i18n.ValidationFailed))
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
