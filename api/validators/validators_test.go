package validators

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDecodeForm(t *testing.T) {
	var dest loginForm
	err := DecodeForm(postForm(url.Values{"email": {"taro@example.com"}, "password": {"secret"}}), &dest)
	require.NoError(t, err)
	assert.Equal(t, "taro@example.com", dest.Email)
}

func TestDecodeFormRequiredFields(t *testing.T) {
	var dest loginForm
	err := DecodeForm(postForm(url.Values{"email": {"taro@example.com"}}), &dest)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, i18n.T(i18n.AuthFieldsRequired), typed.Message())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "password")
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var dest struct {
		ScannerID string `json:"scannerId" validate:"required"`
	}
	req := httptest.NewRequest(http.MethodPost, "/checkin/scan", strings.NewReader(`{"scannerId":"s-1","extra":true}`))
	err := DecodeJSONBody(req, &dest)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseInt(t *testing.T) {
	v, err := ParseInt(" 350 ", "ml", 0, 750)
	require.NoError(t, err)
	assert.Equal(t, 350, v)

	_, err = ParseInt("800", "ml", 0, 750)
	assert.Error(t, err)
	_, err = ParseInt("abc", "ml", 0, 750)
	assert.Error(t, err)

	opt, err := ParseOptionalInt("", "remaining_ml", 0, 750)
	require.NoError(t, err)
	assert.Nil(t, opt)
}

func TestSanitizeStringCountsRunes(t *testing.T) {
	assert.Equal(t, "ボトル", SanitizeString("  ボトルキープ ", 3))
	assert.Equal(t, "abc", SanitizeString("abc", 0))
}

func TestImageDataURL(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, _ = fw.Write(png)
	require.NoError(t, mw.WriteField("nickname", "たろう"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, ParseForm(req))

	dataURL, err := ImageDataURL(req, "avatar")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))

	missing, err := ImageDataURL(req, "logo")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestImageDataURLRejectsNonImage(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("avatar", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("just some text"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, ParseForm(req))

	_, err = ImageDataURL(req, "avatar")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
