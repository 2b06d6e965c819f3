package views

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/internal/bottles"
	"github.com/angelmondragon/bottle-amigo/internal/notifications"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

const (
	layoutFile   = "templates/layout.html"
	partialsFile = "templates/partials.html"
)

// Renderer holds one parsed template set per page: the shared layout and
// partials plus the page's own "content" block.
type Renderer struct {
	pages map[string]*template.Template
	now   func() time.Time
}

// NewRenderer parses every page under templates/consumer and
// templates/staff.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template), now: time.Now}

	base, err := template.New("layout.html").Funcs(r.funcs()).ParseFS(fsys, layoutFile, partialsFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	for _, portal := range []enums.Portal{enums.PortalConsumer, enums.PortalStaff} {
		files, err := fs.Glob(fsys, path.Join("templates", portal.String(), "*.html"))
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			page := strings.TrimSuffix(path.Base(file), ".html")
			clone, err := base.Clone()
			if err != nil {
				return nil, err
			}
			if _, err := clone.ParseFS(fsys, file); err != nil {
				return nil, fmt.Errorf("parse %s: %w", file, err)
			}
			r.pages[key(portal, router.Page(page))] = clone
		}
	}
	return r, nil
}

func key(portal enums.Portal, page router.Page) string {
	return portal.String() + "/" + string(page)
}

// Has reports whether a template exists for the page.
func (r *Renderer) Has(portal enums.Portal, page router.Page) bool {
	_, ok := r.pages[key(portal, page)]
	return ok
}

// Render executes the page into w. Output is buffered so a template error
// never leaves a half-written page.
func (r *Renderer) Render(w io.Writer, doc Document) error {
	tmpl, ok := r.pages[key(doc.Portal, doc.Page)]
	if !ok {
		return fmt.Errorf("no template for %s", key(doc.Portal, doc.Page))
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", doc); err != nil {
		return fmt.Errorf("render %s: %w", key(doc.Portal, doc.Page), err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"path": func(portal enums.Portal, page string, kv ...string) string {
			params := make(map[string]string, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				params[kv[i]] = kv[i+1]
			}
			return router.Path(portal, router.Page(page), params)
		},
		"t": func(k string, args ...any) string {
			return i18n.T(i18n.Key(k), args...)
		},
		"date":     formatDate,
		"datetime": formatDateTime,
		"ago": func(v any) string {
			t := asTime(v)
			if t.IsZero() {
				return ""
			}
			return notifications.RelativeTime(t, r.now())
		},
		"tier": func(pct int) string { return string(bottles.TierFor(pct)) },
		"img": imageURL,
		"deref64": func(p *float64) float64 {
			if p == nil {
				return 0
			}
			return *p
		},
	}
}

func formatDate(v any) string {
	t := asTime(v)
	if t.IsZero() {
		return "-"
	}
	return t.In(jst).Format("2006/01/02")
}

func formatDateTime(v any) string {
	t := asTime(v)
	if t.IsZero() {
		return "-"
	}
	return t.In(jst).Format("2006/01/02 15:04")
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case bff.Time:
		return t.Time
	case *bff.Time:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

// imageURL lets base64 image data through the template URL sanitizer and
// blanks anything else.
func imageURL(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return ""
}

var jst = time.FixedZone("JST", 9*60*60)
