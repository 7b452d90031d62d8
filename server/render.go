package server

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/Luismorlan/yatube/file_store"
	"github.com/gin-gonic/gin/render"
	"github.com/pkg/errors"
)

//go:embed templates
var templateFS embed.FS

const (
	templateRoot = "templates"
	baseTemplate = "base.html"
)

// TemplateRender renders every page together with base.html and the
// includes/ partials. Each page gets its own template set so pages can all
// define the same blocks.
type TemplateRender struct {
	sets map[string]*template.Template
}

// NewTemplateRender parses every page under templates/. Media urls are
// resolved through store.
func NewTemplateRender(store file_store.FileStore) (*TemplateRender, error) {
	funcs := templateFuncs(store)
	r := &TemplateRender{sets: map[string]*template.Template{}}

	err := fs.WalkDir(templateFS, templateRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		name := strings.TrimPrefix(p, templateRoot+"/")
		if name == baseTemplate || strings.HasPrefix(name, "includes/") {
			return nil
		}
		set, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			path.Join(templateRoot, baseTemplate),
			path.Join(templateRoot, "includes", "*.html"),
			p,
		)
		if err != nil {
			return errors.Wrapf(err, "fail to parse template %s", name)
		}
		r.sets[name] = set
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Instance implements render.HTMLRender.
func (r *TemplateRender) Instance(name string, data interface{}) render.Render {
	set, ok := r.sets[name]
	if !ok {
		// ExecuteTemplate of a missing name reports the error on render
		set = template.New(name)
	}
	return render.HTML{Template: set, Name: baseTemplate, Data: data}
}

// RenderFragment executes one block of a page, e.g. the cached post list of
// the index page.
func (r *TemplateRender) RenderFragment(page string, block string, data interface{}) (template.HTML, error) {
	set, ok := r.sets[page]
	if !ok {
		return "", errors.Errorf("template %s does not exist", page)
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, block, data); err != nil {
		return "", errors.Wrapf(err, "fail to render %s of %s", block, page)
	}
	return template.HTML(buf.String()), nil
}

func (r *TemplateRender) Has(name string) bool {
	_, ok := r.sets[name]
	return ok
}

func templateFuncs(store file_store.FileStore) template.FuncMap {
	return template.FuncMap{
		"mediaURL": func(key string) string {
			if key == "" {
				return ""
			}
			return store.GetUrlFromKey(key)
		},
		"linebreaksbr":  linebreaksbr,
		"truncatewords": truncateWords,
		"date": func(t time.Time) string {
			return t.Format("02 Jan 2006")
		},
		"add": func(a, b int) int {
			return a + b
		},
	}
}

func linebreaksbr(text string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(text, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func truncateWords(n int, text string) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ") + " …"
}
