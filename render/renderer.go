package render

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/oxtoacart/bpool"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	BufferPoolSize = 64
)

var (
	templates map[string]*template.Template

	bufpool *bpool.BufferPool
)

func Init() {
	log.Info().Msg("starting initialization of template system")

	templates = make(map[string]*template.Template)
	bufpool = bpool.NewBufferPool(BufferPoolSize)

	bases, err := fs.Glob(templateFS, "templates/bases/*.gohtml")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load base HTML templates")
	}

	includes, err := fs.Glob(templateFS, "templates/includes/*.gohtml")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load includes HTML templates")
	}

	layouts, err := fs.Glob(templateFS, "templates/*.gohtml")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load layout HTML templates")
	}

	for _, curr := range includes {
		t, err := template.ParseFS(templateFS, curr)
		if err != nil {
			log.Fatal().Err(err).Str("template", curr).Msg("could not parse include template")
		}
		templates[filepath.Base(curr)] = t
	}

	for _, curr := range layouts {
		files := append(bases, includes...)
		files = append(files, curr)
		t, err := template.ParseFS(templateFS, files...)
		if err != nil {
			log.Fatal().Err(err).Str("template", curr).Msg("could not parse template")
		}
		templates[filepath.Base(curr)] = t
	}

	log.Debug().Int("num_templates", len(templates)).Msg("templates loaded")
}

type fullPageErrorParams struct {
	ErrorTitle  string
	ErrorHeader string
	Error       string
}

func RenderFullPageError(w http.ResponseWriter, title, header, error string) {
	Render(w, "full_page_error.gohtml", &fullPageErrorParams{
		ErrorTitle:  title,
		ErrorHeader: header,
		Error:       error,
	})
}

func Render(w http.ResponseWriter, name string, data any) {
	RenderWithCode(w, http.StatusOK, name, data)
}

func RenderWithCode(w http.ResponseWriter, code int, name string, data any) {
	templ := templates[name]
	if templ == nil {
		log.Error().Str("name", name).Msg("could not find template")
		return
	}

	buf := bufpool.Get()
	defer bufpool.Put(buf)

	err := templ.Execute(buf, data)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("could not render response")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if code != http.StatusOK {
		w.WriteHeader(code)
	}
	_, err = buf.WriteTo(w)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("error writing response to buffer")
	}
}

func StaticFSHandler() http.Handler {
	return http.FileServer(http.FS(staticFS))
}
