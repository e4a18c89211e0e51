package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/offgate/offgate/middlewares/authn"
	"github.com/offgate/offgate/render"
)

type indexParams struct {
	Username  string
	IsAdmin   bool
	TodayFile string
	Files     []string
}

func (e *Env) HandleIndex(w http.ResponseWriter, r *http.Request) {
	id := authn.GetIdentityFromRequest(r)

	params := &indexParams{
		Username: id.Username,
		IsAdmin:  id.IsAdmin(),
	}

	today, err := e.Reports.TodaysFile(r.Context())
	if err != nil {
		// the page is still useful without the today marker
		log.Error().Err(err).Msg("could not check for today's report")
	} else if today != nil {
		params.TodayFile = today.Name
	}

	files, err := e.Reports.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("could not list reports")
		render.RenderFullPageError(w, "Error", "Something went wrong", "Could not list the available reports. Please try again later.")
		return
	}

	for _, f := range files {
		if f.Name == params.TodayFile {
			continue
		}
		params.Files = append(params.Files, f.Name)
	}

	render.Render(w, "index.gohtml", params)
}
