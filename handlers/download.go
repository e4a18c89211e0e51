package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/offgate/offgate/middlewares/authn"
	"github.com/offgate/offgate/reports"
)

func (e *Env) HandleDownloadToday(w http.ResponseWriter, r *http.Request) {
	today, err := e.Reports.TodaysFile(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("could not check for today's report")
		http.Error(w, "could not fetch report", http.StatusInternalServerError)
		return
	}
	if today == nil {
		http.Error(w, "no report has been published for today", http.StatusNotFound)
		return
	}

	e.streamReport(w, r, today.Name)
}

func (e *Env) HandleDownloadNamed(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !reports.ValidFileName(name) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	e.streamReport(w, r, name)
}

func (e *Env) streamReport(w http.ResponseWriter, r *http.Request, name string) {
	body, size, err := e.Reports.Download(r.Context(), name)
	if errors.Is(err, reports.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("could not fetch report")
		http.Error(w, "could not fetch report", http.StatusInternalServerError)
		return
	}
	defer body.Close()

	log.Info().Str("username", authn.GetIdentityFromRequest(r).Username).Str("name", name).Msg("report download")

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}

	if _, err := io.Copy(w, body); err != nil {
		log.Error().Err(err).Str("name", name).Msg("error streaming report")
	}
}
