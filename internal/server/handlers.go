package server

import (
	"bytes"
	"encoding/json"
	"html/template"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/chordgen/pkg/buildinfo"
	"github.com/matzehuels/chordgen/pkg/core/chord"
	"github.com/matzehuels/chordgen/pkg/core/diagram"
	cerrors "github.com/matzehuels/chordgen/pkg/errors"
	"github.com/matzehuels/chordgen/pkg/library"
	"github.com/matzehuels/chordgen/pkg/render"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 64 << 10

// =============================================================================
// Diagrams
// =============================================================================

func (s *Server) handleChord(w http.ResponseWriter, r *http.Request) {
	s.serveDiagram(w, r, false)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.serveDiagram(w, r, true)
}

func (s *Server) serveDiagram(w http.ResponseWriter, r *http.Request, attachment bool) {
	q := r.URL.Query()
	c, opts, err := parseQuery(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := render.FormatPNG
	if v := q.Get("format"); v != "" {
		if format, err = render.ParseFormat(v); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	opts.Formats = []render.Format{format}
	opts.Width = s.cfg.Width

	res, err := s.runner.Execute(r.Context(), c, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data := res.Artifacts[format]

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if attachment {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
			"filename": downloadName(c.Name, opts.LeftHanded, format),
		}))
	}
	_, _ = w.Write(data)
}

// downloadName is the chord name stripped to word characters, marked for
// left-handed diagrams.
func downloadName(name string, leftHanded bool, format render.Format) string {
	base := cerrors.SafeFilename(name)
	if leftHanded {
		base += "_lh"
	}
	return base + format.Ext()
}

// =============================================================================
// Index page
// =============================================================================

type indexString struct {
	N      int
	Fret   string
	Finger string
}

type indexPage struct {
	Name        string
	Strings     []indexString
	Left        bool
	Roman       bool
	Error       string
	ChordURL    template.URL
	DownloadURL template.URL
	SVGURL      template.URL
	Groups      []library.Group
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := indexPage{
		Name:  q.Get("name"),
		Left:  flag(q.Get("lh")),
		Roman: flag(q.Get("rf")),
	}
	for n := 1; n <= chord.NumStrings; n++ {
		key := strconv.Itoa(n)
		fret := q.Get("s" + key)
		if fret == "" {
			fret = "O"
		}
		page.Strings = append(page.Strings, indexString{N: n, Fret: fret, Finger: q.Get("f" + key)})
	}

	// Only draw once the form was submitted.
	if q.Has("name") {
		c, opts, err := parseQuery(q)
		if err != nil {
			page.Error = cerrors.UserMessage(err)
		} else {
			enc := chordQuery(c, opts)
			page.ChordURL = template.URL("chord?" + enc.Encode())
			page.DownloadURL = template.URL("download?" + enc.Encode())
			enc.Set("format", string(render.FormatSVG))
			page.SVGURL = template.URL("chord?" + enc.Encode())
		}
	}

	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page.Groups = library.GroupByInitial(library.Chords(recs))

	var buf bytes.Buffer
	if err := s.index.Execute(&buf, page); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// =============================================================================
// Library
// =============================================================================

type listResponse struct {
	Count   int              `json:"count"`
	Records []library.Record `json:"records"`
	Groups  []library.Group  `json:"groups"`
}

func (s *Server) handleListChords(w http.ResponseWriter, r *http.Request) {
	var (
		recs []library.Record
		err  error
	)
	if name := r.URL.Query().Get("name"); name != "" {
		recs, err = s.store.FindByName(r.Context(), name)
	} else {
		recs, err = s.store.List(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []library.Record{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Count:   len(recs),
		Records: recs,
		Groups:  library.GroupByInitial(library.Chords(recs)),
	})
}

func (s *Server) handleCreateChord(w http.ResponseWriter, r *http.Request) {
	var c chord.Chord
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&c); err != nil {
		s.writeError(w, r, cerrors.New(cerrors.ErrCodeInvalidInput, "invalid chord JSON: %v", err))
		return
	}
	// Refuse chords that could never be drawn.
	if _, err := diagram.Plan(c, s.runner.Templates.Right, diagram.Options{}); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.store.Put(r.Context(), c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("stored chord", "id", rec.ID, "name", rec.Chord.Name)
	w.Header().Set("Location", "chords/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetChord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteChord(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Health
// =============================================================================

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}
