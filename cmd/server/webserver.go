package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/coder/websocket"

	fractal "github.com/marben/fractal_explorer"
	"github.com/marben/fractal_explorer/config"
	"github.com/marben/fractal_explorer/overview"
	"github.com/marben/fractal_explorer/plane"
	"github.com/marben/fractal_explorer/render"
)

const (
	minimapW = 220
	minimapH = 120
	// maxSurfaceSide bounds the size a client may ask frames for.
	maxSurfaceSide = 4096
	maxMinimapSide = 1024
)

// explorer holds what all http handlers and sessions share.
type explorer struct {
	cfg    config.Config
	kernel *render.Kernel
	log    *slog.Logger
}

func newExplorer(cfg config.Config, kernel *render.Kernel, log *slog.Logger) *explorer {
	return &explorer{cfg: cfg, kernel: kernel, log: log}
}

func (e *explorer) dispatcher() render.Dispatcher {
	return render.Dispatcher{Workers: e.cfg.Workers, TileSize: e.cfg.TileSize}
}

// routes serves files in the static folder, the websocket endpoint and the
// still image endpoints.
func (e *explorer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", e.websocketHandler)
	mux.HandleFunc("GET /export", e.exportHandler)
	mux.HandleFunc("GET /overview.png", e.overviewHandler)
	mux.Handle("/", http.FileServer(http.Dir(e.cfg.StaticDir)))
	return mux
}

// websocketHandler upgrades the connection and runs a session on it until
// either side goes away. The view is restored from the query of the ws URL.
func (e *explorer) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // TODO: tighten in prod
	})
	if err != nil {
		e.log.Warn("websocket accept", "remote", r.RemoteAddr, "err", err)
		return
	}
	c.SetReadLimit(1 << 16)

	log := e.log.With("remote", r.RemoteAddr)
	log.Info("session started")
	s, err := newSession(e, c, r.URL.Query(), log)
	if err != nil {
		log.Error("session", "err", err)
		c.Close(websocket.StatusInternalError, "renderer unavailable")
		return
	}
	err = s.run(r.Context())
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		err = nil
	}
	if err != nil {
		log.Warn("session ended", "err", err)
		c.Close(websocket.StatusInternalError, "session failed")
		return
	}
	log.Info("session ended")
	c.Close(websocket.StatusNormalClosure, "")
}

// exportHandler renders a PNG still. The state is read from the query;
// cw and ch give the canvas size the state was viewed at.
func (e *explorer) exportHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := e.viewOf(q)
	width := intParam(q, "width", e.cfg.ExportWidth)
	cw := clampSide(intParam(q, "cw", 1920))
	ch := clampSide(intParam(q, "ch", 1080))
	ss := intParam(q, "ss", 1)
	if ss < 1 || ss > render.MaxSupersample {
		http.Error(w, fmt.Sprintf("ss must be within 1..%d", render.MaxSupersample), http.StatusBadRequest)
		return
	}

	v, sw, sh, err := render.Rescale(view, cw, ch, width)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	img, err := e.dispatcher().Still(r.Context(), v, sw, sh, ss)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e.log.Info("export", "width", sw, "height", sh, "supersample", ss, "iterations", v.MaxIter)
	writePNG(w, img, e.log)
}

// overviewHandler draws the minimap for the state in the query.
func (e *explorer) overviewHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vp := plane.Size(clampSide(intParam(q, "cw", 1920)), clampSide(intParam(q, "ch", 1080)))
	mw := min(intParam(q, "w", minimapW), maxMinimapSide)
	mh := min(intParam(q, "h", minimapH), maxMinimapSide)
	img, err := overview.Minimap(e.viewOf(q), vp, mw, mh)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writePNG(w, img, e.log)
}

func (e *explorer) viewOf(q url.Values) fractal.ViewState {
	v := fractal.ParseValues(q, e.cfg.View())
	v.Normalize()
	return v
}

func writePNG(w http.ResponseWriter, img image.Image, log *slog.Logger) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug("write png", "err", err)
	}
}

func intParam(q url.Values, key string, def int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return def
	}
	return n
}
