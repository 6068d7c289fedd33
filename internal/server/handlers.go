package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/newsroom/stylize/internal/config"
	"github.com/newsroom/stylize/internal/layout"
	"github.com/newsroom/stylize/internal/source"
	"github.com/newsroom/stylize/internal/studio"
)

// presetsResponse lists everything a control surface needs to offer.
type presetsResponse struct {
	Canvases    []config.Canvas     `json:"canvases"`
	Backgrounds []config.Background `json:"backgrounds"`
	Anchors     []config.Anchor     `json:"anchors"`
	Directions  []config.Direction  `json:"directions"`
	Formats     []string            `json:"formats"`
	Defaults    config.Config       `json:"defaults"`
}

// layersRequest asks for the layer plan of a photo of the given size.
type layersRequest struct {
	Config json.RawMessage `json:"config"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
}

type layersResponse struct {
	Config config.Config  `json:"config"`
	Base   layout.Base    `json:"base"`
	Layers []layout.Layer `json:"layers"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, presetsResponse{
		Canvases:    config.Canvases(),
		Backgrounds: config.Backgrounds(),
		Anchors:     config.Anchors,
		Directions:  []config.Direction{config.Left, config.Right},
		Formats:     s.registry.Available(),
		Defaults:    config.Default(),
	})
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	var req layersRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		http.Error(w, "width and height must be positive", http.StatusBadRequest)
		return
	}
	cfg, err := decodeConfig(req.Config)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid config: %v", err), http.StatusBadRequest)
		return
	}

	base := layout.Resolve(float64(req.Width)/float64(req.Height), cfg)
	writeJSON(w, http.StatusOK, layersResponse{
		Config: cfg,
		Base:   base,
		Layers: layout.Layers(base, cfg),
	})
}

// handleRender accepts a multipart form with an optional "image" file and
// an optional "config" JSON field, and answers with the encoded image as an
// attachment. A photo that fails to decode still yields a background-only
// render; the decode error is reported in the X-Stylize-Warning header.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, fmt.Sprintf("invalid form: %v", err), http.StatusBadRequest)
		return
	}

	cfg, err := decodeConfig([]byte(r.FormValue("config")))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid config: %v", err), http.StatusBadRequest)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "png"
	}
	if _, err := s.registry.Lookup(format); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st := studio.New(cfg, studio.WithLogger(s.logger), studio.WithRegistry(s.registry), studio.WithCompositorOptions(s.opts))

	data, err := readUpload(r, "image")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if data != nil {
		if err := st.LoadImage(data); err != nil {
			if !errors.Is(err, source.ErrDecode) {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("X-Stylize-Warning", err.Error())
		}
	}

	art, err := st.Export(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", art.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	w.Header().Set("X-Stylize-Layers", strconv.Itoa(len(st.Layers())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Data)
}

// decodeConfig parses an optional JSON config on top of the defaults and
// clamps it.
func decodeConfig(raw []byte) (config.Config, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return config.Default(), nil
	}
	cfg, err := config.DecodeJSON(raw)
	if err != nil {
		return config.Config{}, err
	}
	return cfg.Normalize(), nil
}

// readUpload returns the bytes of the named multipart file, or nil when
// the field is absent.
func readUpload(r *http.Request, field string) ([]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	f, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
