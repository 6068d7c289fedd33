package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/newsroom/stylize/internal/config"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{200, 40, 40, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// multipartBody builds a render form. Empty arguments are omitted.
func multipartBody(t *testing.T, cfgJSON string, imageData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if cfgJSON != "" {
		if err := mw.WriteField("config", cfgJSON); err != nil {
			t.Fatal(err)
		}
	}
	if imageData != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(imageData); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, mw.FormDataContentType()
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := serve(New(":0", nil), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "ok" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

func TestPresets(t *testing.T) {
	w := serve(New(":0", nil), httptest.NewRequest(http.MethodGet, "/api/v1/presets", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp presetsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Canvases) != 4 || len(resp.Backgrounds) != 6 || len(resp.Anchors) != 5 {
		t.Errorf("unexpected presets: %+v", resp)
	}
	if resp.Defaults != config.Default() {
		t.Errorf("defaults: got %+v", resp.Defaults)
	}
}

func TestLayers(t *testing.T) {
	body := `{"config":{"repeat_count":9,"anchor":"top-left","padding_px":0},"width":800,"height":600}`
	w := serve(New(":0", nil), httptest.NewRequest(http.MethodPost, "/api/v1/layers", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", w.Code, w.Body.String())
	}
	var resp layersResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Layers) != 6 {
		t.Errorf("layers: got %d, want 6", len(resp.Layers))
	}
	if resp.Layers[0].X != 0 || resp.Layers[0].Y != 0 {
		t.Errorf("layer 0: got %+v", resp.Layers[0])
	}
}

func TestLayers_BadRequest(t *testing.T) {
	for _, body := range []string{`{`, `{"width":0,"height":10}`, `{"config":{"anchor":"middle"},"width":1,"height":1}`} {
		w := serve(New(":0", nil), httptest.NewRequest(http.MethodPost, "/api/v1/layers", strings.NewReader(body)))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", body, w.Code)
		}
	}
}

func TestRender_PNGAttachment(t *testing.T) {
	body, ctype := multipartBody(t, `{"canvas":"200x100","repeat_count":4}`, testPNG(t, 40, 30))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/render", body)
	req.Header.Set("Content-Type", ctype)

	w := serve(New(":0", nil), req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="newsroom-stylized.png"` {
		t.Errorf("disposition: got %q", got)
	}
	if got := w.Header().Get("X-Stylize-Layers"); got != "4" {
		t.Errorf("layers header: got %q", got)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("size: got %v", b)
	}
}

func TestRender_JPEGWithoutImage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/render?format=jpg", nil)
	w := serve(New(":0", nil), req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Errorf("content type: got %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "newsroom-stylized.jpg") {
		t.Errorf("disposition: got %q", got)
	}
	cfg, err := jpeg.DecodeConfig(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1200 || cfg.Height != 675 {
		t.Errorf("size: got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRender_DecodeFailureStillRenders(t *testing.T) {
	body, ctype := multipartBody(t, `{"canvas":"64x32","background":"#00ff00"}`, []byte("garbage"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/render", body)
	req.Header.Set("Content-Type", ctype)

	w := serve(New(":0", nil), req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if w.Header().Get("X-Stylize-Warning") == "" {
		t.Error("missing decode warning header")
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != 0 || g != 0xffff || bl != 0 {
				t.Fatalf("pixel (%d,%d) is not background", x, y)
			}
		}
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/render?format=tga", nil)
	if w := serve(New(":0", nil), req); w.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400", w.Code)
	}
}

func TestRender_OversizedCanvas(t *testing.T) {
	body, ctype := multipartBody(t, `{"canvas":"3000000000x3000000000"}`, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/render", body)
	req.Header.Set("Content-Type", ctype)
	if w := serve(New(":0", nil), req); w.Code != http.StatusBadRequest {
		t.Errorf("preset string: got %d, want 400", w.Code)
	}

	body, ctype = multipartBody(t, `{"canvas_width":3000000000,"canvas_height":100}`, nil)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/render", body)
	req.Header.Set("Content-Type", ctype)
	w := serve(New(":0", nil), req)
	if w.Code != http.StatusOK {
		t.Fatalf("explicit fields: got %d: %s", w.Code, w.Body.String())
	}
	cfg, err := png.DecodeConfig(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != config.MaxCanvasSide || cfg.Height != 100 {
		t.Errorf("size: got %dx%d", cfg.Width, cfg.Height)
	}
}
