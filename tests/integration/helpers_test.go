package integration

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/yotamfogel/Dress-App/internal/analysis"
	"github.com/yotamfogel/Dress-App/internal/api"
	"github.com/yotamfogel/Dress-App/internal/colors"
	"github.com/yotamfogel/Dress-App/internal/database"
	"github.com/yotamfogel/Dress-App/internal/imgproc"
	"github.com/yotamfogel/Dress-App/internal/vision"
)

type TestServer struct {
	Server *httptest.Server
	App    *api.App
	Store  *database.PendingStore
}

// setupTestServer wires the full production stack: heuristic detector,
// sqlite-backed pending store, and the real router.
func setupTestServer(t *testing.T) *TestServer {
	t.Helper()

	db, err := database.NewDB(database.Config{Path: filepath.Join(t.TempDir(), "integration.db")})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	store := database.NewPendingStore(db)

	svc := analysis.NewService(
		&imgproc.Decoder{MaxDim: 2000},
		vision.NewHeuristicDetector(),
		colors.NewExtractor(colors.DefaultConfig()),
		store,
		analysis.DefaultConfig(),
	)

	app := &api.App{Service: svc, StoreKind: "sqlite"}
	server := httptest.NewServer(api.NewRouter(app))

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &TestServer{Server: server, App: app, Store: store}
}

func (ts *TestServer) postAnalyze(t *testing.T, body map[string]any) (int, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	resp, err := http.Post(ts.Server.URL+"/analyze-fashion", "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

// solidImage returns a base64 PNG filled with one color.
func solidImage(t *testing.T, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return encodePNG(t, img)
}

// personImage returns a base64 PNG of a tall dark subject on a light
// background, which the heuristic detector splits into shirt and pants
// candidates.
func personImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 300, 600))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 250, G: 250, B: 250, A: 255}), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(110, 40, 190, 560), image.NewUniform(color.RGBA{R: 40, G: 45, B: 90, A: 255}), image.Point{}, draw.Src)
	return encodePNG(t, img)
}

func encodePNG(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
