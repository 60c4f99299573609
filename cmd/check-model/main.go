package main

import (
	"context"
	"database/sql"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yotamfogel/Dress-App/internal/vision"
)

// check-model verifies the detector configuration the server will start
// with, and reports pending-selection state when the sqlite store is in use.
func main() {
	fmt.Println("🔍 Checking Detection Setup")
	fmt.Println("===========================")

	detectorKind := os.Getenv("DETECTOR")
	if detectorKind == "" {
		detectorKind = "heuristic"
	}

	var detector vision.Detector
	switch detectorKind {
	case "heuristic":
		fmt.Println("✅ Detector: heuristic-saliency (no model files required)")
		detector = vision.NewHeuristicDetector()
	case "dnn":
		modelPath := os.Getenv("MODEL_PATH")
		if modelPath == "" {
			fmt.Println("⚠️  WARNING: DETECTOR=dnn but MODEL_PATH is not set")
		}
		dnn, err := vision.NewDNNDetector(
			modelPath,
			os.Getenv("MODEL_CONFIG_PATH"),
			os.Getenv("MODEL_CLASSES_PATH"),
		)
		if err != nil {
			log.Fatal("❌ Failed to load detection model: ", err)
		}
		defer dnn.Close()
		fmt.Printf("✅ Detector: dnn-yolo (model: %s)\n", modelPath)
		detector = dnn
	default:
		log.Fatalf("Unsupported detector: %s", detectorKind)
	}

	// Smoke-test the detector on a synthetic frame.
	probe := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			probe.Set(x, y, color.RGBA{R: 180, G: 60, B: 60, A: 255})
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cands, err := detector.Detect(ctx, probe)
	if err != nil {
		log.Fatal("❌ Detector smoke test failed: ", err)
	}
	fmt.Printf("✅ Smoke test: %d candidate(s) on a synthetic frame\n", len(cands))
	for _, c := range cands {
		fmt.Printf("   - %s (%.1f%%) %s\n", c.Label, c.Confidence*100, c.Region)
	}

	if os.Getenv("PENDING_STORE") != "sqlite" {
		return
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./dressapp.db"
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	var total, live int
	if err := db.QueryRow("SELECT COUNT(*) FROM pending_selections").Scan(&total); err != nil {
		log.Fatal("Failed to count pending selections:", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM pending_selections WHERE expires_at >= ?", time.Now().UnixNano()).Scan(&live); err != nil {
		log.Fatal("Failed to count live pending selections:", err)
	}

	fmt.Printf("📦 Pending store: %s\n", dbPath)
	fmt.Printf("   Pending selections: %d total, %d live\n", total, live)
	if total > live {
		fmt.Printf("   %d expired row(s) will be swept on the next write\n", total-live)
	}
}
