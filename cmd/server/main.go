package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/yotamfogel/Dress-App/internal/analysis"
	"github.com/yotamfogel/Dress-App/internal/api"
	"github.com/yotamfogel/Dress-App/internal/colors"
	"github.com/yotamfogel/Dress-App/internal/database"
	"github.com/yotamfogel/Dress-App/internal/imgproc"
	"github.com/yotamfogel/Dress-App/internal/vision"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	maxDim := envInt("MAX_IMAGE_DIMENSION", 2000)

	oversize := imgproc.Downscale
	if os.Getenv("OVERSIZE_POLICY") == "reject" {
		oversize = imgproc.Reject
	}
	decoder := &imgproc.Decoder{MaxDim: maxDim, Policy: oversize}

	// Detector selection. The DNN path needs model files and an OpenCV
	// build; a missing or broken model refuses to serve rather than
	// degrade silently.
	detectorKind := os.Getenv("DETECTOR")
	if detectorKind == "" {
		detectorKind = "heuristic"
	}

	var detector vision.Detector
	switch detectorKind {
	case "heuristic":
		detector = vision.NewHeuristicDetector()
	case "dnn":
		dnn, err := vision.NewDNNDetector(
			os.Getenv("MODEL_PATH"),
			os.Getenv("MODEL_CONFIG_PATH"),
			os.Getenv("MODEL_CLASSES_PATH"),
		)
		if err != nil {
			log.Fatal("Failed to initialize detection model:", err)
		}
		defer dnn.Close()
		detector = dnn
	default:
		log.Fatalf("Unsupported detector: %s", detectorKind)
	}

	extractor := colors.NewExtractor(colors.Config{
		KMax:         envInt("MAX_COLORS", 5),
		MinShare:     envFloat("MIN_COLOR_SHARE", 2.0),
		SampleBudget: envInt("COLOR_SAMPLE_BUDGET", 2000),
		Seed:         int64(envInt("COLOR_SEED", 42)),
	})

	storeKind := os.Getenv("PENDING_STORE")
	if storeKind == "" {
		storeKind = "memory"
	}

	var store analysis.PendingStore
	switch storeKind {
	case "memory":
		store = analysis.NewMemoryStore()
	case "sqlite":
		dbPath := os.Getenv("DB_PATH")
		if dbPath == "" {
			dbPath = "./dressapp.db"
		}
		db, err := database.NewDB(database.Config{Path: dbPath})
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		store = database.NewPendingStore(db)
		log.Printf("Pending store database: %s", dbPath)
	default:
		log.Fatalf("Unsupported pending store: %s", storeKind)
	}
	defer store.Close()

	svc := analysis.NewService(decoder, detector, extractor, store, analysis.Config{
		DetectTimeout: time.Duration(envInt("DETECT_TIMEOUT_SECONDS", 30)) * time.Second,
		ColorTimeout:  time.Duration(envInt("COLOR_TIMEOUT_SECONDS", 20)) * time.Second,
		NMSIoU:        envFloat("NMS_IOU", 0.5),
		PendingTTL:    time.Duration(envInt("PENDING_TTL_SECONDS", 180)) * time.Second,
	})

	app := &api.App{
		Service:      svc,
		StoreKind:    storeKind,
		MaxBodyBytes: int64(envInt("MAX_BODY_BYTES", 32<<20)),
	}

	router := api.NewRouter(app)

	log.Printf("Server starting on port %s", port)
	log.Printf("Detector: %s", detector.Name())
	log.Printf("Pending store: %s", storeKind)
	log.Printf("Max image dimension: %d", maxDim)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}

func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return v
}

func envFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return v
}
