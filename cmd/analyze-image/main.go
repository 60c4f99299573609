package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/yotamfogel/Dress-App/internal/analysis"
	"github.com/yotamfogel/Dress-App/internal/colors"
	"github.com/yotamfogel/Dress-App/internal/imgproc"
	"github.com/yotamfogel/Dress-App/internal/vision"
)

// analyze-image runs the full pipeline over a local photo without going
// through the HTTP server. When the image holds several garments, pass
// -select to pick one; the candidate list is printed on the first run.
func main() {
	var filePath = flag.String("file", "", "Path to the image to analyze")
	var selection = flag.Int("select", 0, "Item to analyze when multiple garments are found (1-based)")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("Please provide an image with the -file flag")
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal("Failed to read image:", err)
	}
	payload := base64.StdEncoding.EncodeToString(raw)

	detector := vision.NewHeuristicDetector()
	store := analysis.NewMemoryStore()
	defer store.Close()

	svc := analysis.NewService(
		&imgproc.Decoder{MaxDim: getEnvInt("MAX_IMAGE_DIMENSION", 2000)},
		detector,
		colors.NewExtractor(colors.DefaultConfig()),
		store,
		analysis.DefaultConfig(),
	)

	ctx := context.Background()
	out, err := svc.Analyze(ctx, payload)
	if err != nil {
		log.Fatal("Analysis failed:", err)
	}

	switch {
	case out.Result != nil:
		printResult(out.Result)
	case out.Pending != nil:
		if *selection == 0 {
			fmt.Printf("Found %d garments:\n", len(out.Pending.Candidates))
			for i, c := range out.Pending.Candidates {
				fmt.Printf("  %d. %s (confidence: %.1f%%) %s\n", i+1, c.Label, c.Confidence*100, c.Region)
			}
			fmt.Println("Re-run with -select <n> to analyze one of them")
			return
		}
		resolved, err := svc.Resolve(ctx, payload, out.Pending.ID, *selection)
		if err != nil {
			log.Fatal("Selection failed:", err)
		}
		printResult(resolved.Result)
	default:
		fmt.Println("No garments detected")
	}
}

func printResult(res *analysis.Result) {
	fmt.Printf("Clothing type: %s\n", res.ClothingType)
	fmt.Printf("Styles: %v\n", res.Styles)
	fmt.Printf("Colors: %s\n", res.ColorDescription)
	fmt.Printf("Confidence: %.1f%%\n", res.Confidence*100)
	fmt.Printf("Region: %s\n", res.Region)

	encoded, err := json.MarshalIndent(res.Colors, "", "  ")
	if err == nil {
		fmt.Printf("Color detail: %s\n", encoded)
	}
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return v
}
