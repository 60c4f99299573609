package integration

import (
	"image/color"
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.Server.URL + "/health")
	if err != nil {
		t.Fatalf("Health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestSingleGarmentFlow(t *testing.T) {
	ts := setupTestServer(t)

	// A flat frame has no salient structure, so the whole image is
	// analyzed as one garment.
	status, body := ts.postAnalyze(t, map[string]any{
		"image": solidImage(t, 100, 100, color.RGBA{R: 255, A: 255}),
	})

	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", status, body)
	}
	if body["success"] != true {
		t.Fatalf("Expected success, got %v", body)
	}
	if body["clothing_type"] != "shirt" {
		t.Errorf("Expected clothing_type shirt, got %v", body["clothing_type"])
	}

	colorsList, _ := body["colors"].([]any)
	if len(colorsList) != 1 {
		t.Fatalf("Expected one dominant color, got %v", body["colors"])
	}
	first := colorsList[0].(map[string]any)
	if first["color"] != "red" {
		t.Errorf("Expected red, got %v", first["color"])
	}
	if first["percentage"] != float64(100) {
		t.Errorf("Expected 100%%, got %v", first["percentage"])
	}

	details, _ := body["detection_details"].(map[string]any)
	if details["method"] != "heuristic-saliency" {
		t.Errorf("Expected heuristic-saliency method, got %v", details["method"])
	}
}

func TestNoDetectionsFlow(t *testing.T) {
	ts := setupTestServer(t)

	// Below the minimum box size nothing qualifies.
	status, body := ts.postAnalyze(t, map[string]any{
		"image": solidImage(t, 10, 10, color.White),
	})

	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", status, body)
	}
	if body["success"] != true {
		t.Errorf("Expected success true, got %v", body)
	}
	if body["total_items"] != float64(0) {
		t.Errorf("Expected total_items 0, got %v", body)
	}
}

func TestDisambiguationFlow(t *testing.T) {
	ts := setupTestServer(t)
	payload := personImage(t)

	status, body := ts.postAnalyze(t, map[string]any{"image": payload})
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", status, body)
	}
	if body["multiple_items"] != true {
		t.Fatalf("Expected multiple_items, got %v", body)
	}

	items, _ := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("Expected two items, got %v", body["items"])
	}
	sessionID, _ := body["session_id"].(string)
	if sessionID == "" {
		t.Fatal("Expected a session_id")
	}

	status, resolved := ts.postAnalyze(t, map[string]any{
		"image":          payload,
		"session_id":     sessionID,
		"item_selection": 1,
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200 on resolve, got %d: %v", status, resolved)
	}
	if resolved["clothing_type"] != "shirt" {
		t.Errorf("Expected clothing_type shirt, got %v", resolved["clothing_type"])
	}

	// The pending entry was consumed by the valid selection.
	status, second := ts.postAnalyze(t, map[string]any{
		"image":          payload,
		"session_id":     sessionID,
		"item_selection": 1,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("Expected 400 on reused session, got %d: %v", status, second)
	}
	if second["error"] != "selection_error" {
		t.Errorf("Expected selection_error, got %v", second)
	}
}

func TestInvalidSelectionKeepsSession(t *testing.T) {
	ts := setupTestServer(t)
	payload := personImage(t)

	_, body := ts.postAnalyze(t, map[string]any{"image": payload})
	sessionID, _ := body["session_id"].(string)
	if sessionID == "" {
		t.Fatalf("Expected a session_id, got %v", body)
	}

	status, errBody := ts.postAnalyze(t, map[string]any{
		"image":          payload,
		"session_id":     sessionID,
		"item_selection": 9,
	})
	if status != http.StatusBadRequest || errBody["error"] != "selection_error" {
		t.Fatalf("Expected selection_error, got %d: %v", status, errBody)
	}

	// The session survives the bad attempt.
	status, resolved := ts.postAnalyze(t, map[string]any{
		"image":          payload,
		"session_id":     sessionID,
		"item_selection": 2,
	})
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", status, resolved)
	}
	if resolved["clothing_type"] != "pants" {
		t.Errorf("Expected clothing_type pants, got %v", resolved["clothing_type"])
	}
}
