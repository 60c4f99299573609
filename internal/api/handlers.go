package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/yotamfogel/Dress-App/internal/analysis"
	"github.com/yotamfogel/Dress-App/internal/imgproc"
)

type App struct {
	Service      *analysis.Service
	StoreKind    string
	MaxBodyBytes int64
}

type analyzeRequest struct {
	Image         string `json:"image"`
	ItemSelection int    `json:"item_selection,omitempty"`
	SessionID     string `json:"session_id,omitempty"`
}

type colorJSON struct {
	Color      string   `json:"color"`
	Percentage float64  `json:"percentage"`
	RGB        [3]uint8 `json:"rgb"`
}

type detectionDetails struct {
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

type resultResponse struct {
	Success          bool             `json:"success"`
	ClothingType     string           `json:"clothing_type"`
	ApplicableStyles []string         `json:"applicable_styles"`
	Colors           []colorJSON      `json:"colors"`
	ColorDescription string           `json:"color_description"`
	DetectionDetails detectionDetails `json:"detection_details"`
}

type itemJSON struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type multipleItemsResponse struct {
	Success       bool       `json:"success"`
	MultipleItems bool       `json:"multiple_items"`
	Items         []itemJSON `json:"items"`
	SessionID     string     `json:"session_id"`
	Message       string     `json:"message"`
	Instruction   string     `json:"instruction"`
}

type noDetectionsResponse struct {
	Success    bool       `json:"success"`
	Items      []itemJSON `json:"items"`
	TotalItems int        `json:"total_items"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (app *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"detector":      app.Service.DetectorName(),
		"pending_store": app.StoreKind,
		"models_loaded": true,
	})
}

// AnalyzeFashionHandler serves both halves of the disambiguation exchange.
// A request carrying session_id and item_selection resolves a previous
// multiple-items prompt; anything else starts a fresh analysis.
func (app *App) AnalyzeFashionHandler(w http.ResponseWriter, r *http.Request) {
	if app.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, app.MaxBodyBytes)
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "decode_error", Message: "invalid JSON body",
		})
		return
	}
	if req.Image == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "decode_error", Message: "missing image",
		})
		return
	}

	var out *analysis.Outcome
	var err error
	if req.SessionID != "" || req.ItemSelection != 0 {
		out, err = app.Service.Resolve(r.Context(), req.Image, req.SessionID, req.ItemSelection)
	} else {
		out, err = app.Service.Analyze(r.Context(), req.Image)
	}
	if err != nil {
		app.writeError(w, err)
		return
	}

	switch {
	case out.Result != nil:
		writeJSON(w, http.StatusOK, resultJSON(out.Result))
	case out.Pending != nil:
		writeJSON(w, http.StatusOK, multipleJSON(out.Pending))
	default:
		writeJSON(w, http.StatusOK, noDetectionsResponse{Success: true, Items: []itemJSON{}})
	}
}

func resultJSON(res *analysis.Result) resultResponse {
	colors := make([]colorJSON, len(res.Colors))
	for i, c := range res.Colors {
		colors[i] = colorJSON{Color: c.Name, Percentage: c.Percentage, RGB: c.RGB}
	}
	return resultResponse{
		Success:          true,
		ClothingType:     res.ClothingType,
		ApplicableStyles: res.Styles,
		Colors:           colors,
		ColorDescription: res.ColorDescription,
		DetectionDetails: detectionDetails{Confidence: res.Confidence, Method: res.Method},
	}
}

func multipleJSON(pending *analysis.PendingSelection) multipleItemsResponse {
	items := make([]itemJSON, len(pending.Candidates))
	for i, c := range pending.Candidates {
		items[i] = itemJSON{
			ID:          i + 1,
			Description: fmt.Sprintf("%s (confidence: %.1f%%)", c.Label, c.Confidence*100),
		}
	}
	return multipleItemsResponse{
		Success:       true,
		MultipleItems: true,
		Items:         items,
		SessionID:     pending.ID,
		Message:       "Multiple clothing items detected. Resubmit with the id of the item to analyze.",
		Instruction:   "resubmit with item_selection: <id>",
	}
}

// writeError maps pipeline errors onto the wire taxonomy. Everything else
// is an internal fault: logged, never echoed to the client.
func (app *App) writeError(w http.ResponseWriter, err error) {
	var decodeErr *imgproc.DecodeError
	var sizeErr *imgproc.SizeLimitError
	var selErr *analysis.SelectionError

	switch {
	case errors.As(err, &decodeErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "decode_error", Message: decodeErr.Error(),
		})
	case errors.As(err, &sizeErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "size_limit", Message: sizeErr.Error(),
		})
	case errors.As(err, &selErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "selection_error", Message: selErr.Error(),
		})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{
			Error: "timeout", Message: "analysis exceeded its time budget; try a smaller or simpler image",
		})
	default:
		log.Printf("analyze request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal", Message: "internal error",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
