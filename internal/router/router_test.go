package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/parcelkeep/internal/config"
	"github.com/parcelkeep/internal/models"
	"github.com/parcelkeep/internal/provider"
	"github.com/parcelkeep/internal/queue"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupRouterTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), models.NewGormConfig(false))
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	cfg.Import.MaxSize = 1 << 20
	cfg.Tracking.MaxAllocationAttempts = 3
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	cfg.CORS.AllowedOrigins = []string{"*"}

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	return SetupRouter(cfg, provider.NewContainerWithDB(cfg, db, queueClient))
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else if raw, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(raw))
	} else {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, decodeEnvelope(t, w)
}

func doUpload(t *testing.T, r *gin.Engine, path, filename string, content []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, decodeEnvelope(t, w)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("unmarshal envelope failed: %v body=%s", err, w.Body.String())
		}
	}
	return env
}

func janeBody(contact int64) map[string]interface{} {
	return map[string]interface{}{
		"recipient_name":    "Jane Doe",
		"recipient_email":   "jane@x.com",
		"recipient_contact": contact,
		"address":           "123 Test Street",
	}
}

func packageBody(recipientID uint) map[string]interface{} {
	return map[string]interface{}{
		"status":         "pending",
		"sender_name":    "John Smith",
		"recipient_id":   recipientID,
		"origin":         "New York",
		"destination":    "Los Angeles",
		"package_weight": 2.5,
		"price":          50,
	}
}

func createRecipient(t *testing.T, r *gin.Engine, contact int64) uint {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/v1/recipients", janeBody(contact))
	if w.Code != http.StatusCreated {
		t.Fatalf("create recipient want 201 got %d: %s", w.Code, w.Body.String())
	}
	var view struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode recipient failed: %v", err)
	}
	return view.ID
}

func pngBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, "\x89PNG\r\n\x1a\n")
	return data
}

func TestHealthAndMetrics(t *testing.T) {
	r := setupRouterTest(t)

	w, env := doJSON(t, r, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK || env.StatusCode != 0 {
		t.Fatalf("healthz want 200 got %d", w.Code)
	}

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/nothing-here", nil)
	if w.Code != http.StatusNotFound || env.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown route want 404 got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mw := httptest.NewRecorder()
	r.ServeHTTP(mw, req)
	if mw.Code != http.StatusOK || !strings.Contains(mw.Body.String(), "parcelkeep_http_request_duration_seconds") {
		t.Fatalf("metrics should expose request durations, code=%d", mw.Code)
	}
}

func TestPackageLifecycleOverHTTP(t *testing.T) {
	r := setupRouterTest(t)
	recipientID := createRecipient(t, r, 1234567890)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/packages", packageBody(recipientID))
	if w.Code != http.StatusCreated || env.StatusCode != 0 {
		t.Fatalf("create package want 201 got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		TrackingNumber int64  `json:"tracking_number"`
		WeightDisplay  string `json:"weight_display"`
		PriceDisplay   string `json:"price_display"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode package failed: %v", err)
	}
	if created.TrackingNumber != 1 || created.WeightDisplay != "2.50 kg" || created.PriceDisplay != "$50.00" {
		t.Fatalf("unexpected created package: %+v", created)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/packages/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get package want 200 got %d", w.Code)
	}
	w, env = doJSON(t, r, http.MethodGet, "/api/v1/packages/999", nil)
	if w.Code != http.StatusNotFound || env.StatusCode != http.StatusNotFound {
		t.Fatalf("missing package want 404 got %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/packages/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non numeric key want 400 got %d", w.Code)
	}

	w, env = doJSON(t, r, http.MethodPatch, "/api/v1/packages/1", map[string]string{"status": "teleported"})
	if w.Code != http.StatusBadRequest || !strings.Contains(env.Msg, "status") {
		t.Fatalf("invalid status want 400 naming the field got %d %q", w.Code, env.Msg)
	}
	w, _ = doJSON(t, r, http.MethodPatch, "/api/v1/packages/1", map[string]string{"status": "in-transit"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch status want 200 got %d: %s", w.Code, w.Body.String())
	}

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/packages/1/events", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("events want 200 got %d", w.Code)
	}
	var events []map[string]interface{}
	if err := json.Unmarshal(env.Data, &events); err != nil || len(events) != 2 {
		t.Fatalf("want create and patch events, got %d (%v)", len(events), err)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/packages", "{broken")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body want 400 got %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/packages/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete want 200 got %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/packages/1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete want 404 got %d", w.Code)
	}
}

func TestPackageBulkOverHTTP(t *testing.T) {
	r := setupRouterTest(t)
	recipientID := createRecipient(t, r, 1234567890)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/packages/add-many", map[string]interface{}{
		"packages": []interface{}{packageBody(recipientID), packageBody(recipientID)},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add many want 201 got %d: %s", w.Code, w.Body.String())
	}

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/packages/add-many", map[string]interface{}{
		"packages": []interface{}{packageBody(recipientID), packageBody(4242)},
	})
	if w.Code != http.StatusNotFound || !strings.HasPrefix(env.Msg, "item 2:") {
		t.Fatalf("missing recipient want 404 at item 2 got %d %q", w.Code, env.Msg)
	}

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/packages/update-many", map[string]interface{}{
		"updates": []interface{}{
			map[string]interface{}{"tracking_number": 1, "fields_to_update": map[string]interface{}{"status": "delivered"}},
			map[string]interface{}{"tracking_number": 2, "fields_to_update": map[string]interface{}{"status": "lost"}},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid item want 400 got %d: %s", w.Code, w.Body.String())
	}
	var partial struct {
		Index         int `json:"index"`
		PartialResult struct {
			UpdatedPackages []map[string]interface{} `json:"updated_packages"`
		} `json:"partial_result"`
	}
	if err := json.Unmarshal(env.Data, &partial); err != nil {
		t.Fatalf("decode partial result failed: %v", err)
	}
	if partial.Index != 2 || len(partial.PartialResult.UpdatedPackages) != 1 {
		t.Fatalf("unexpected partial result: %+v", partial)
	}

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/packages/delete-many", map[string]interface{}{
		"tracking_numbers": []interface{}{1, "2", 99},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("delete many want 200 got %d: %s", w.Code, w.Body.String())
	}
	var deleted struct {
		DeletedCount    int64   `json:"deleted_count"`
		NotFoundNumbers []int64 `json:"not_found_numbers"`
	}
	if err := json.Unmarshal(env.Data, &deleted); err != nil {
		t.Fatalf("decode delete result failed: %v", err)
	}
	if deleted.DeletedCount != 2 || len(deleted.NotFoundNumbers) != 1 || deleted.NotFoundNumbers[0] != 99 {
		t.Fatalf("unexpected delete result: %+v", deleted)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/packages/delete-many", map[string]interface{}{
		"tracking_numbers": []interface{}{"one"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid keys want 400 got %d", w.Code)
	}
}

func TestAttachmentsOverHTTP(t *testing.T) {
	r := setupRouterTest(t)
	recipientID := createRecipient(t, r, 1234567890)
	if w, _ := doJSON(t, r, http.MethodPost, "/api/v1/packages", packageBody(recipientID)); w.Code != http.StatusCreated {
		t.Fatalf("create package want 201 got %d", w.Code)
	}

	w, _ := doJSON(t, r, http.MethodGet, "/api/v1/packages/1/ID_Proof", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing id proof want 404 got %d", w.Code)
	}

	w, _ = doUpload(t, r, "/api/v1/packages/1/ID_Proof", "passport.png", pngBytes(64))
	if w.Code != http.StatusOK {
		t.Fatalf("upload want 200 got %d: %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/packages/1/ID_Proof", nil)
	raw := httptest.NewRecorder()
	r.ServeHTTP(raw, req)
	if raw.Code != http.StatusOK || raw.Header().Get("Content-Type") != "image/png" || raw.Body.Len() != 64 {
		t.Fatalf("download want png bytes got %d %s len=%d", raw.Code, raw.Header().Get("Content-Type"), raw.Body.Len())
	}

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/packages/1/ID_Proof/validate", nil)
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), "image/png") {
		t.Fatalf("validate want png meta got %d %s", w.Code, env.Data)
	}

	w, env = doUpload(t, r, "/api/v1/packages/1/ID_Proof", "huge.png", pngBytes(6*1024*1024))
	if w.Code != http.StatusBadRequest || !strings.Contains(env.Msg, "5MB") {
		t.Fatalf("oversized upload want 400 got %d %q", w.Code, env.Msg)
	}

	w, env = doUpload(t, r, "/api/v1/recipients/1234567890/image", "scan.pdf", []byte("%PDF-1.7 test"))
	if w.Code != http.StatusBadRequest || !strings.Contains(env.Msg, "application/pdf") {
		t.Fatalf("pdf image want 400 got %d %q", w.Code, env.Msg)
	}
	w, _ = doUpload(t, r, "/api/v1/recipients/1234567890/image", "face.png", pngBytes(32))
	if w.Code != http.StatusOK {
		t.Fatalf("recipient image want 200 got %d: %s", w.Code, w.Body.String())
	}

	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/packages/1/delete_ID_Proof", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete id proof want 200 got %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/packages/1/ID_Proof", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted id proof want 404 got %d", w.Code)
	}
}

func TestRecipientImportOverHTTP(t *testing.T) {
	r := setupRouterTest(t)

	content := "recipient_name,recipient_email,recipient_contact,address\n" +
		"Jane Doe,jane@x.com,1234567890,123 Test Street\n"
	w, _ := doUpload(t, r, "/api/v1/recipients/import", "recipients.csv", []byte(content))
	if w.Code != http.StatusCreated {
		t.Fatalf("import want 201 got %d: %s", w.Code, w.Body.String())
	}

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/recipients?search=jane", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list want 200 got %d", w.Code)
	}
	var items []map[string]interface{}
	if err := json.Unmarshal(env.Data, &items); err != nil || len(items) != 1 {
		t.Fatalf("want one imported recipient, got %d (%v)", len(items), err)
	}

	w, _ = doUpload(t, r, "/api/v1/recipients/import", "recipients.xml", []byte("<x/>"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unsupported import want 400 got %d", w.Code)
	}

	huge := bytes.Repeat([]byte(" "), 2<<20)
	w, env = doUpload(t, r, "/api/v1/recipients/import", "recipients.json", huge)
	if w.Code != http.StatusBadRequest || !strings.Contains(env.Msg, "10MB") {
		t.Fatalf("oversized import want 400 size message got %d %q", w.Code, env.Msg)
	}

	w, _ = doJSON(t, r, http.MethodPatch, "/api/v1/recipients/1234567890", map[string]interface{}{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty patch want 400 got %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodPatch, "/api/v1/recipients/1234567890", map[string]interface{}{"address": "9 Harbour Lane"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch want 200 got %d: %s", w.Code, w.Body.String())
	}
}
