package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorUsesHTTPStatusAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	NotFound(c, "package not found")

	if w.Code != http.StatusNotFound {
		t.Fatalf("http status want 404 got %d", w.Code)
	}
	var body struct {
		StatusCode int               `json:"status_code"`
		Msg        string            `json:"msg"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.StatusCode != 404 || body.Msg != "package not found" || body.Data["request_id"] != "req-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestCreatedAndPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, gin.H{"tracking_number": 1})
	if w.Code != http.StatusCreated {
		t.Fatalf("http status want 201 got %d", w.Code)
	}

	p := BuildPagination(2, 20, 41)
	if p.TotalPage != 3 || p.Page != 2 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if BuildPagination(1, 0, 5).TotalPage != 0 {
		t.Fatalf("zero page size should yield zero pages")
	}
}

func TestFailCarriesDataAndUnwraps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-9")

	cause := errors.New("status is not valid")
	appErr := WrapError(CodeBadRequest, "item 2: status is not valid", cause).WithData(gin.H{"index": 2})
	if !errors.Is(appErr, cause) {
		t.Fatalf("app error should unwrap to its cause")
	}
	Fail(c, appErr)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("http status want 400 got %d", w.Code)
	}
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.Data["index"] != float64(2) || body.Data["request_id"] != "req-9" {
		t.Fatalf("unexpected data: %+v", body.Data)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Fail(c, WrapError(CodeOK, "odd", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("non error code should fall back to 500, got %d", w.Code)
	}
}
