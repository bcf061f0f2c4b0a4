package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		target     string
		page, size int
	}{
		{target: "/", page: 1, size: 20},
		{target: "/?page=3&page_size=50", page: 3, size: 50},
		{target: "/?page=-1&page_size=500", page: 1, size: 100},
		{target: "/?page=x&page_size=0", page: 1, size: 20},
	}
	for _, tc := range cases {
		c, _ := testContext(tc.target)
		page, size := ParsePagination(c)
		if page != tc.page || size != tc.size {
			t.Fatalf("%s: want %d/%d got %d/%d", tc.target, tc.page, tc.size, page, size)
		}
	}
}

func TestParseKeyParam(t *testing.T) {
	c, _ := testContext("/")
	c.Params = gin.Params{{Key: "tracking_number", Value: "42"}}
	if v, ok := ParseKeyParam(c, "tracking_number"); !ok || v != 42 {
		t.Fatalf("want 42 got %d %v", v, ok)
	}

	c, w := testContext("/")
	c.Params = gin.Params{{Key: "tracking_number", Value: "0"}}
	if _, ok := ParseKeyParam(c, "tracking_number"); ok {
		t.Fatalf("zero key should be rejected")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("rejected key want 400 got %d", w.Code)
	}
}
