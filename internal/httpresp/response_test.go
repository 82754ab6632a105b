package httpresp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestPageFromQuery(t *testing.T) {
	c, _ := testContext("/?page=3&pageSize=500")
	p := PageFromQuery(c)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, MaxPageSize, p.Size)
	assert.Equal(t, 200, p.Offset())

	c, _ = testContext("/?page=-1")
	p = PageFromQuery(c)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, DefaultPageSize, p.Size)
	assert.Equal(t, 0, p.Offset())
}

func TestPaginated(t *testing.T) {
	c, w := testContext("/")

	Paginated(c, Page{Number: 1, Size: 20}, []int{1, 2}, 41)

	var body PageResponse[int]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.TotalPages)
	assert.Equal(t, int64(41), body.TotalRows)
	assert.Equal(t, []int{1, 2}, body.Data)
}

func TestList_NilBecomesEmptyArray(t *testing.T) {
	c, w := testContext("/")

	List[string](c, nil)

	assert.JSONEq(t, `{"data":[],"total":0}`, w.Body.String())
}
