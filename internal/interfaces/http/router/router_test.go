package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouterMountsUnderVersionPrefix(t *testing.T) {
	engine := gin.New()

	group := NewGroup("/widgets").
		GET("", func(c *gin.Context) { c.Status(http.StatusOK) })

	New(engine).Register(group).Setup()

	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/api/v1/widgets").Code)
	assert.Equal(t, http.StatusNotFound, perform(engine, http.MethodGet, "/widgets").Code)
}

func TestRouterCustomVersion(t *testing.T) {
	engine := gin.New()

	group := NewGroup("/widgets").
		GET("", func(c *gin.Context) { c.Status(http.StatusOK) })

	New(engine, WithAPIVersion("v2")).Register(group).Setup()

	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/api/v2/widgets").Code)
	assert.Equal(t, http.StatusNotFound, perform(engine, http.MethodGet, "/api/v1/widgets").Code)
}

func TestGroupMiddlewareRunsBeforeRoutes(t *testing.T) {
	engine := gin.New()

	var order []string
	group := NewGroup("/widgets").
		Use(func(c *gin.Context) {
			order = append(order, "group")
			c.Next()
		}).
		GET("", func(c *gin.Context) {
			order = append(order, "handler")
			c.Status(http.StatusOK)
		})

	New(engine).Register(group).Setup()

	perform(engine, http.MethodGet, "/api/v1/widgets")
	assert.Equal(t, []string{"group", "handler"}, order)
}

func TestGroupRouteScopedMiddleware(t *testing.T) {
	engine := gin.New()

	reject := func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) }
	group := NewGroup("/widgets").
		GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) }).
		GET("/locked", reject, func(c *gin.Context) { c.Status(http.StatusOK) })

	New(engine).Register(group).Setup()

	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/api/v1/widgets/open").Code)
	assert.Equal(t, http.StatusForbidden, perform(engine, http.MethodGet, "/api/v1/widgets/locked").Code)
}

func TestGroupAllMethods(t *testing.T) {
	engine := gin.New()

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	group := NewGroup("/widgets").
		GET("", ok).
		POST("", ok).
		PUT("/:id", ok).
		DELETE("/:id", ok)

	New(engine).Register(group).Setup()

	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/api/v1/widgets").Code)
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodPost, "/api/v1/widgets").Code)
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodPut, "/api/v1/widgets/7").Code)
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodDelete, "/api/v1/widgets/7").Code)
}
