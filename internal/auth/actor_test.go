package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"rental-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func routerWith(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		actor := FromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": string(actor.Role)})
	})
	return r
}

func request(r *gin.Engine, id, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if id != "" {
		req.Header.Set("X-User-Id", id)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	r := routerWith(Middleware())

	w := request(r, "user-1", "TENANT")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"user-1"`)
	assert.Contains(t, w.Body.String(), `"role":"TENANT"`)

	assert.Equal(t, http.StatusUnauthorized, request(r, "", "TENANT").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "user-1", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "user-1", "SUPERUSER").Code)
}

func TestRequireRoles(t *testing.T) {
	r := routerWith(Middleware(), RequireRoles(models.RoleLandlord, models.RoleAdmin))

	assert.Equal(t, http.StatusOK, request(r, "user-1", "LANDLORD").Code)
	assert.Equal(t, http.StatusOK, request(r, "user-1", "ADMIN").Code)
	assert.Equal(t, http.StatusForbidden, request(r, "user-1", "TENANT").Code)
}

func TestFromContextZeroValue(t *testing.T) {
	r := routerWith()

	w := request(r, "user-1", "TENANT")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":""`)
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, Actor{ID: "a", Role: models.RoleAdmin}.IsAdmin())
	assert.False(t, Actor{ID: "a", Role: models.RoleLandlord}.IsAdmin())
	assert.False(t, Actor{}.IsAdmin())
}
