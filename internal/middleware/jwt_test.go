package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ride_hailing/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGenerateAndValidateToken(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)
	user := &models.User{ID: 7, Phone: "5551234567", IsApproved: true}

	tok, err := j.GenerateToken(user, models.RoleDriver)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := j.ValidateToken(tok)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.ID != 7 || claims.Phone != "5551234567" || claims.Role != models.RoleDriver || !claims.IsApproved {
		t.Fatalf("claims = %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("lifetime = %v, want 1h", got)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)
	tok, _ := j.GenerateToken(&models.User{ID: 1}, models.RoleUser)

	if _, err := NewJWT("other-secret", time.Hour).ValidateToken(tok); err == nil {
		t.Error("token signed with another secret accepted")
	}

	later := NewJWT("test-secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.ValidateToken(tok); err == nil {
		t.Error("expired token accepted")
	}
}

func newRouter(j *JWT, handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{j.RequireAuth()}, handlers...)
	chain = append(chain, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/things/:id", chain...)
	return r
}

func do(r http.Handler, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRequireAuth(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)
	r := newRouter(j)
	tok, _ := j.GenerateToken(&models.User{ID: 1}, models.RoleUser)

	if code := do(r, "/things/1", ""); code != http.StatusUnauthorized {
		t.Errorf("no token: %d", code)
	}
	if code := do(r, "/things/1", "garbage"); code != http.StatusUnauthorized {
		t.Errorf("bad token: %d", code)
	}
	if code := do(r, "/things/1", tok); code != http.StatusOK {
		t.Errorf("good token: %d", code)
	}
}

func TestRequireRole(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)
	r := newRouter(j, RequireRole(models.RoleAdmin))
	user, _ := j.GenerateToken(&models.User{ID: 1}, models.RoleUser)
	admin, _ := j.GenerateToken(&models.User{ID: 2}, models.RoleAdmin)

	if code := do(r, "/things/1", user); code != http.StatusForbidden {
		t.Errorf("user: %d", code)
	}
	if code := do(r, "/things/1", admin); code != http.StatusOK {
		t.Errorf("admin: %d", code)
	}
}

func TestRequireSelfOrRole(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)
	r := newRouter(j, RequireSelfOrRole("id", models.RoleAdmin))
	user, _ := j.GenerateToken(&models.User{ID: 5}, models.RoleUser)
	admin, _ := j.GenerateToken(&models.User{ID: 2}, models.RoleAdmin)

	if code := do(r, "/things/5", user); code != http.StatusOK {
		t.Errorf("self: %d", code)
	}
	if code := do(r, "/things/6", user); code != http.StatusForbidden {
		t.Errorf("other: %d", code)
	}
	if code := do(r, "/things/6", admin); code != http.StatusOK {
		t.Errorf("admin: %d", code)
	}
}

func TestEnableCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := EnableCORS(next, []string{"http://app.test"})

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://app.test")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://app.test" {
		t.Errorf("allowed origin not echoed")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusTeapot {
		t.Errorf("passthrough status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("foreign origin echoed")
	}
}
