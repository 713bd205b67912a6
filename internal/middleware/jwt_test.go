package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

func authedRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  CurrentUserID(c),
			"username": c.GetString("username"),
		})
	})
	return r
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, "alice", 1)
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	r := authedRouter(testSecret)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200", w.Code)
	}
}

func TestJWTRejectsMissingOrInvalid(t *testing.T) {
	r := authedRouter(testSecret)

	// 无 token
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("无 token 状态码 = %d, 期望 401", w.Code)
	}

	// 密钥不匹配
	token, _ := GenerateToken("other-secret", 1, "bob", 1)
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("伪造 token 状态码 = %d, 期望 401", w.Code)
	}
}

func TestIdentityResolver(t *testing.T) {
	resolve := IdentityResolver(testSecret)
	gin.SetMode(gin.TestMode)

	// 有效 token 解析出用户名
	token, _ := GenerateToken(testSecret, 7, "carol", 1)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)
	if got := resolve(c); got != "carol" {
		t.Errorf("resolve = %q, 期望 carol", got)
	}

	// 无 token / 坏 token 都返回空串，从不中断请求
	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := resolve(c2); got != "" {
		t.Errorf("无 token resolve = %q, 期望空串", got)
	}
	c3, _ := gin.CreateTestContext(httptest.NewRecorder())
	c3.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c3.Request.Header.Set("Authorization", "Bearer not-a-jwt")
	if got := resolve(c3); got != "" {
		t.Errorf("坏 token resolve = %q, 期望空串", got)
	}
}
