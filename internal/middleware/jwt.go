package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims JWT 声明
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken 生成 JWT
// secret: 签名密钥
// userID / username: 用户标识
// expireHours: 有效期（小时）
func GenerateToken(secret string, userID uint, username string, expireHours int) (string, error) {
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// parseToken 解析并校验 JWT
func parseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

// bearerToken 从 Authorization 头提取 Bearer token，没有则返回空串
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// JWTAuthMiddleware JWT 校验中间件
// 校验通过则设置 c.Set("user_id") 和 c.Set("username")
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "未授权",
				"message": "请提供有效的 JWT（Authorization: Bearer <token>）",
			})
			c.Abort()
			return
		}
		claims, err := parseToken(secret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "未授权",
				"message": "JWT 无效或已过期",
			})
			c.Abort()
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// IdentityResolver 返回按请求解析用户标识的函数，供监控中间件使用
// 解析失败或未携带 token 时返回空串（记为匿名），从不中断请求
func IdentityResolver(secret string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return ""
		}
		claims, err := parseToken(secret, tokenString)
		if err != nil {
			return ""
		}
		return claims.Username
	}
}

// CurrentUserID 从上下文取当前用户 ID，未登录时返回 0
func CurrentUserID(c *gin.Context) uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
