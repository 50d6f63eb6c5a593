package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GuestTokenHeader - client không gửi được body/query (DELETE) dùng header này
const GuestTokenHeader = "X-Guest-Token"

// GuestToken lấy guest token thô theo thứ tự: body → query → header.
// bodyToken là field guest_token của JSON body (rỗng nếu request không có body).
func GuestToken(c *gin.Context, bodyToken string) string {
	if t := strings.TrimSpace(bodyToken); t != "" {
		return t
	}
	if t := strings.TrimSpace(c.Query("guest_token")); t != "" {
		return t
	}
	return strings.TrimSpace(c.GetHeader(GuestTokenHeader))
}

// BodyGuestToken đọc guest_token từ JSON body không bắt buộc (DELETE).
// Không có body hoặc body không phải JSON hợp lệ → "".
func BodyGuestToken(c *gin.Context) string {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return ""
	}
	var body struct {
		GuestToken string `json:"guest_token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		return ""
	}
	return body.GuestToken
}
