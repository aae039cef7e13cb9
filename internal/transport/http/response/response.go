package response

import "github.com/gin-gonic/gin"

// ErrBody 失败统一形如 {"error": "..."}，客户端原样展示
type ErrBody struct {
	Error string `json:"error"`
}

func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func Err(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = MsgFor(status)
	}
	c.JSON(status, ErrBody{Error: msg})
}

func AbortErr(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = MsgFor(status)
	}
	c.AbortWithStatusJSON(status, ErrBody{Error: msg})
}
