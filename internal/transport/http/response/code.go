package response

import "net/http"

// 直接用 HTTP 语义状态码，集中管理默认文案
var statusMsg = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusConflict:            "Conflict",
	http.StatusInternalServerError: "Internal Server Error",
}

func MsgFor(status int) string {
	if m, ok := statusMsg[status]; ok {
		return m
	}
	return http.StatusText(status)
}
