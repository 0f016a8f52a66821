package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the envelope of every response.
type Body struct {
	Code int         `json:"code"`
	Data interface{} `json:"data"`
	Msg  string      `json:"msg"`
}

func success(c *gin.Context, data interface{}) {
	writeJSON(c, http.StatusOK, data, "")
}

func failure(c *gin.Context, status int, msg string) {
	writeJSON(c, status, gin.H{}, msg)
}

func writeJSON(c *gin.Context, status int, data interface{}, msg string) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Body{
		Code: status,
		Data: data,
		Msg:  msg,
	})
}
