package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gon161/RAG-multi-documento/web"
)

// ServeIndex serves the embedded chat UI.
func ServeIndex(c *gin.Context) {
	content, err := web.FS.ReadFile("index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to read index")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", content)
}
