// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter returns a gin engine serving the status API.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), cors.Default())
	h.Register(r)
	return r
}

// NewServer returns an http.Server for the status API on bind. The caller
// runs ListenAndServe and Shutdown.
func NewServer(bind string, h *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	return &http.Server{
		Addr:    bind,
		Handler: NewRouter(h),
	}
}
