// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// FFBatch - FFmpeg 批量转码工具

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ZSC714725/ffbatch/internal/ffmpeg/skills"
	"github.com/ZSC714725/ffbatch/internal/task"
)

const writeTimeout = 10 * time.Second

// SkillsSource probes the encoder binary
type SkillsSource interface {
	Binary() string
	Skills() (skills.Skills, error)
}

// Handler holds dependencies
type Handler struct {
	store    task.Store
	skills   SkillsSource
	upgrader websocket.Upgrader
}

// NewHandler creates API handler. A nil src disables the skills endpoint.
func NewHandler(store task.Store, src SkillsSource) *Handler {
	return &Handler{
		store:  store,
		skills: src,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Register mounts the routes under /api/v1
func (h *Handler) Register(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/jobs", h.ListJobs)
		v1.GET("/jobs/:id", h.GetJob)
		v1.GET("/events", h.Events)
		v1.GET("/skills", h.Skills)
	}
}

func errResp(c *gin.Context, code int, msg, detail string) {
	c.JSON(code, ErrorResponse{Code: code, Message: msg, Detail: detail})
}

// ListJobs GET /api/v1/jobs
func (h *Handler) ListJobs(c *gin.Context) {
	batch := c.DefaultQuery("batch", "")
	state := c.DefaultQuery("state", "")

	jobs := h.store.List()
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if batch != "" && j.Batch != batch {
			continue
		}
		if state != "" && string(j.State) != state {
			continue
		}
		out = append(out, jobToAPI(j))
	}

	c.JSON(http.StatusOK, out)
}

// GetJob GET /api/v1/jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	j, err := h.store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
			return
		}
		errResp(c, http.StatusInternalServerError, "Lookup failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, jobToAPI(j))
}

// Skills GET /api/v1/skills
func (h *Handler) Skills(c *gin.Context) {
	if h.skills == nil {
		errResp(c, http.StatusNotFound, "No encoder configured", "")
		return
	}
	sk, err := h.skills.Skills()
	if err != nil {
		errResp(c, http.StatusInternalServerError, "Probe failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, skillsToAPI(h.skills.Binary(), sk))
}

// Events GET /api/v1/events streams job changes over a websocket. The
// current jobs are sent first as "snapshot" messages.
func (h *Handler) Events(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied.
		return
	}
	defer conn.Close()

	events, cancel := h.store.Subscribe(64)
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for _, j := range h.store.List() {
		if err := send(conn, "snapshot", j); err != nil {
			return
		}
	}

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := send(conn, string(ev.Type), ev.Job); err != nil {
				return
			}
		}
	}
}

func send(conn *websocket.Conn, kind string, j task.Job) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(EventMessage{
		Type:      kind,
		Job:       jobToAPI(j),
		Timestamp: time.Now().Unix(),
	})
}
