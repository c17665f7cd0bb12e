// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package server exposes the assignment pipeline over HTTP: upload a
// workbook, get it back with the result sheet added.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/someonegg/quotassign/internal/config"
	"github.com/someonegg/quotassign/internal/logger"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	log    *logger.Logger
	cfg    *config.Config
	engine *gin.Engine
}

func New(log *logger.Logger, cfg *config.Config) *Server {
	s := &Server{
		log: log.With("component", "server"),
		cfg: cfg,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestID())
	engine.GET("/healthz", HealthCheck)
	engine.POST("/assign", s.Assign)
	s.engine = engine

	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.engine,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
