// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/someonegg/quotassign"
	"github.com/someonegg/quotassign/internal/pipeline"
	"github.com/someonegg/quotassign/workbook"
)

const (
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	outputFilename = "output_assigned.xlsx"

	// DefaultSeed applies when neither the form nor the config sets a seed,
	// so repeated uploads of one workbook give the same result.
	DefaultSeed int64 = 42
)

// POST /assign
// Multipart form: file (xlsx, required), seed (int, optional, default 42),
// sheet (optional).
// Responds with the workbook including the result sheet.
func (s *Server) Assign(c *gin.Context) {
	log := s.log.With("request_id", c.GetString("request_id"))

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxUploadMB<<20)

	fh, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondError(c, http.StatusRequestEntityTooLarge, "upload_too_large",
			fmt.Errorf("upload exceeds %d MB", s.cfg.Server.MaxUploadMB))
		return
	}
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("form field 'file' is required: %w", err))
		return
	}

	opts := pipeline.OptionsFrom(s.cfg)
	if opts.Seed == nil {
		seed := DefaultSeed
		opts.Seed = &seed
	}
	if v := strings.TrimSpace(c.PostForm("seed")); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_seed", fmt.Errorf("invalid seed %q", v))
			return
		}
		opts.Seed = &seed
	}
	if v := strings.TrimSpace(c.PostForm("sheet")); v != "" {
		cfg := *s.cfg
		cfg.Sheets.Output = v
		if err := cfg.Validate(); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_sheet", err)
			return
		}
		opts.Sheets.Output = v
	}

	f, err := fh.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "upload_failed", err)
		return
	}
	defer f.Close()

	wb, err := workbook.OpenReader(f)
	if err != nil {
		log.Warn("open upload failed", "file", fh.Filename, "error", err)
		RespondError(c, http.StatusUnprocessableEntity, errorCode(err), err)
		return
	}
	defer wb.Close()

	res, err := pipeline.New(log, opts).Run(wb)
	if err != nil {
		log.Warn("assignment failed", "file", fh.Filename, "error", err)
		code, status := errorCode(err), http.StatusUnprocessableEntity
		if code == "internal" {
			status = http.StatusInternalServerError
		}
		RespondError(c, status, code, err)
		return
	}

	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}

	log.Info("assignment served", "file", fh.Filename, "customers", len(res.Assigned), "seed", res.Seed)
	c.Header("Content-Disposition", `attachment; filename="`+outputFilename+`"`)
	c.Header("X-Assigned-Count", strconv.Itoa(len(res.Assigned)))
	c.Header("X-Seed", strconv.FormatInt(res.Seed, 10))
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, quotassign.ErrTableRead):
		return "table_read"
	case errors.Is(err, quotassign.ErrSchema):
		return "schema"
	case errors.Is(err, quotassign.ErrData):
		return "data"
	default:
		return "internal"
	}
}
