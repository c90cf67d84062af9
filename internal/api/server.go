// Package api exposes EFF conversion over HTTP.
//
// The service mirrors the effconv CLI: one endpoint turns a binary EFF
// container into its JSON interchange form, the other turns interchange
// JSON back into a container. The resource payload is never embedded in
// JSON; decode reports its size in a response header and encode always
// produces a container without a payload.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/ultimate-research/eff-lib/internal/logger"
	"github.com/ultimate-research/eff-lib/pkg/eff"
	"github.com/ultimate-research/eff-lib/pkg/effdata"
)

const (
	// HeaderConversionID carries the ID assigned to one conversion.
	HeaderConversionID = "X-Conversion-Id"

	// HeaderResourceSize reports the byte size of a decoded container's
	// resource payload, since the payload itself is not part of the
	// JSON response. Absent when the container has no payload.
	HeaderResourceSize = "X-Eff-Resource-Size"

	// maxBodySize bounds request bodies. EFF containers are small;
	// the resource payload dominates and stays in the low megabytes.
	maxBodySize = 64 << 20
)

// Server handles conversion requests.
type Server struct {
	log logger.Logger
}

// NewServer creates a conversion server logging through log.
func NewServer(log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{log: log}
}

// Register attaches the conversion routes to e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/decode", s.handleDecode)
	e.POST("/v1/encode", s.handleEncode)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleDecode turns a binary EFF container into interchange JSON.
func (s *Server) handleDecode(c *echo.Context) error {
	id := uuid.NewString()
	c.Response().Header().Set(HeaderConversionID, id)

	body, err := readBody(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	f, err := eff.DecodeBytes(body)
	if err != nil {
		s.log.Warn("decode rejected", "conversion_id", id, "error", err)
		return writeConversionError(c, err)
	}
	data, err := effdata.FromFile(f)
	if err != nil {
		s.log.Warn("decode rejected", "conversion_id", id, "error", err)
		return writeConversionError(c, err)
	}

	if data.ResourceData != nil {
		c.Response().Header().Set(HeaderResourceSize, strconv.Itoa(len(data.ResourceData)))
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return writeInternalError(c, err)
	}

	s.log.Info("decoded container",
		"conversion_id", id,
		"handles", len(data.Handles),
		"model_entries", len(data.ModelEntries),
		"resource_bytes", len(data.ResourceData),
	)
	return writeBlob(c, echo.MIMEApplicationJSON, out)
}

// handleEncode turns interchange JSON into a binary EFF container.
func (s *Server) handleEncode(c *echo.Context) error {
	id := uuid.NewString()
	c.Response().Header().Set(HeaderConversionID, id)

	body, err := readBody(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	var data effdata.Data
	if err := json.Unmarshal(body, &data); err != nil {
		s.log.Warn("encode rejected", "conversion_id", id, "error", err)
		return writeBadRequest(c, fmt.Sprintf("invalid interchange JSON: %v", err))
	}

	out, err := data.File().EncodeBytes()
	if err != nil {
		return writeInternalError(c, err)
	}

	s.log.Info("encoded container",
		"conversion_id", id,
		"handles", len(data.Handles),
		"bytes", len(out),
	)
	return writeBlob(c, "application/octet-stream", out)
}

func readBody(c *echo.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, errors.New("request body too large")
	}
	return body, nil
}
