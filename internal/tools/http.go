package tools

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewHTTPServer exposes s over HTTP: /mcp speaks the streamable HTTP transport and GET /tools lists the tools.
func NewHTTPServer(s *Server, logger *log.Logger) *echo.Echo {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Error("request failed", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "err", v.Error)
				return nil
			}
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
	e.Any("/mcp", echo.WrapHandler(handler))

	e.GET("/tools", func(c echo.Context) error {
		tools := s.Dispatcher().Tools()
		out := make([]toolSummary, 0, len(tools))
		for _, t := range tools {
			out = append(out, toolSummary{Name: t.Name, Description: t.Description})
		}
		return c.JSON(http.StatusOK, map[string]any{"tools": out})
	})

	return e
}
