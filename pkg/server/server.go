// Package server is the HTTP front end: the table and map as an HTML page,
// the map as GeoJSON, and a small JSON API.
package server

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"tableflip.dev/streammap/pkg/app"
	"tableflip.dev/streammap/pkg/controller"
	"tableflip.dev/streammap/pkg/entry"
	"tableflip.dev/streammap/pkg/render"
	"tableflip.dev/streammap/pkg/view"
)

const (
	DefaultAddr  = ":8080"
	DefaultTitle = "Streams"
	mimeGeoJSON  = "application/geo+json"
)

// Server serves one app.App.
type Server struct {
	app   *app.App
	echo  *echo.Echo
	title string
}

// New builds the echo instance and its routes.
func New(a *app.App, title string) *Server {
	if title == "" {
		title = DefaultTitle
	}
	s := &Server{app: a, echo: echo.New(), title: title}
	s.echo.HideBanner = true
	s.echo.Validator = &requestValidator{}

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/healthz"
		},
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogURI:      true,
		LogError:    true,
		HandleError: false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("%s %s - %d - %v - error: %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
			} else {
				log.Printf("%s %s - %d - %v", v.Method, v.URI, v.Status, v.Latency)
			}
			return nil
		},
	}))
	s.echo.Use(middleware.Recover())
	s.echo.Pre(middleware.RemoveTrailingSlash())

	s.setRoutes()
	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) setRoutes() {
	s.echo.GET("/", s.pageHandler)
	s.echo.POST("/entries", s.formHandler)
	s.echo.GET("/map.geojson", s.geoJSONHandler)
	s.echo.GET("/healthz", s.healthHandler)

	api := s.echo.Group("/api")
	api.GET("/entries", s.listHandler)
	api.POST("/entries", s.createHandler)
}

// Start listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// pageHandler applies ?sort=&dir=&q= to the shared view, so the page and
// the GeoJSON map stay in step, and renders both.
func (s *Server) pageHandler(c echo.Context) error {
	if key := c.QueryParam("sort"); key != "" {
		if _, err := s.app.SetSort(view.Sort{Key: key, Direction: view.ParseDirection(c.QueryParam("dir"))}); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	if q := c.QueryParam("q"); q != s.app.View.Filter() {
		s.app.SetFilter(q)
	}

	var buf bytes.Buffer
	if err := render.WritePage(&buf, s.app.Page(s.title, c.QueryParam("msg"))); err != nil {
		return err
	}
	noCache(c)
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// formHandler takes the page's form and redirects back with the outcome.
func (s *Server) formHandler(c echo.Context) error {
	var form controller.Form
	if err := c.Bind(&form); err != nil {
		return err
	}
	_, r, err := s.submit(c, form)
	if err != nil {
		return err
	}
	msg := r.Message
	if r.Added && msg == "" {
		msg = "Added " + r.Entry.Description
	}
	return c.Redirect(http.StatusSeeOther, "/?"+url.Values{"msg": {msg}}.Encode())
}

type entryRequest struct {
	Link        string `json:"link" form:"link" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	City        string `json:"city" form:"city"`
	State       string `json:"state" form:"state"`
	Here        bool   `json:"here" form:"here"`
}

type entryResponse struct {
	ID      string       `json:"id"`
	Entry   *entry.Entry `json:"entry,omitempty"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	History []string     `json:"history"`
}

func (s *Server) createHandler(c echo.Context) error {
	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	f, r, err := s.submit(c, controller.Form{
		Link:              req.Link,
		Description:       req.Description,
		City:              req.City,
		State:             req.State,
		UseDeviceLocation: req.Here,
	})
	if err != nil {
		return err
	}

	resp := entryResponse{ID: f.ID.String(), Message: r.Message}
	for _, st := range f.History() {
		resp.History = append(resp.History, st.String())
	}
	if !r.Added {
		resp.Error = r.Err.Error()
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}
	resp.Entry = &r.Entry
	return c.JSON(http.StatusCreated, resp)
}

// listHandler projects the store per request; it does not touch the shared
// view state.
func (s *Server) listHandler(c echo.Context) error {
	sort := view.DefaultSort()
	if key := c.QueryParam("sort"); key != "" {
		if !view.ValidKey(key) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown sort column: "+key)
		}
		sort = view.Sort{Key: key, Direction: view.ParseDirection(c.QueryParam("dir"))}
	}
	entries := view.Project(s.app.Store.All(), sort, c.QueryParam("q"))
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) geoJSONHandler(c echo.Context) error {
	var buf bytes.Buffer
	if err := render.WriteGeoJSON(&buf, s.app.Markers); err != nil {
		return err
	}
	noCache(c)
	return c.Blob(http.StatusOK, mimeGeoJSON, buf.Bytes())
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"entries": s.app.Store.Len(),
	})
}

// submit runs a flow for the lifetime of the request.
func (s *Server) submit(c echo.Context, form controller.Form) (*controller.Flow, controller.Result, error) {
	f := s.app.Submit(c.Request().Context(), form)
	r, err := f.Wait(c.Request().Context())
	if err != nil {
		return f, controller.Result{}, echo.NewHTTPError(http.StatusGatewayTimeout, err.Error())
	}
	return f, r, nil
}

func noCache(c echo.Context) {
	h := c.Response().Header()
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
