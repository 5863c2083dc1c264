package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"lotconv/internal/config"
	"lotconv/internal/mapping"
	"lotconv/internal/pipeline"
	"lotconv/internal/storage"
)

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// NewServer wires the upload/convert/download surface onto an Echo instance.
func NewServer(cfg config.Config, cache *mapping.Cache, db *storage.DB) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.MaxUploadSize))

	h := &Handler{
		cfg:     cfg,
		cache:   cache,
		convSvc: pipeline.NewConversionService(db),
		db:      db,
		results: NewResultStore(time.Duration(cfg.ResultTTLSec) * time.Second),
	}

	e.GET("/health", h.Health)

	grp := e.Group("/api/v1")
	{
		grp.POST("/convert", h.Convert)
		grp.GET("/convert/:token/daitsso", h.DownloadPassthrough)
		grp.GET("/convert/:token/eplex", h.DownloadFulfillment)
		grp.GET("/mappings", h.ListMappings)
		grp.POST("/mappings", h.AddMapping)
	}

	echo.NotFoundHandler = func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "페이지를 찾을 수 없습니다.")
	}

	return e
}
