package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"lotconv/internal"
	"lotconv/internal/applog"
	"lotconv/internal/config"
	"lotconv/internal/mapping"
	"lotconv/internal/pipeline"
	"lotconv/internal/storage"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	cfg     config.Config
	cache   *mapping.Cache
	convSvc *pipeline.ConversionService
	db      *storage.DB
	results *ResultStore
}

type convertResponse struct {
	Token         string `json:"token"`
	Matched       int    `json:"matched"`
	Converted     int    `json:"converted"`
	Filtered      int    `json:"filtered"`
	DealFallbacks int    `json:"deal_fallbacks,omitempty"`
	MappingStale  bool   `json:"mapping_stale,omitempty"`
}

type mappingEntryResponse struct {
	ProductNo   string `json:"product_no"`
	ProductName string `json:"product_name"`
}

type addMappingRequest struct {
	ProductNo   string `json:"product_no" validate:"required,min=3"`
	ProductName string `json:"product_name"`
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Convert accepts the uploaded Ecount export, splits it against the current
// mapping and stashes both output workbooks behind a download token.
func (h *Handler) Convert(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "업로드 파일이 없습니다.")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "업로드 파일을 열 수 없습니다.")
	}
	defer src.Close()

	blob, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "업로드 파일을 읽을 수 없습니다.")
	}

	keys, keysErr := h.cache.Keys(c.Request().Context())
	if keysErr != nil {
		// Non-fatal: conversion proceeds and every row becomes an Eplex row.
		h.log(c).WithError(keysErr).Warn("매핑 시트 로드 실패, 빈 매핑으로 계속 진행")
	}

	result, err := h.convSvc.Convert(blob, keys, "web", fileHeader.Filename)
	if err != nil {
		return convertError(err)
	}

	token := h.results.Put(StoredResult{
		Passthrough: result.Passthrough,
		Fulfillment: result.Fulfillment,
		Matched:     len(result.Matched),
		Converted:   len(result.Converted),
	})

	return c.JSON(http.StatusOK, convertResponse{
		Token:         token,
		Matched:       len(result.Matched),
		Converted:     len(result.Converted),
		Filtered:      result.Filtered,
		DealFallbacks: result.Deal.Fallbacks,
		MappingStale:  keysErr != nil,
	})
}

func (h *Handler) DownloadPassthrough(c echo.Context) error {
	result, ok := h.results.Get(c.Param("token"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "변환 결과가 만료되었거나 존재하지 않습니다.")
	}
	return sendWorkbook(c, pipeline.PassthroughFilename, result.Passthrough)
}

func (h *Handler) DownloadFulfillment(c echo.Context) error {
	result, ok := h.results.Get(c.Param("token"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "변환 결과가 만료되었거나 존재하지 않습니다.")
	}
	return sendWorkbook(c, pipeline.FulfillmentFilename, result.Fulfillment)
}

func (h *Handler) ListMappings(c echo.Context) error {
	entries, err := h.cache.Entries(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "매핑 시트를 불러오지 못했습니다.")
	}

	out := make([]mappingEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, mappingEntryResponse{ProductNo: e.ProductNo, ProductName: e.ProductName})
	}
	return c.JSON(http.StatusOK, out)
}

// AddMapping appends one entry to the remote sheet. The entry is rejected if
// the cached mapping already holds the key; the cache stays untouched when
// the remote append fails.
func (h *Handler) AddMapping(c echo.Context) error {
	req := new(addMappingRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "잘못된 요청 형식입니다.")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "상품번호는 3자리 이상 필수입니다.")
	}

	productNo := strings.TrimSpace(req.ProductNo)
	entries, err := h.cache.Entries(c.Request().Context())
	if err != nil {
		h.log(c).WithError(err).Warn("매핑 시트 로드 실패, 중복 검사 없이 추가 진행")
	}
	for _, e := range entries {
		if e.ProductNo == productNo {
			return echo.NewHTTPError(http.StatusConflict, "이미 존재하는 상품번호입니다.")
		}
	}

	entry := internal.MappingEntry{ProductNo: productNo, ProductName: strings.TrimSpace(req.ProductName)}
	if err := h.cache.Append(c.Request().Context(), entry); err != nil {
		h.log(c).WithError(err).Error("매핑 추가 실패")
		return echo.NewHTTPError(http.StatusBadGateway, "매핑 추가 중 오류가 발생했습니다.")
	}

	if h.db != nil {
		if err := h.db.InsertMappingAudit(entry.ProductNo, entry.ProductName, "web"); err != nil {
			h.log(c).WithError(err).Warn("매핑 추가 이력 기록 실패")
		}
	}

	return c.JSON(http.StatusCreated, mappingEntryResponse{ProductNo: entry.ProductNo, ProductName: entry.ProductName})
}

func convertError(err error) error {
	var missing *pipeline.MissingColumnsError
	if errors.As(err, &missing) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("필수 컬럼이 없습니다: %s", strings.Join(missing.Columns, ", ")))
	}
	if errors.Is(err, pipeline.ErrEmptyFile) {
		return echo.NewHTTPError(http.StatusBadRequest, "업로드된 파일이 비어있습니다.")
	}
	return echo.NewHTTPError(http.StatusBadRequest, "파일 읽기 중 오류가 발생했습니다.")
}

func sendWorkbook(c echo.Context, filename string, blob []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	return c.Blob(http.StatusOK, xlsxMIME, blob)
}

func (h *Handler) log(c echo.Context) *log.Entry {
	return applog.WithComponentAndFields("web.handler", log.Fields{
		"endpoint": c.Path(),
	})
}
