package documents

import (
	"errors"
	"net/http"
	"strconv"

	"ingestd/internal/api"
	"ingestd/internal/database"
	"ingestd/internal/model"
	"ingestd/internal/service"
	"ingestd/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

var (
	listDocuments   = store.ListDocuments
	countDocuments  = store.CountDocuments
	getDocumentByID = store.GetDocumentByID
)

// @Summary     List ingested documents
// @Description Returns documents newest first. limit and offset are clamped to sane bounds.
// @Tags        documents
// @Produce     json
// @Param       limit  query int false "Page size"
// @Param       offset query int false "Page offset"
// @Success     200 {object} api.DocumentListResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /documents [get]
func ListDocumentsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, err := queryInt(c, "limit")
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid limit"})
		}
		offset, err := queryInt(c, "offset")
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid offset"})
		}
		limit, offset = service.NormalizePage(limit, offset)

		docs, err := listDocuments(c.Request().Context(), db, limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		total, err := countDocuments(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		resp := api.DocumentListResponse{
			Documents: make([]api.DocumentResponse, 0, len(docs)),
			Total:     total,
			Limit:     limit,
			Offset:    offset,
		}
		for _, d := range docs {
			resp.Documents = append(resp.Documents, documentResponse(&d))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Get a document by ID
// @Tags        documents
// @Produce     json
// @Param       doc_id path int true "Document ID"
// @Success     200 {object} api.DocumentResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /documents/{doc_id} [get]
func GetDocumentHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("doc_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid document ID"})
		}
		doc, err := getDocumentByID(c.Request().Context(), db, id)
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "document not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, documentResponse(doc))
	}
}

// queryInt parses an optional integer query parameter, 0 when absent.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func documentResponse(d *model.Document) api.DocumentResponse {
	return api.DocumentResponse{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Source:    d.Source,
		Fields:    d.Fields,
		CreatedAt: d.CreatedAt,
	}
}
