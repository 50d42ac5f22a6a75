package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zombiz/blitz/internal/datastore"
	"github.com/zombiz/blitz/internal/errors"
	"github.com/zombiz/blitz/internal/model"
)

// QueryHandler serves POST /api/query: look up the schema by model
// name, run the filter against the store and return the records with
// their container metadata.
func QueryHandler(store datastore.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req datastore.QueryRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest,
				datastore.ErrorResponse{Error: "malformed request body"})
		}

		schema, ok := model.SchemaByName(req.Model)
		if !ok {
			return c.JSON(http.StatusNotFound,
				datastore.ErrorResponse{Error: "unknown model " + req.Model})
		}

		result, err := store.Query(c.Request().Context(), schema, req.Filter)
		if err != nil {
			return errorReply(c, err)
		}

		resp := datastore.QueryResponse{Model: schema.Name, Records: result.Records()}
		meta := result.Meta()
		resp.Metadata.Source = meta.Source
		resp.Metadata.Model = meta.Model
		resp.Metadata.Units = meta.Units
		resp.Metadata.CreatedAt = meta.CreatedAt
		return c.JSON(http.StatusOK, resp)
	}
}

// UpsertHandler serves POST /api/upsert: validate the record against
// its schema and write it through to the store.
func UpsertHandler(store datastore.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req datastore.UpsertRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest,
				datastore.ErrorResponse{Error: "malformed request body"})
		}

		schema, ok := model.SchemaByName(req.Model)
		if !ok {
			return c.JSON(http.StatusNotFound,
				datastore.ErrorResponse{Error: "unknown model " + req.Model})
		}

		if err := store.Upsert(c.Request().Context(), schema, schema.Normalize(req.Record)); err != nil {
			return errorReply(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}
}

// errorReply maps store errors to wire errors: validation and query
// problems are the client's fault, everything else is a 502 because
// the server could not reach its own database.
func errorReply(c echo.Context, err error) error {
	if valErr := errors.AsValidationError(err); valErr != nil {
		return c.JSON(http.StatusBadRequest, datastore.ErrorResponse{
			Error:      valErr.Error(),
			Violations: valErr.Violations,
		})
	}
	if errors.IsQueryError(err) {
		return c.JSON(http.StatusBadRequest, datastore.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusBadGateway, datastore.ErrorResponse{Error: err.Error()})
}
