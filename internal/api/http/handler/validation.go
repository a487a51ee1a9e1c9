package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/dtroode/userkeeper-server/internal/model"
)

// Validation error kinds.
const (
	kindMissing      = "missing"
	kindStringType   = "string_type"
	kindJSONInvalid  = "json_invalid"
	kindObjectType   = "model_attributes_type"
	kindIntParsing   = "int_parsing"
	userIDPathParam  = "user_id"
	msgFieldRequired = "Field required"
)

// FieldError describes one rejected input value.
type FieldError struct {
	Type string `json:"type"`
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
}

// ValidationErrors is the body returned with 422 Unprocessable Entity.
type ValidationErrors struct {
	Detail []FieldError `json:"detail"`
}

func abortValidation(c *gin.Context, errs ...FieldError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ValidationErrors{Detail: errs})
}

// parseUserID reads the integer user id from the request path.
func parseUserID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param(userIDPathParam))
	if err != nil {
		abortValidation(c, FieldError{
			Type: kindIntParsing,
			Loc:  []any{"path", userIDPathParam},
			Msg:  "Input should be a valid integer, unable to parse string as an integer",
		})
		return 0, false
	}
	return id, true
}

// bindUserParams reads a {"name": string, "email": string} body.
func bindUserParams(c *gin.Context) (model.UserParams, bool) {
	body, err := c.GetRawData()
	if err != nil {
		abortValidation(c, FieldError{Type: kindJSONInvalid, Loc: []any{"body"}, Msg: "Unable to read request body"})
		return model.UserParams{}, false
	}

	params, errs := decodeUserParams(body)
	if len(errs) > 0 {
		abortValidation(c, errs...)
		return model.UserParams{}, false
	}
	return params, true
}

func decodeUserParams(body []byte) (model.UserParams, []FieldError) {
	if len(bytes.TrimSpace(body)) == 0 {
		return model.UserParams{}, []FieldError{{Type: kindMissing, Loc: []any{"body"}, Msg: msgFieldRequired}}
	}

	if !json.Valid(body) {
		return model.UserParams{}, []FieldError{{Type: kindJSONInvalid, Loc: []any{"body"}, Msg: "JSON decode error"}}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return model.UserParams{}, []FieldError{{
			Type: kindObjectType,
			Loc:  []any{"body"},
			Msg:  "Input should be a valid dictionary or object to extract fields from",
		}}
	}

	var (
		params model.UserParams
		errs   []FieldError
	)
	if fe := stringField(fields, "name", &params.Name); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := stringField(fields, "email", &params.Email); fe != nil {
		errs = append(errs, *fe)
	}

	return params, errs
}

func stringField(fields map[string]json.RawMessage, name string, dst *string) *FieldError {
	raw, ok := fields[name]
	if !ok {
		return &FieldError{Type: kindMissing, Loc: []any{"body", name}, Msg: msgFieldRequired}
	}
	// null decodes into a string without error, so it is rejected up front.
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) || json.Unmarshal(raw, dst) != nil {
		return &FieldError{Type: kindStringType, Loc: []any{"body", name}, Msg: "Input should be a valid string"}
	}
	return nil
}
