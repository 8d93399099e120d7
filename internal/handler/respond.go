package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/creator_match_api/internal/models"
	"github.com/GTDGit/creator_match_api/internal/utils"
)

func init() {
	// Report request field names as the client sent them.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	}
}

// invalidRequest writes a 400 INVALID_REQUEST listing what was wrong with the input.
func invalidRequest(c *gin.Context, err error) {
	utils.ErrorWithDetails(c, http.StatusBadRequest, utils.CodeInvalidRequest, "Request validation failed", validationDetails(err))
}

// validationDetails turns a binding error into per-field messages.
func validationDetails(err error) []utils.FieldDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]utils.FieldDetail, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, utils.FieldDetail{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []utils.FieldDetail{{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()}}
	}

	var syntaxErr *json.SyntaxError
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.As(err, &syntaxErr) {
		return []utils.FieldDetail{{Field: "body", Message: "must be a valid JSON object"}}
	}

	return []utils.FieldDetail{{Field: "request", Message: err.Error()}}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// respondError maps service errors onto the API error envelope. Anything
// unrecognised is logged, reported and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrCreatorNotFound):
		utils.Error(c, http.StatusNotFound, utils.CodeNotFound, "Creator not found")
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, http.StatusNotFound, utils.CodeNotFound, "Product not found")
	case errors.Is(err, utils.ErrNotFound):
		utils.Error(c, http.StatusNotFound, utils.CodeNotFound, "Resource not found")
	case errors.Is(err, utils.ErrInsufficientData):
		utils.Error(c, http.StatusBadRequest, utils.CodeInsufficientData,
			fmt.Sprintf("At least %d sales are required for analysis", models.MinSalesForAnalysis))
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.Error(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Invalid username or password")
	case errors.Is(err, utils.ErrAuthDisabled):
		utils.Error(c, http.StatusNotFound, utils.CodeNotFound, "Login is not enabled")
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.FullPath()).
			Msg("Request failed")
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		utils.Error(c, http.StatusInternalServerError, utils.CodeInternal, "An internal error occurred")
	}
}
