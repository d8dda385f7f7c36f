// Package response builds the JSON envelope every endpoint returns.
package response

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const internalErrorMessage = "An unexpected error occurred"

// Envelope is the standard API response
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Code    shared.ErrorCode  `json:"code,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Meta    *shared.PageMeta  `json:"meta,omitempty"`
}

// OK sends a 200 response
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 response
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Paginated sends a 200 response with pagination meta
func Paginated(c *gin.Context, message string, data interface{}, meta shared.PageMeta) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data, Meta: &meta})
}

// Fail sends an error envelope with an explicit status
func Fail(c *gin.Context, status int, code shared.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Code: code, Message: message})
}

// StatusFor maps an error code to its HTTP status
func StatusFor(code shared.ErrorCode) int {
	switch code {
	case shared.CodeNotFound:
		return http.StatusNotFound
	case shared.CodeForbidden:
		return http.StatusForbidden
	case shared.CodeUnauthorized:
		return http.StatusUnauthorized
	case shared.CodeValidation,
		shared.CodeInsufficientStock,
		shared.CodeEmptyCart,
		shared.CodeAddressNotOwned,
		shared.CodeAlreadyReviewed,
		shared.CodeInvalidTransition,
		shared.CodeTerminalState,
		shared.CodeNotAvailable,
		shared.CodeAlreadyExists:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// Error converts err into an envelope. Domain errors carry their own message;
// anything else is answered with a generic 500.
func Error(c *gin.Context, err error) {
	if de, ok := shared.AsDomainError(err); ok {
		c.AbortWithStatusJSON(StatusFor(de.Code), Envelope{
			Success: false,
			Code:    de.Code,
			Message: de.Message,
			Errors:  de.Fields,
		})
		return
	}

	// Raw text reaches the access log only
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{Success: false, Message: internalErrorMessage})
}

// BindingError answers a failed ShouldBind* call with a 422 listing each invalid field
func BindingError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Fail(c, http.StatusRequestEntityTooLarge, shared.CodeValidation, "Request body too large")
		return
	}

	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
	} else {
		fields["body"] = "Malformed request body"
	}

	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Envelope{
		Success: false,
		Code:    shared.CodeValidation,
		Message: "The given data was invalid",
		Errors:  fields,
	})
}

// SetupValidator reports binding errors under their json names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "url":
		return "Must be a valid URL"
	case "oneof":
		return "Must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.String {
			return "Must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "May not be longer than " + fe.Param() + " characters"
		}
		if fe.Kind() == reflect.Slice {
			return "May not have more than " + fe.Param() + " items"
		}
		return "May not be greater than " + fe.Param()
	}
	return "Is invalid"
}
