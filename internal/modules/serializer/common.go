package serializer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talkative-se/powerbag-backend/internal/modules/service"
)

// Response is the common JSON envelope.
type Response struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Msg   string      `json:"msg"`
	Error string      `json:"error,omitempty"`
}

func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Err(http.StatusUnauthorized, msg, nil)
}

// FromError maps service sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500.
func FromError(err error) (int, Response) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, Err(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, Err(http.StatusConflict, err.Error(), err)
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, Err(http.StatusForbidden, err.Error(), err)
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, Err(http.StatusBadRequest, err.Error(), err)
	default:
		return http.StatusInternalServerError, Err(http.StatusInternalServerError, "internal error", err)
	}
}
