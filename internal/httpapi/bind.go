package httpapi

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrEmptyBody is returned by bindStrict when the request body is empty.
var ErrEmptyBody = errors.New("httpapi: empty request body")

// bindStrict decodes the request body into obj, rejecting any field not
// present in obj's JSON tags, then validates obj's struct tags. gin's
// default ShouldBindJSON does not reject unknown fields, so the decoder is
// built by hand with DisallowUnknownFields.
func bindStrict(c *gin.Context, obj interface{}) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}

	return validate.Struct(obj)
}
