package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/pkg/validation"
)

var bindingValidator *validation.Validator

// RegisterValidators installs the custom binding tags on gin's validator.
// Call it once before serving requests.
func RegisterValidators(emailSuffix string) error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	v, err := validation.Register(engine, emailSuffix)
	if err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}
	bindingValidator = v
	return nil
}

// HandleBindError answers a failed ShouldBind* with 400 and a readable message
func HandleBindError(c *gin.Context, err error) {
	message := "Invalid request body"
	if bindingValidator != nil {
		message = bindingValidator.Message(err)
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: message})
}
