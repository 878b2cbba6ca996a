package handler

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yourusername/leadership-api/internal/domain/entity"
)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// RegisterValidators регистрирует правила task_type и role в валидаторе gin
// и включает имена полей из json-тегов в ошибках валидации.
func RegisterValidators() error {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = errors.New("unexpected validator engine")
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		if err := v.RegisterValidation("task_type", func(fl validator.FieldLevel) bool {
			return entity.ValidTaskType(fl.Field().String())
		}); err != nil {
			validatorsErr = err
			return
		}
		validatorsErr = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return entity.ValidRole(fl.Field().String())
		})
	})
	return validatorsErr
}
