package util

import (
	"github.com/go-playground/validator/v10"
)

// ValidatePermission 验证分享权限取值是否合法
func ValidatePermission(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "edit", "comment", "view":
		return true
	}
	return false
}
