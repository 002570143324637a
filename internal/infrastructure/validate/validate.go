package validate

import infra "github.com/eduflow/eduflow-backend/internal/infrastructure"

// Validator request payload validation surface
type Validator interface {
	Struct(s interface{}) []*infra.FieldError
	Empty(varName string, s interface{}) []*infra.FieldError
}
