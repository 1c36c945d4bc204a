package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	AppKey       ContextKey = "app"
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	LoggerKey    ContextKey = "logger"
	ParamsKey    ContextKey = "params"
	TenantIDKey  ContextKey = "tenantID"
	UserKey      ContextKey = "user"
	RequestStart ContextKey = "requestStart"
)

// Validate is the shared validator instance. DTOs register no custom rules, so a
// single instance with struct-tag validation is enough.
var Validate = validator.New(validator.WithRequiredStructEnabled())
