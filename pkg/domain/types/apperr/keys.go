package apperr

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kagemusha/pkg/domain/types"
)

// Domain entity related keys
var (
	VersionKey     = goerr.NewTypedKey[string]("version")
	FromVersionKey = goerr.NewTypedKey[string]("from_version")
	ToVersionKey   = goerr.NewTypedKey[string]("to_version")
	UserIDKey      = goerr.NewTypedKey[types.UserID]("user_id")
	TenantIDKey    = goerr.NewTypedKey[types.TenantID]("tenant_id")
	StrategyKey    = goerr.NewTypedKey[string]("strategy")
)

// LLM related keys
var (
	LLMProviderKey = goerr.NewTypedKey[string]("llm_provider")
	LLMModelKey    = goerr.NewTypedKey[string]("llm_model")
)
