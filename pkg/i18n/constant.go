package i18n

var ALLOW_LANG = map[string]bool{
	"en": true,
	"es": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL          = "error.internal"
	ERROR_NOT_FOUND         = "error.notfound"
	ERROR_INVALIDARGUMENT   = "error.invalidargument"
	ERROR_UNAUTHORIZED      = "error.unauthorized"
	ERROR_PERMISSION_DENIED = "error.permission.denied"
	ERROR_FORBIDDEN         = "error.forbidden"
	ERROR_TOO_MANY_REQUESTS = "error.tooManyRequests"
	ERROR_EXIST             = "error.exist"

	ERROR_INVALID_TOKEN   = "error.invalid.token"
	ERROR_INVALID_ACCOUNT = "error.invalid.account"

	ERROR_USAGE_LIMIT_EXCEEDED = "error.usage.limit.exceeded"
	ERROR_TRIAL_EXPIRED        = "error.trial.expired"
	ERROR_EMPTY_QUESTION       = "error.chat.empty.question"
	ERROR_SESSION_BUSY         = "error.chat.session.busy"
	ERROR_KNOWLEDGE_NOT_FOUND  = "error.knowledge.notfound"
)
