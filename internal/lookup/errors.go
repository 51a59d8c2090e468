package lookup

import (
	"strings"

	"github.com/sells-group/role-scout/internal/model"
)

// ClassifyFailure maps a collaborator failure to an error kind and the
// message reported to callers.
func ClassifyFailure(err error) (model.ErrorKind, string) {
	if err == nil {
		return model.ErrorKindNone, ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "ratelimit") || strings.Contains(msg, "429"):
		return model.ErrorKindRateLimit, model.MsgRateLimit
	case strings.Contains(msg, "api_key"):
		return model.ErrorKindAuth, model.MsgAuth
	}
	return model.ErrorKindExecution, model.MsgExecution
}
