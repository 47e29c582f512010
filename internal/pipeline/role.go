package pipeline

import (
	"strings"

	"github.com/alnah/go-chatlog/internal/chapter"
)

// Role classes used as CSS class names on messages.
const (
	RoleClassUser      = "user"
	RoleClassAssistant = "assistant"
	RoleClassOther     = "other"
)

// DefaultAssistantTokens identify assistant roles.
var DefaultAssistantTokens = []string{"AI", "Assistant", "assistant", "助理", "助手", "Bot", "bot"}

// RoleClassifier maps a role to a role class by substring match. User tokens
// are checked before assistant tokens.
type RoleClassifier struct {
	UserTokens      []string
	AssistantTokens []string
}

// DefaultRoleClassifier returns a classifier with the default token lists.
func DefaultRoleClassifier() RoleClassifier {
	return RoleClassifier{
		UserTokens:      chapter.DefaultUserTokens,
		AssistantTokens: DefaultAssistantTokens,
	}
}

// Classify returns RoleClassUser, RoleClassAssistant or RoleClassOther.
func (c RoleClassifier) Classify(role string) string {
	if containsAny(role, c.UserTokens) {
		return RoleClassUser
	}
	if containsAny(role, c.AssistantTokens) {
		return RoleClassAssistant
	}
	return RoleClassOther
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}
