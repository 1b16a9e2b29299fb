// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartadega/smartadega-api/internal/i18n"
)

// I18nMiddleware picks the first supported language from Accept-Language,
// e.g. "pt-BR,pt;q=0.9,en;q=0.8".
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	if defaultLang == "" {
		defaultLang = i18n.DefaultLang
	}
	return func(c *gin.Context) {
		lang := defaultLang
		for _, tag := range strings.Split(c.GetHeader("Accept-Language"), ",") {
			if supported := i18n.Normalize(tag); supported != "" {
				lang = supported
				break
			}
		}

		// Set language in context
		c.Set("lang", lang)
		c.Next()
	}
}
