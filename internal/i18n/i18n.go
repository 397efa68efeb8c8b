// Package i18n translates the user-facing messages of the shipment packaging API.
package i18n

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	// DefaultLocale is used when the client states no supported language.
	DefaultLocale = "en"
	// AcceptLanguageHeader carries the client language preference.
	AcceptLanguageHeader = "Accept-Language"
)

// supported lists the translated locales. The first entry is the fallback.
var supported = []language.Tag{language.English, language.Portuguese, language.Dutch}

var matcher = language.NewMatcher(supported)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator looks up messages by key and locale.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a translator over the built-in catalog.
func NewTranslator() *Translator {
	return &Translator{messages: catalog()}
}

// GetTranslator returns the shared translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale. Unknown locales use
// DefaultLocale and unknown keys are returned unchanged.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// GetLocale picks the best supported locale from Accept-Language, honoring
// quality values.
func GetLocale(c *gin.Context) string {
	header := c.GetHeader(AcceptLanguageHeader)
	if header == "" {
		return DefaultLocale
	}
	return matchLocale(header)
}

func matchLocale(header string) string {
	prefs, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(prefs) == 0 {
		return DefaultLocale
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return DefaultLocale
	}
	base, _ := supported[idx].Base()
	return base.String()
}

func catalog() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			ErrKeyInvalidRequest:     "Invalid request",
			ErrKeyInvalidRequestBody: "Invalid request body",
			ErrKeyInternalError:      "An unexpected error occurred",
			ErrKeyUnauthorized:       "Unauthorized",
			ErrKeyAPIKeyRequired:     "API key is required",
			ErrKeyInvalidAPIKey:      "Invalid API key",
			ErrKeyUserRequired:       "Acting user is required",
			ErrKeyNotFound:           "Not found",
			ErrKeySessionNotFound:    "Shipment builder session not found or expired",
			ErrKeyRateLimitExceeded:  "Too many requests, please try again later",
			ErrKeyConflict:           "The shipment data is inconsistent",
			ErrKeyInvalidToken:       "Invalid or expired token",
			ErrKeyTokenRequired:      "Authentication token is required",
			ErrKeyTimeout:            "Request timeout",
			ErrKeyServiceUnavailable: "Service temporarily unavailable",

			SuccessKeyShipmentDeleted:  "Shipment deleted",
			SuccessKeySessionDiscarded: "Shipment builder session discarded",
		},
		"pt": {
			ErrKeyInvalidRequest:     "Requisição inválida",
			ErrKeyInvalidRequestBody: "Corpo da requisição inválido",
			ErrKeyInternalError:      "Ocorreu um erro inesperado",
			ErrKeyUnauthorized:       "Não autorizado",
			ErrKeyAPIKeyRequired:     "Chave de API é obrigatória",
			ErrKeyInvalidAPIKey:      "Chave de API inválida",
			ErrKeyUserRequired:       "Usuário responsável é obrigatório",
			ErrKeyNotFound:           "Não encontrado",
			ErrKeySessionNotFound:    "Sessão de montagem do envio não encontrada ou expirada",
			ErrKeyRateLimitExceeded:  "Muitas requisições, tente novamente mais tarde",
			ErrKeyConflict:           "Os dados do envio são inconsistentes",
			ErrKeyInvalidToken:       "Token inválido ou expirado",
			ErrKeyTokenRequired:      "Token de autenticação é obrigatório",
			ErrKeyTimeout:            "Tempo limite da requisição esgotado",
			ErrKeyServiceUnavailable: "Serviço temporariamente indisponível",

			SuccessKeyShipmentDeleted:  "Envio removido",
			SuccessKeySessionDiscarded: "Sessão de montagem do envio descartada",
		},
		"nl": {
			ErrKeyInvalidRequest:     "Ongeldig verzoek",
			ErrKeyInvalidRequestBody: "Ongeldige aanvraag body",
			ErrKeyInternalError:      "Er is een onverwachte fout opgetreden",
			ErrKeyUnauthorized:       "Niet geautoriseerd",
			ErrKeyAPIKeyRequired:     "API-sleutel is vereist",
			ErrKeyInvalidAPIKey:      "Ongeldige API-sleutel",
			ErrKeyUserRequired:       "Handelende gebruiker is vereist",
			ErrKeyNotFound:           "Niet gevonden",
			ErrKeySessionNotFound:    "Zendingsessie niet gevonden of verlopen",
			ErrKeyRateLimitExceeded:  "Te veel verzoeken, probeer het later opnieuw",
			ErrKeyConflict:           "De zendinggegevens zijn inconsistent",
			ErrKeyInvalidToken:       "Ongeldig of verlopen token",
			ErrKeyTokenRequired:      "Authenticatietoken is vereist",
			ErrKeyTimeout:            "Time-out van het verzoek",
			ErrKeyServiceUnavailable: "Dienst tijdelijk niet beschikbaar",

			SuccessKeyShipmentDeleted:  "Zending verwijderd",
			SuccessKeySessionDiscarded: "Zendingsessie verworpen",
		},
	}
}
