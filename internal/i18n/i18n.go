package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

// catalogs lists the embedded message files by locale
var catalogs = map[string]string{
	"en": "active.en.toml",
	"zh": "active.zh.toml",
}

var bundle *i18n.Bundle

func init() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, locale := range SupportedLocales() {
		name := catalogs[locale]
		data, err := localeFS.ReadFile(name)
		if err != nil {
			panic(fmt.Sprintf("missing embedded catalog %s: %v", name, err))
		}
		if _, err := bundle.ParseMessageFileBytes(data, name); err != nil {
			panic(fmt.Sprintf("failed to load %s: %v", name, err))
		}
	}
}

// SupportedLocales returns the locales with an embedded catalog
func SupportedLocales() []string {
	locales := make([]string, 0, len(catalogs))
	for locale := range catalogs {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// Normalize maps user input such as "zh_CN" or "en-US" to a supported locale.
// Unknown locales fall back to English.
func Normalize(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(locale, "zh"):
		return "zh"
	default:
		return "en"
	}
}

// Localizer wraps go-i18n localizer with convenience methods
type Localizer struct {
	locale    string
	localizer *i18n.Localizer
}

// NewLocalizer creates a new localizer for the given locale
func NewLocalizer(locale string) *Localizer {
	locale = Normalize(locale)
	return &Localizer{
		locale:    locale,
		localizer: i18n.NewLocalizer(bundle, locale),
	}
}

// Locale returns the normalized locale
func (l *Localizer) Locale() string {
	return l.locale
}

// T translates a message ID to the localized string
func (l *Localizer) T(messageID string) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID: messageID,
	})
	if err != nil {
		// Return message ID if translation not found
		return messageID
	}
	return msg
}

// TP translates a message with plural support
func (l *Localizer) TP(messageID string, count int) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		PluralCount:  count,
		TemplateData: map[string]interface{}{"Count": count},
	})
	if err != nil {
		return messageID
	}
	return msg
}

// TF translates a message with template data
func (l *Localizer) TF(messageID string, templateData map[string]interface{}) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	})
	if err != nil {
		return fmt.Sprintf("%s %v", messageID, templateData)
	}
	return msg
}

// TWithDefault translates a message with a default fallback
func (l *Localizer) TWithDefault(messageID, defaultMsg string) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    messageID,
			Other: defaultMsg,
		},
	})
	if err != nil {
		return defaultMsg
	}
	return msg
}
