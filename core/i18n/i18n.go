package i18n

import (
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ms"
	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
)

// Supported UI languages, keyed by locale code.
const (
	LangEnglish = "en"
	LangMalay   = "ms"

	fallbackLang = LangEnglish
)

// Translators holds the EN/MS UI string catalogs. Lookups for a missing key
// return the key itself so untranslated screens stay debuggable.
type Translators struct {
	uni *ut.UniversalTranslator
}

func New() (*Translators, error) {
	_en := en.New()
	uni := ut.New(_en, _en, ms.New())

	for lang, catalog := range catalogs {
		trans, ok := uni.GetTranslator(lang)
		if !ok {
			return nil, errors.Errorf("no translator for locale %q", lang)
		}
		for key, text := range catalog {
			if err := trans.Add(key, text, true /* override */); err != nil {
				return nil, errors.Wrapf(err, "adding %s translation %q", lang, key)
			}
		}
	}
	return &Translators{uni: uni}, nil
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}

// Resolve maps an arbitrary language tag to a supported catalog language.
func Resolve(lang string) string {
	if Supported(lang) {
		return lang
	}
	return fallbackLang
}

// Get returns the translator for lang, falling back to English.
func (t *Translators) Get(lang string) ut.Translator {
	trans, found := t.uni.GetTranslator(Resolve(lang))
	if !found {
		return t.uni.GetFallback()
	}
	return trans
}

// Default returns the English translator; the validator registers its
// messages against it.
func (t *Translators) Default() ut.Translator {
	return t.uni.GetFallback()
}

// T translates key for lang, returning the key itself when no translation
// exists.
func (t *Translators) T(lang, key string) string {
	s, err := t.Get(lang).T(key)
	if err != nil {
		return key
	}
	return s
}

// Catalog returns a copy of the full catalog for lang.
func (t *Translators) Catalog(lang string) map[string]string {
	catalog := catalogs[Resolve(lang)]
	out := make(map[string]string, len(catalog))
	for k, v := range catalog {
		out[k] = v
	}
	return out
}
