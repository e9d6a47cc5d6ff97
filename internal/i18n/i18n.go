// Package i18n serves the localized labels of the CLI and the result export.
package i18n

import (
	"embed"
	"io/fs"
	"path"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

//go:embed messages/*.toml
var messageFS embed.FS

const messageDir = "messages"

// Service localizes message ids for one language.
type Service struct {
	bundle    *goi18n.Bundle
	localizer *goi18n.Localizer
	tag       language.Tag
}

// New loads the embedded message files and selects the best match for locale.
// An empty or unsupported locale falls back to English.
func New(locale string) (*Service, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(messageFS, path.Join(messageDir, "*.toml"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list message files")
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(messageFS, file); err != nil {
			return nil, errors.Wrapf(err, "failed to load message file %s", file)
		}
	}

	matcher := language.NewMatcher(bundle.LanguageTags())

	tag := language.English
	if locale != "" {
		desired, _, err := language.ParseAcceptLanguage(locale)
		if err != nil {
			log.Warn().Err(err).Str("locale", locale).Msg("I18n: invalid locale, falling back to English")
		} else {
			matched, _, _ := matcher.Match(desired...)
			base, _ := matched.Base()
			tag = language.Make(base.String())
		}
	}

	return &Service{
		bundle:    bundle,
		localizer: goi18n.NewLocalizer(bundle, tag.String()),
		tag:       tag,
	}, nil
}

// Tag returns the selected language.
func (s *Service) Tag() language.Tag {
	return s.tag
}

// Translate returns the message for id, or id itself if it is unknown.
func (s *Service) Translate(id string) string {
	return s.TranslateWith(id, nil)
}

// TranslateWith renders the message for id with template data.
func (s *Service) TranslateWith(id string, data map[string]any) string {
	msg, err := s.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		log.Debug().Err(err).Str("message_id", id).Msg("I18n: missing translation")
		return id
	}

	return msg
}
