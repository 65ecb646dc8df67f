// Copyright (c) 2024 Canonical Ltd
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License version 3 as
// published by the Free Software Foundation.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package langsel chooses the user interface language and the keyboard
// layout, and remembers both in the settings file.
package langsel

import (
	"fmt"
	"strings"

	"github.com/canonical/x-go/strutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/canonical/bootsel/internals/logger"
)

const (
	DefaultLanguage = "gb"
	DefaultLayout   = "gb"
	// FallbackLayout is used when a language has no layout of its own.
	FallbackLayout = "us"
)

// builtin lists the English variants that need no translation.
var builtin = []Language{
	{Code: "gb", Name: "English (UK)"},
	{Code: "us", Name: "English (US)"},
}

// Countries where another layout is more common than the one named after
// the language.
var layoutOverrides = map[string]string{
	"nl": "us",
	"ja": "jp",
	"sv": "se",
}

// DefaultKeyboardLayout returns the layout that goes with a language.
func DefaultKeyboardLayout(code string) string {
	if layout, ok := layoutOverrides[code]; ok {
		return layout
	}
	return code
}

// Language is a selectable user interface language.
type Language struct {
	Code string
	Name string
}

// Store persists the choices.
type Store interface {
	Language(def string) string
	SetLanguage(code string) error
	KeyboardLayout(def string) string
	SetKeyboardLayout(layout string) error
}

// Translator loads message catalogs.
type Translator interface {
	Codes() []string
	Load(code string) (bool, error)
	Unload()
	Localize(msg *i18n.Message, data map[string]any) string
}

// Keyboard applies keyboard layouts.
type Keyboard interface {
	Layouts() []string
	Apply(layout string) error
}

type Options struct {
	Settings   Store
	Translator Translator
	Keyboard   Keyboard
	// DefaultLanguage and DefaultLayout are used when nothing is saved.
	DefaultLanguage string
	DefaultLayout   string
}

// Selector holds the current language and keyboard layout.
type Selector struct {
	settings   Store
	translator Translator
	keyboard   Keyboard
	language   string
	layout     string
}

// Open returns a selector for the saved language and keyboard layout
// without applying or saving either.
func Open(opts *Options) *Selector {
	defLang := opts.DefaultLanguage
	if defLang == "" {
		defLang = DefaultLanguage
	}
	defLayout := opts.DefaultLayout
	if defLayout == "" {
		defLayout = DefaultLayout
	}
	logger.Debugf("Default language is %s", defLang)
	logger.Debugf("Default keyboard layout is %s", defLayout)
	return &Selector{
		settings:   opts.Settings,
		translator: opts.Translator,
		keyboard:   opts.Keyboard,
		language:   opts.Settings.Language(defLang),
		layout:     opts.Settings.KeyboardLayout(defLayout),
	}
}

// New restores the saved language and then the saved keyboard layout,
// which wins over the one implied by the language. Settings are only
// written for values that were not saved yet.
func New(opts *Options) (*Selector, error) {
	s := Open(opts)
	s.loadTranslations(s.language)
	s.applyKeyboardLayout(s.layout)

	if s.settings.Language("") != s.language {
		if err := s.settings.SetLanguage(s.language); err != nil {
			return nil, fmt.Errorf("cannot save language: %w", err)
		}
	}
	if s.settings.KeyboardLayout("") != s.layout {
		if err := s.settings.SetKeyboardLayout(s.layout); err != nil {
			return nil, fmt.Errorf("cannot save keyboard layout: %w", err)
		}
	}
	return s, nil
}

// Language returns the current language code.
func (s *Selector) Language() string { return s.language }

// KeyboardLayout returns the current keyboard layout.
func (s *Selector) KeyboardLayout() string { return s.layout }

// ChangeLanguage switches the translations to code, switches the keyboard
// to the layout that goes with it and saves the language.
func (s *Selector) ChangeLanguage(code string) error {
	s.loadTranslations(code)

	layout := DefaultKeyboardLayout(code)
	if !strutil.ListContains(s.keyboard.Layouts(), layout) {
		layout = FallbackLayout
	}
	if err := s.ChangeKeyboardLayout(layout); err != nil {
		return err
	}

	s.language = code
	if err := s.settings.SetLanguage(code); err != nil {
		return fmt.Errorf("cannot save language: %w", err)
	}
	return nil
}

// ChangeKeyboardLayout applies layout and saves it. Failing to apply the
// keymap is logged only.
func (s *Selector) ChangeKeyboardLayout(layout string) error {
	s.applyKeyboardLayout(layout)
	if err := s.settings.SetKeyboardLayout(layout); err != nil {
		return fmt.Errorf("cannot save keyboard layout: %w", err)
	}
	return nil
}

func (s *Selector) loadTranslations(code string) {
	s.translator.Unload()
	if isBuiltin(code) {
		return
	}
	found, err := s.translator.Load(code)
	switch {
	case err != nil:
		logger.Noticef("Cannot use translation: %v", err)
	case !found:
		logger.Debugf("No translation for language %q", code)
	}
}

func (s *Selector) applyKeyboardLayout(layout string) {
	if err := s.keyboard.Apply(layout); err != nil {
		logger.Noticef("Cannot change keyboard layout: %v", err)
	}
	s.layout = layout
}

// Languages lists the built-in English variants followed by every
// language with a translation, named in that language.
func (s *Selector) Languages() []Language {
	langs := append([]Language(nil), builtin...)
	for _, code := range s.translator.Codes() {
		if isBuiltin(code) {
			continue
		}
		langs = append(langs, Language{Code: code, Name: NativeName(code)})
	}
	return langs
}

// KeyboardLayouts lists the layouts offered by the keyboard.
func (s *Selector) KeyboardLayouts() []string {
	return s.keyboard.Layouts()
}

// Localize renders msg in the current language.
func (s *Selector) Localize(msg *i18n.Message, data map[string]any) string {
	return s.translator.Localize(msg, data)
}

func isBuiltin(code string) bool {
	for _, l := range builtin {
		if strings.EqualFold(l.Code, code) {
			return true
		}
	}
	return false
}
