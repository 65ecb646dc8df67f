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

package langsel

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/canonical/bootsel/internals/logger"
	"github.com/canonical/bootsel/internals/osutil"
)

// DefaultTranslationsDir holds the message files shipped with bootsel.
const DefaultTranslationsDir = "/usr/share/bootsel/translations"

var messageFileExts = []string{".toml", ".json"}

// Translations is a go-i18n bundle holding at most one loaded language on
// top of the built-in English messages.
type Translations struct {
	dir       string
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
}

// NewTranslations looks for message files named <code>.toml or
// <code>.json in dir.
func NewTranslations(dir string) *Translations {
	t := &Translations{dir: dir}
	t.Unload()
	return t
}

func newBundle() *i18n.Bundle {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	return bundle
}

// Codes returns the language codes with a message file, sorted.
func (t *Translations) Codes() []string {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Noticef("Cannot list translations: %v", err)
		}
		return nil
	}
	seen := make(map[string]bool)
	var codes []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		code := strings.TrimSuffix(e.Name(), ext)
		if code == "" || seen[code] || !isMessageFileExt(ext) {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func isMessageFileExt(ext string) bool {
	for _, e := range messageFileExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Load drops any loaded language and loads the messages for code. It
// reports whether a message file was found; a missing one is not an error.
func (t *Translations) Load(code string) (bool, error) {
	t.Unload()
	for _, ext := range messageFileExts {
		path := filepath.Join(t.dir, code+ext)
		if !osutil.CanStat(path) {
			continue
		}
		if _, err := t.bundle.LoadMessageFile(path); err != nil {
			return false, fmt.Errorf("cannot load translation %q: %w", code, err)
		}
		t.localizer = i18n.NewLocalizer(t.bundle, code)
		return true, nil
	}
	return false, nil
}

// Unload goes back to the built-in English messages.
func (t *Translations) Unload() {
	t.bundle = newBundle()
	t.localizer = i18n.NewLocalizer(t.bundle, language.English.String())
}

// Localize renders msg in the loaded language, falling back to the
// message's own English text.
func (t *Translations) Localize(msg *i18n.Message, data map[string]any) string {
	s, err := t.localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		TemplateData:   data,
	})
	if s == "" && err != nil {
		logger.Debugf("Cannot localize %q: %v", msg.ID, err)
		return msg.Other
	}
	return s
}

// NativeName returns the name of the language in that language, such as
// "Deutsch" for "de".
func NativeName(code string) string {
	if strings.EqualFold(code, "ast") {
		// Not in ISO 639-1.
		return "Asturian"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}
