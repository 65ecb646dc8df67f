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

package catalog

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Size is an icon size in pixels.
type Size struct {
	Width, Height int
}

// Max grows s to cover o in both dimensions.
func (s Size) Max(o Size) Size {
	return Size{Width: max(s.Width, o.Width), Height: max(s.Height, o.Height)}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// probeIcon decodes only the image header of the icon file.
func probeIcon(path string) (Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return Size{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Size{}, fmt.Errorf("cannot decode icon %s: %w", path, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return Size{}, errors.New("empty icon")
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}
