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

package settings

import "fmt"

// DisplayMode is the video output mode selected in the recovery
// environment. Switching modes is done by the firmware tools; it is only
// recorded here.
type DisplayMode int

const (
	DisplayAuto DisplayMode = iota
	DisplayHDMISafe
	DisplayCompositePAL
	DisplayCompositeNTSC
)

func (m DisplayMode) String() string {
	switch m {
	case DisplayAuto:
		return "auto"
	case DisplayHDMISafe:
		return "HDMI safe mode"
	case DisplayCompositePAL:
		return "composite PAL mode"
	case DisplayCompositeNTSC:
		return "composite NTSC mode"
	}
	return fmt.Sprintf("unknown mode %d", int(m))
}
