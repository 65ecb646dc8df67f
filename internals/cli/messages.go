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

package cli

import "github.com/nicksnyder/go-i18n/v2/i18n"

// Messages shown by the boot menu. Translation files use the same IDs.
var (
	msgChoose = &i18n.Message{
		ID:    "choose-os",
		Other: "Select OS to boot",
	}
	msgCountdown = &i18n.Message{
		ID:    "countdown",
		Other: "Previously selected OS will boot in {{.Seconds}} seconds",
	}
	msgKeys = &i18n.Message{
		ID:    "keys",
		Other: "Press a number to select, Enter to boot, q to quit",
	}
	msgNothingBootable = &i18n.Message{
		ID:    "nothing-bootable",
		Other: "No bootable operating system is installed",
	}
	msgCannotBoot = &i18n.Message{
		ID:    "cannot-boot",
		Other: "Cannot boot: {{.Error}}",
	}
	msgCannotShowMenu = &i18n.Message{
		ID:    "cannot-show-menu",
		Other: "Cannot display boot menu: error mounting settings partition",
	}
	msgBooting = &i18n.Message{
		ID:    "booting",
		Other: "Booting partition {{.Partition}}",
	}
	msgHDMISafe = &i18n.Message{
		ID:    "display-hdmi-safe",
		Other: "HDMI safe mode",
	}
	msgCompositePAL = &i18n.Message{
		ID:    "display-composite-pal",
		Other: "composite PAL mode",
	}
	msgCompositeNTSC = &i18n.Message{
		ID:    "display-composite-ntsc",
		Other: "composite NTSC mode",
	}
)
