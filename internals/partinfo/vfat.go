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

package partinfo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	vfatMagic      = "FAT32"
	vfatEmptyLabel = "NO NAME"
)

const mbrSig uint16 = 0xAA55

// See <https://github.com/util-linux/util-linux/blob/master/libblkid/src/superblocks/vfat.c>
type vfatSuperblock struct {
	_      [0x47]byte               // [0x000:0x046] Padding
	Label  [11]byte                 // [0x047:0x051] Volume label
	Magic  [8]byte                  // [0x052:0x059] VFAT magic
	_      [0x1FE - (0x52 + 8)]byte // [0x05A:0x1FD] Padding
	MBRSig uint16                   // [0x1FE:0x1FF] MBR signature
}

func probeVFAT(r io.ReaderAt) (*Info, error) {
	buf := make([]byte, binary.Size(vfatSuperblock{}))
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("cannot read superblock: %w", err)
	}
	var sb vfatSuperblock
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &sb); err != nil {
		return nil, fmt.Errorf("cannot parse superblock: %w", err)
	}
	if sb.MBRSig != mbrSig {
		return nil, errors.New("invalid MBR signature")
	}
	if magic := strings.TrimSpace(string(sb.Magic[:])); magic != vfatMagic {
		return nil, errors.New("invalid vfat magic")
	}
	info := &Info{FSType: "vfat"}
	if label := strings.TrimSpace(string(sb.Label[:])); label != vfatEmptyLabel {
		info.Label = label
	}
	return info, nil
}
