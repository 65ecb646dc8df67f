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
	"hash/crc32"
	"io"
	"strings"
)

type checksumType byte

const (
	checksumTypeNone   checksumType = 0
	checksumTypeCRC32C checksumType = 1
)

const extMagic uint16 = 0xEF53

const (
	// The superblock follows two sectors of padding.
	extSuperblockOffset = 1024
	extSuperblockSize   = 1024
)

// See <https://www.kernel.org/doc/html/latest/filesystems/ext4/globals.html>
type ext4Superblock struct {
	_            [0x38]byte                // [0x000:0x037] Padding
	Magic        uint16                    // [0x038:0x03A] Ext4 magic signature
	_            [0x78 - (0x38 + 2)]byte   // [0x03A:0x077] Padding
	VolName      [16]byte                  // [0x078:0x087] Volume name
	_            [0x175 - (0x78 + 16)]byte // [0x088:0x174] Padding
	ChecksumType checksumType              // [0x175:0x176] Superblock checksum type
	_            [0x3FC - (0x175 + 1)]byte // [0x176:0x3FB] Padding
	Checksum     uint32                    // [0x3FC:0x3FF] Superblock checksum
}

func probeExt4(r io.ReaderAt) (*Info, error) {
	buf := make([]byte, extSuperblockSize)
	if _, err := r.ReadAt(buf, extSuperblockOffset); err != nil {
		return nil, fmt.Errorf("cannot read superblock: %w", err)
	}
	var sb ext4Superblock
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &sb); err != nil {
		return nil, fmt.Errorf("cannot parse superblock: %w", err)
	}
	if sb.Magic != extMagic {
		return nil, errors.New("invalid ext4 magic")
	}

	switch sb.ChecksumType {
	case checksumTypeNone:
	case checksumTypeCRC32C:
		// The stored checksum is the inverse of CRC32-C.
		// See <https://ext4.wiki.kernel.org/index.php/Ext4_Disk_Layout#Checksums>
		sum := crc32.Checksum(buf[:len(buf)-4], crc32.MakeTable(crc32.Castagnoli))
		if sb.Checksum != ^sum {
			return nil, errors.New("invalid checksum")
		}
	default:
		return nil, errors.New("invalid checksum type")
	}
	return &Info{
		FSType: "ext4",
		Label:  strings.TrimRight(string(sb.VolName[:]), "\x00"),
	}, nil
}
