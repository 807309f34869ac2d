// Copyright (C) 2022  Hunter Welch

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package encoding

import (
	"encoding/binary"
	"errors"
	"strconv"
	"strings"
)

// Decodes a hexidecimal string in the formats: 0x9000, x9000, 9000
func DecodeHex(s string) (uint16, error) {
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "x")

	if s == "" {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 16, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes a base-10 string in the formats: #123, 123, -123
func DecodeInt(s string) (int16, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseInt(s, 10, 16)

	if err != nil {
		return 0, err
	}

	return int16(result), nil
}

// Serializes 16-bit words into the little-endian byte order used by the
// binary image format
func WordsToBytes(words []uint16) []byte {
	result := make([]byte, 2*len(words))

	for i, word := range words {
		binary.LittleEndian.PutUint16(result[2*i:], word)
	}

	return result
}

// Deserializes a little-endian byte stream into 16-bit words, zero-padding
// a trailing odd byte
func BytesToWords(data []byte) []uint16 {
	result := make([]uint16, 0, (len(data)+1)/2)

	for i := 0; i < len(data); i += 2 {
		word := uint16(data[i])

		if i+1 < len(data) {
			word |= uint16(data[i+1]) << 8
		}

		result = append(result, word)
	}

	return result
}
