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

package machine

const (
	FLAG_POS  uint16 = 1 << 0
	FLAG_ZERO uint16 = 1 << 1
	FLAG_NEG  uint16 = 1 << 2
)

const (
	REG_A uint16 = iota
	REG_B
	REG_C
	REG_D
	REG_IP
	REG_SP
	REG_BP
)

const (
	MEMSPACE_ORIGIN uint16 = 0x4000
	MEMSPACE_STACK  uint16 = 0xFFFF
)

const (
	OP_MV   uint16 = 0x0
	OP_IO   uint16 = 0x1
	OP_PUSH uint16 = 0x2
	OP_POP  uint16 = 0x3
	OP_ADD  uint16 = 0x4
	OP_SUB  uint16 = 0x5
	OP_INC  uint16 = 0x6
	OP_DEC  uint16 = 0x7
	OP_AND  uint16 = 0x8
	OP_OR   uint16 = 0x9
	OP_NOT  uint16 = 0xA
	OP_CMP  uint16 = 0xB
	OP_CALL uint16 = 0xC
	OP_JNZ  uint16 = 0xD
	OP_RET  uint16 = 0xE
	OP_HLT  uint16 = 0xF
)

// Operand kind markers in the instruction word's operand fields
const (
	FIELD_IMMEDIATE uint16 = 0xE
	FIELD_ADDRESS   uint16 = 0xF
)

// Port selectors in the low bits of an io instruction
const (
	PORT_IN  uint16 = 0x1
	PORT_OUT uint16 = 0x2
)
