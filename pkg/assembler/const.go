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

package assembler

// Load address for assembled programs
const Origin uint16 = 0x4000

const (
	MNEMONIC_INVALID MnemonicType = iota
	MNEMONIC_MV
	MNEMONIC_IO
	MNEMONIC_PUSH
	MNEMONIC_POP
	MNEMONIC_ADD
	MNEMONIC_SUB
	MNEMONIC_INC
	MNEMONIC_DEC
	MNEMONIC_AND
	MNEMONIC_OR
	MNEMONIC_NOT
	MNEMONIC_CMP
	MNEMONIC_CALL
	MNEMONIC_JNZ
	MNEMONIC_RET
	MNEMONIC_HLT
)

const (
	DIRECTIVE_INVALID DirectiveType = iota
	DIRECTIVE_DATA
	DIRECTIVE_STRING
)

const (
	OPERAND_EMPTY OperandType = iota
	OPERAND_REGISTER
	OPERAND_IMMEDIATE
	OPERAND_MEMORY
	OPERAND_LABEL
)

// Operand kind markers stored in the instruction word's operand fields
const (
	FIELD_IMMEDIATE uint16 = 0xE
	FIELD_ADDRESS   uint16 = 0xF
)

// Port selectors added to the finished word by the io mnemonic
const (
	PORT_IN  uint16 = 0x1
	PORT_OUT uint16 = 0x2
)

// Register names in encoding order. The first operand of an instruction may
// only name a general register (a-d); the second may name any of the seven.
var registers = [7]string{"a", "b", "c", "d", "ip", "sp", "bp"}

const (
	generalRegisterCount = 4
	registerCount        = 7
)
