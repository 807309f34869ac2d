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

import (
	"encoding/binary"
	"errors"
	"io"
)

func (mc *MachineState) Reset() {
	for i := range mc.Registers {
		mc.Registers[i] = 0x0000
	}

	for i := range mc.Memory {
		mc.Memory[i] = 0x0000
	}

	mc.Flags = 0x0000

	mc.Registers[REG_IP] = MEMSPACE_ORIGIN
	mc.Registers[REG_SP] = MEMSPACE_STACK
	mc.Registers[REG_BP] = MEMSPACE_STACK
}

// LoadBin reads a little-endian word image into memory at the load origin
// and resets the machine to begin execution there.
func (mc *Machine) LoadBin(reader io.Reader) error {
	mc.State.Reset()

	scratch := make([]byte, 2)
	index := uint32(MEMSPACE_ORIGIN)

	for index < 1<<16 {
		_, err := io.ReadFull(reader, scratch)

		if err == io.EOF {
			return nil
		} else if err == io.ErrUnexpectedEOF {
			return errors.New("Error reading binary, odd byte count")
		} else if err != nil {
			return err
		}

		mc.State.Memory[index] = binary.LittleEndian.Uint16(scratch)
		index++
	}

	return nil
}

func (mc *Machine) push(value uint16) {
	mc.State.Registers[REG_SP] -= 1
	mc.write(mc.State.Registers[REG_SP], value)
}

func (mc *Machine) pop() uint16 {
	result := mc.read(mc.State.Registers[REG_SP])
	mc.State.Registers[REG_SP] += 1
	return result
}

func (mc *Machine) read(addr uint16) uint16 {
	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory[addr]
}

func (mc *Machine) write(addr uint16, value uint16) {
	mc.State.Memory[addr] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

// Fetches the word at ip and advances ip
func (mc *Machine) fetch() uint16 {
	result := mc.read(mc.State.Registers[REG_IP])
	mc.State.Registers[REG_IP]++
	return result
}

const (
	operandRegister uint16 = iota
	operandImmediate
	operandAddress
)

// One decoded operand. Immediate and address operands consume the trailing
// word that follows the instruction; register operands carry their index.
type operand struct {
	kind  uint16
	value uint16
}

func (mc *Machine) decodeField(field uint16) operand {
	switch field {
	case FIELD_IMMEDIATE:
		return operand{kind: operandImmediate, value: mc.fetch()}
	case FIELD_ADDRESS:
		return operand{kind: operandAddress, value: mc.fetch()}
	}

	return operand{kind: operandRegister, value: field & 0x7}
}

func (mc *Machine) operand1(instruction uint16) operand {
	return mc.decodeField((instruction >> 8) & 0xF)
}

func (mc *Machine) operand2(instruction uint16) operand {
	marker := (instruction >> 4) & 0xF

	if marker == FIELD_IMMEDIATE || marker == FIELD_ADDRESS {
		return mc.decodeField(marker)
	}

	return operand{kind: operandRegister, value: instruction & 0x7}
}

func (mc *Machine) load(op operand) uint16 {
	switch op.kind {
	case operandImmediate:
		return op.value
	case operandAddress:
		return mc.read(op.value)
	}

	return mc.State.Registers[op.value]
}

func (mc *Machine) store(op operand, value uint16, addr uint16) error {
	switch op.kind {
	case operandImmediate:
		return &InvalidWriteError{addr}
	case operandAddress:
		mc.write(op.value, value)
	default:
		mc.State.Registers[op.value] = value
	}

	return nil
}

// Jump targets take the operand's address or register value directly
func (mc *Machine) target(op operand) uint16 {
	if op.kind == operandRegister {
		return mc.State.Registers[op.value]
	}

	return op.value
}

func (mc *Machine) setFlags(value uint16) {
	if value == 0 {
		mc.State.Flags = FLAG_ZERO
	} else if value>>15 == 1 {
		mc.State.Flags = FLAG_NEG
	} else {
		mc.State.Flags = FLAG_POS
	}
}

func addsOverflow(a int16, b int16) bool {
	result := a + b
	return (a >= 0) == (b >= 0) && (result >= 0) != (a >= 0)
}

func subsOverflow(a int16, b int16) bool {
	result := a - b
	return (a >= 0) != (b >= 0) && (result >= 0) != (a >= 0)
}

// Step executes one instruction. It returns ErrHalted once the program
// executes hlt, an *OverflowError when signed arithmetic overflows, or an
// *InvalidWriteError when an instruction stores into an immediate operand.
func (mc *Machine) Step() error {
	addr := mc.State.Registers[REG_IP]
	instruction := mc.fetch()
	opcode := instruction >> 12

	var err error

	switch opcode {
	// MV   |0000    |op1 |op2     | Copy src into dst
	case OP_MV:
		dest := mc.operand1(instruction)
		src := mc.operand2(instruction)

		err = mc.store(dest, mc.load(src), addr)

	// IO   |0001    |op1 |00|port | Move one byte through a device port
	case OP_IO:
		op := mc.operand1(instruction)

		switch instruction & 0x3 {
		case PORT_IN:
			var key byte

			if mc.Devices != nil && mc.Devices.Keyboard != nil {
				b, readErr := mc.Devices.Keyboard.ReadByte()

				if readErr != nil && readErr != io.EOF {
					return readErr
				}

				if readErr == nil {
					key = b
				}
			}

			err = mc.store(op, uint16(key), addr)

		case PORT_OUT:
			if mc.Devices != nil && mc.Devices.Display != nil {
				if err = mc.Devices.Display.WriteByte(
					byte(mc.load(op) & 0xFF),
				); err != nil {
					return err
				}

				err = mc.Devices.Display.Flush()
			}
		}

	// PUSH |0010    |op1 |        | Push op1
	case OP_PUSH:
		op := mc.operand1(instruction)

		mc.push(mc.load(op))

	// POP  |0011    |op1 |        | Pop into op1
	case OP_POP:
		op := mc.operand1(instruction)

		err = mc.store(op, mc.pop(), addr)

	// ADD  |0100    |op1 |op2     | Signed addition into op1
	case OP_ADD:
		dest := mc.operand1(instruction)
		src := mc.operand2(instruction)

		a := int16(mc.load(dest))
		b := int16(mc.load(src))

		if addsOverflow(a, b) {
			err = &OverflowError{addr}
			break
		}

		result := uint16(a + b)

		if err = mc.store(dest, result, addr); err == nil {
			mc.setFlags(result)
		}

	// SUB  |0101    |op1 |op2     | Signed subtraction into op1
	case OP_SUB:
		dest := mc.operand1(instruction)
		src := mc.operand2(instruction)

		a := int16(mc.load(dest))
		b := int16(mc.load(src))

		if subsOverflow(a, b) {
			err = &OverflowError{addr}
			break
		}

		result := uint16(a - b)

		if err = mc.store(dest, result, addr); err == nil {
			mc.setFlags(result)
		}

	// INC  |0110    |op1 |        | Increment op1
	case OP_INC:
		op := mc.operand1(instruction)

		a := int16(mc.load(op))

		if addsOverflow(a, 1) {
			err = &OverflowError{addr}
			break
		}

		result := uint16(a + 1)

		if err = mc.store(op, result, addr); err == nil {
			mc.setFlags(result)
		}

	// DEC  |0111    |op1 |        | Decrement op1
	case OP_DEC:
		op := mc.operand1(instruction)

		a := int16(mc.load(op))

		if subsOverflow(a, 1) {
			err = &OverflowError{addr}
			break
		}

		result := uint16(a - 1)

		if err = mc.store(op, result, addr); err == nil {
			mc.setFlags(result)
		}

	// AND  |1000    |op1 |op2     | Bitwise and into op1
	case OP_AND:
		dest := mc.operand1(instruction)
		src := mc.operand2(instruction)

		result := mc.load(dest) & mc.load(src)

		if err = mc.store(dest, result, addr); err == nil {
			mc.setFlags(result)
		}

	// OR   |1001    |op1 |op2     | Bitwise or into op1
	case OP_OR:
		dest := mc.operand1(instruction)
		src := mc.operand2(instruction)

		result := mc.load(dest) | mc.load(src)

		if err = mc.store(dest, result, addr); err == nil {
			mc.setFlags(result)
		}

	// NOT  |1010    |op1 |op2     | Bitwise complement of op2 into op1
	case OP_NOT:
		dest := mc.operand1(instruction)
		src := mc.operand2(instruction)

		result := ^mc.load(src)

		if err = mc.store(dest, result, addr); err == nil {
			mc.setFlags(result)
		}

	// CMP  |1011    |op1 |op2     | Set flags on op1 - op2
	case OP_CMP:
		dest := mc.operand1(instruction)
		src := mc.operand2(instruction)

		mc.setFlags(uint16(int16(mc.load(dest)) - int16(mc.load(src))))

	// CALL |1100    |op1 |        | Push ip, jump to op1
	case OP_CALL:
		op := mc.operand1(instruction)

		mc.push(mc.State.Registers[REG_IP])
		mc.State.Registers[REG_IP] = mc.target(op)

	// JNZ  |1101    |op1 |        | Jump to op1 unless the zero flag is set
	case OP_JNZ:
		op := mc.operand1(instruction)

		if mc.State.Flags&FLAG_ZERO == 0 {
			mc.State.Registers[REG_IP] = mc.target(op)
		}

	// RET  |1110    |        | Pop ip
	case OP_RET:
		mc.State.Registers[REG_IP] = mc.pop()

	// HLT  |1111    |        | Stop the machine
	case OP_HLT:
		err = ErrHalted
	}

	if err != nil {
		return err
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return nil
}
