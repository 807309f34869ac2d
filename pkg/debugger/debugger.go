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

package debugger

import (
	"fmt"
	"strings"

	"github.com/hwelch-fle/llama-16/pkg/encoding"
	"github.com/hwelch-fle/llama-16/pkg/machine"
)

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Registers[machine.REG_IP] == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

// ResolveAddr turns a hex literal or a label name into an address using the
// loaded symbol table
func (dbg *Debugger) ResolveAddr(text string) (uint16, bool) {
	if addr, err := encoding.DecodeHex(text); err == nil {
		return addr, true
	}

	if dbg.SymTable == nil {
		return 0, false
	}

	return dbg.SymTable.Lookup(strings.ToLower(text))
}

// LabelAt returns the label declared at addr, if any
func (dbg *Debugger) LabelAt(addr uint16) (string, bool) {
	if dbg.SymTable == nil {
		return "", false
	}

	var found string
	var exists bool

	dbg.SymTable.Each(func(name string, address uint16) {
		if address == addr && !exists {
			found = name
			exists = true
		}
	})

	return found, exists
}

func (dbg *Debugger) PrintSymbols() {
	if dbg.SymTable == nil || dbg.SymTable.Len() == 0 {
		fmt.Println("No symbol table loaded")
		return
	}

	dbg.SymTable.Each(func(name string, address uint16) {
		fmt.Printf("\033[1m[%#04x]\033[0m %s\n", address, name)
	})
}

func (dbg *Debugger) PrintRegisters(mc *machine.MachineState) {
	names := [7]string{"a", "b", "c", "d", "ip", "sp", "bp"}

	for i, name := range names {
		fmt.Printf("%2s:%#04x ", name, mc.Registers[i])
	}

	switch mc.Flags {
	case machine.FLAG_POS:
		fmt.Println("flags:pos")
	case machine.FLAG_ZERO:
		fmt.Println("flags:zero")
	case machine.FLAG_NEG:
		fmt.Println("flags:neg")
	default:
		fmt.Println("flags:none")
	}
}

func (dbg *Debugger) PrintMem(mc *machine.MachineState, addr, count uint16) {
	for i := addr; i < addr+count; i++ {
		if i == addr {
			fmt.Printf("\033[1m[%#04x]\033[0m ", i)
		} else if (i-addr)%4 == 0 {
			fmt.Println()
			fmt.Printf("\033[1m[%#04x]\033[0m ", i)
		}

		result := mc.Memory[i]

		if result == 0 {
			fmt.Printf("\033[1;30m%#04x\033[0m ", result)
		} else {
			fmt.Printf("%#04x ", result)
		}
	}

	fmt.Println()
}
