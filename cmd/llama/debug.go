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

package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hwelch-fle/llama-16/pkg/debugger"
	"github.com/hwelch-fle/llama-16/pkg/encoding"
	"github.com/hwelch-fle/llama-16/pkg/machine"
)

var lastcmd []string

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [0x####|label]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, ok := dbg.ResolveAddr(args[0])

		if !ok {
			log.Printf("Unable to find '%s'\n", args[0])
			return
		}

		exists := false

		for _, breakpoint := range dbg.Breakpoints {
			if breakpoint.Addr == addr {
				exists = true
				break
			}
		}

		if !exists {
			dbg.Breakpoints = append(
				dbg.Breakpoints,
				debugger.Breakpoint{Addr: addr},
			)

			fmt.Printf("Breakpoint added [%#04x]\n", addr)
		}

	case "l", "ls", "list":
		for i, breakpoint := range dbg.Breakpoints {
			if label, ok := dbg.LabelAt(breakpoint.Addr); ok {
				fmt.Printf(
					"#%d: %#04x \033[1;30m(%s)\033[0m\n",
					i,
					breakpoint.Addr,
					label,
				)
			} else {
				fmt.Printf("#%d: %#04x\n", i, breakpoint.Addr)
			}
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Breakpoints)) {
			log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = make([]debugger.Breakpoint, 0)
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n", cmd)
		log.Println(usage)
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [0x####|label] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, ok := dbg.ResolveAddr(args[0])

		if !ok {
			log.Printf("Unable to find '%s'\n", args[0])
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "rwrite", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		exists := false

		for _, watchpoint := range dbg.Watchpoints {
			if watchpoint.Addr == addr && watchpoint.Type == wtype {
				exists = true
				break
			}
		}

		if !exists {
			dbg.Watchpoints = append(
				dbg.Watchpoints,
				debugger.Watchpoint{Addr: addr, Type: wtype},
			)

			var typename string
			switch wtype {
			case debugger.ReadWatch:
				typename = "R"
			case debugger.WriteWatch:
				typename = "W"
			case debugger.ReadWriteWatch:
				typename = "RW"
			}

			fmt.Printf("Watchpoint added [%#04x] (%s)\n", addr, typename)
		}

	case "l", "ls", "list":
		for i, watchpoint := range dbg.Watchpoints {
			switch watchpoint.Type {
			case debugger.WriteWatch:
				fmt.Printf("#%d: %#04x write\n", i, watchpoint.Addr)
			case debugger.ReadWatch:
				fmt.Printf("#%d: %#04x read\n", i, watchpoint.Addr)
			case debugger.ReadWriteWatch:
				fmt.Printf("#%d: %#04x readwrite\n", i, watchpoint.Addr)
			}
		}

	case "r", "rm", "remove":
		const usage = "watch remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Watchpoints)) {
			log.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = make([]debugger.Watchpoint, 0)
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n", cmd)
		log.Println(usage)
	}
}

func debugReg(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "register [a|b|c|d|ip|sp|bp] [0x####]"

	if len(args) == 0 {
		dbg.PrintRegisters(mc)
		return
	}

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	name := strings.ToLower(args[0])
	names := [7]string{"a", "b", "c", "d", "ip", "sp", "bp"}

	for i, register := range names {
		if name == register {
			mc.Registers[i] = value
			fmt.Printf("\033[1m%s:\033[0m %#04x\n", name, value)
			return
		}
	}

	log.Println("Invalid register")
}

func debugJump(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "jump [0x####|label]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	addr, ok := dbg.ResolveAddr(args[0])

	if !ok {
		log.Printf("Unable to find '%s'\n", args[0])
		return
	}

	mc.Registers[machine.REG_IP] = addr

	if label, ok := dbg.LabelAt(addr); ok {
		fmt.Printf(
			"\033[1mip:\033[0m %#04x \033[1;30m(%s)\033[0m\n", addr, label,
		)
	} else {
		fmt.Printf("\033[1mip:\033[0m %#04x\n", addr)
	}
}

func debugMemory(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "memory [0x####|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	var addr uint16 = mc.Registers[machine.REG_IP]
	var size uint16 = 1

	if len(args) > 0 {
		resolved, ok := dbg.ResolveAddr(args[0])

		if !ok {
			log.Printf("Unable to find '%s'\n", args[0])
			return
		}

		addr = resolved
	}

	if len(args) > 1 {
		value, err := strconv.ParseInt(args[1], 10, 16)

		if err != nil {
			log.Println(err)
			return
		}

		size = uint16(value)
	}

	dbg.PrintMem(mc, addr, size)
}

func debugSet(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "set [0x####|label] [0x####]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, ok := dbg.ResolveAddr(args[0])

	if !ok {
		log.Printf("Unable to find '%s'\n", args[0])
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	mc.Memory[addr] = value
	dbg.PrintMem(mc, addr, 1)
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	exitRawTerm()
	defer enterRawTerm()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		if !scanner.Scan() {
			fmt.Println()
			shouldexit = true
			return
		}

		args := strings.Split(strings.TrimSpace(scanner.Text()), " ")

		if len(args[0]) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			debugReg(dbg, &mc.State, args)

		case "l", "sym", "symbols", "labels":
			dbg.PrintSymbols()

		case "j", "jmp", "jump":
			debugJump(dbg, &mc.State, args)

		case "m", "mem", "memory":
			debugMemory(dbg, &mc.State, args)

		case "set":
			debugSet(dbg, &mc.State, args)

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next", "step":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			shouldexit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
		dbg.PrintRegisters(&mc.State)
	}
	debugREPL(dbg, mc)
}

func handleRead(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}

func handleWrite(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}
