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
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/hwelch-fle/llama-16/pkg/assembler"
	"github.com/hwelch-fle/llama-16/pkg/debugger"
	"github.com/hwelch-fle/llama-16/pkg/machine"
	"github.com/hwelch-fle/llama-16/pkg/monitor"
)

var helpvar bool
var debugvar bool
var servevar string
var shouldexit bool

const usage = "llama [-d] [-serve addr] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "d", false, "Runs the machine in a debug CLI")
	flag.StringVar(
		&servevar, "serve", "",
		"Serves the machine over a websocket monitor on the given address "+
			"instead of the local terminal",
	)
	flag.Parse()
}

func llama() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	defer file.Close()

	var mc machine.Machine
	var dh machine.DeviceHandler
	dh.Keyboard = bufio.NewReader(os.Stdin)
	dh.Display = bufio.NewWriter(os.Stdout)
	mc.Devices = &dh

	if debugvar {
		var dbg debugger.Debugger
		dbg.HandleBreak = handleBreak
		dbg.HandleRead = handleRead
		dbg.HandleWrite = handleWrite
		mc.Debugger = &dbg

		filename := strings.TrimSuffix(
			args[0], filepath.Ext(args[0]),
		) + ".SYM"

		if file, err := os.Open(filename); err == nil {
			if symtable, err := assembler.ReadSymTable(file); err == nil {
				dbg.SymTable = symtable
			} else {
				log.Println("Error loading symbol file")
				log.Println(err)
			}

			file.Close()
		} else {
			log.Println("Error loading symbol file")
			log.Println(err)
		}

		c := make(chan os.Signal, 1)
		defer close(c)

		signal.Notify(c, os.Interrupt)
		go func() {
			for range c {
				fmt.Println()
				dbg.Break = true
			}
		}()
	}

	if err := mc.LoadBin(file); err != nil {
		log.Println(err)
		return 1
	}

	if servevar != "" {
		log.Printf("serving machine monitor on %s", servevar)

		if err := monitor.ListenAndServe(servevar, &mc); err != nil {
			log.Println(err)
			return 1
		}

		return 0
	}

	enterRawTerm()
	defer exitRawTerm()

	if debugvar {
		debugREPL(mc.Debugger.(*debugger.Debugger), &mc)
	}

	for !shouldexit {
		if err := mc.Step(); err != nil {
			if err == machine.ErrHalted {
				return 0
			}

			exitRawTerm()
			log.Println(err)
			return 1
		}
	}

	return 0
}

func main() {
	os.Exit(llama())
}
