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
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hwelch-fle/llama-16/pkg/langserver"
)

var helpvar bool
var tcpvar string

const usage = "llama-ls [-tcp addr]"

func init() {
	log.SetFlags(0)
	log.SetPrefix("\033[1mllama-ls:\033[0m")
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.StringVar(
		&tcpvar, "tcp", "",
		"Accepts language clients on the given TCP address instead of "+
			"serving a single session over stdio",
	)
	flag.Parse()
}

func llama_ls() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	if len(flag.Args()) != 0 {
		log.Println(usage)
		return 1
	}

	if tcpvar != "" {
		if err := langserver.ListenAndServeTCP(tcpvar); err != nil {
			log.Println(err)
			return 1
		}

		return 0
	}

	langserver.ListenAndServe()

	return 0
}

func main() {
	os.Exit(llama_ls())
}
