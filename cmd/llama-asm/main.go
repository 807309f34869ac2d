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
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hwelch-fle/llama-16/pkg/assembler"
)

var helpvar bool
var debugvar bool
var symvar bool
var outvar string

const usage = "llama-asm [-o outfile] [-s] [-d] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "d", false,
		"Prints the token set for each parsed line and dumps the location "+
			"counter and symbol table when assembly fails",
	)
	flag.BoolVar(
		&symvar, "s", false,
		"Writes the symbol table next to the output file with extension "+
			"'.SYM'",
	)
	flag.StringVar(
		&outvar, "o", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flag.Parse()
}

// Replaces the path's extension, adding the new one when none exists
func replaceExt(path string, ext string) string {
	old := filepath.Ext(path)

	if old == "" {
		return path + ext
	}

	return strings.TrimSuffix(path, old) + ext
}

func llama_asm() int {
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

	filename := filepath.Base(file.Name())

	if stat, err := file.Stat(); err != nil {
		log.Println(err)
		return 1
	} else if stat.IsDir() {
		log.Printf("%s is not a valid LLAMA-16 assembly file", filename)
		return 1
	}

	log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m", filename))

	if outvar == "" {
		outvar = replaceExt(args[0], ".OUT")
	}

	asm := assembler.New()

	if debugvar {
		asm.Debug = os.Stdout
	}

	result, err := asm.Assemble(file)

	if err != nil {
		log.Println(err)
		return 1
	}

	if err := os.WriteFile(outvar, result, 0666); err != nil {
		log.Println("Error writing output file")
		log.Println(err)
		return 1
	}

	if debugvar {
		fmt.Printf("wrote %d bytes to %s\n", len(result), outvar)
	}

	if symvar {
		symfile := replaceExt(outvar, ".SYM")

		var listing bytes.Buffer

		if _, err := asm.Symbols().WriteTo(&listing); err != nil {
			log.Println("Error writing symbol table")
			log.Println(err)
			return 1
		}

		if err := os.WriteFile(symfile, listing.Bytes(), 0666); err != nil {
			log.Println("Error writing symbol table")
			log.Println(err)
			return 1
		}

		if debugvar {
			fmt.Printf(
				"wrote %d symbols to %s\n", asm.Symbols().Len(), symfile,
			)
		}
	}

	return 0
}

func main() {
	os.Exit(llama_asm())
}
