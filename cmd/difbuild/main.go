// Command difbuild turns a triangle-soup text file into a .dif interior.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

type globalOptions struct {
	Version func() `short:"V" long:"version" description:"Print version and exit"`
}

func addBuildCommand(parser *flags.Parser) {
	_, err := parser.AddCommand("build",
		"Build a .dif interior from a triangle-soup file",
		"Reads a newline-delimited triangle-soup text file, builds a dedup'd,\n"+
			"BSP-partitioned interior, and writes it out as a .dif file.",
		&buildCommand{})
	if err != nil {
		panic(err)
	}
}

func main() {
	var globals globalOptions
	globals.Version = func() {
		fmt.Println("difbuild (development build)")
		os.Exit(0)
	}

	parser := flags.NewParser(&globals, flags.Default)
	parser.Name = "difbuild"
	parser.LongDescription = "Builds Torque-engine .dif interiors from triangle-soup input."

	addBuildCommand(parser)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			if flagsErr.Type == flags.ErrCommandRequired {
				parser.WriteHelp(os.Stderr)
				os.Exit(1)
			}
		}
		os.Exit(1)
	}
}
