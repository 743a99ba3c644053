package main

import (
	"fmt"
	"os"

	"chiptor/rom"
	"chiptor/ui"
)

func main() {
	cli := parseArgs(os.Args[1:])
	cfg := ui.LoadConfigOrDefault()

	switch cli.mode {
	case guiMode:
		ui.RunApp(&cfg)
	case runMode:
		emuMain(cli.Run, &cfg)
	case romInfosMode:
		rom, err := rom.ReadROM(cli.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		rom.PrintInfos(os.Stdout)
	case versionMode:
		fmt.Println("chiptor", ui.Version())
	case captureMode:
		captureMain(cli.Capture)
	}
}
