package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Run   RunCommand   `command:"run" description:"Start the motion-to-actuation pipeline"`
	Setup SetupCommand `command:"setup" description:"Select a serial port and write telehand.json"`
	Ports PortsCommand `command:"ports" description:"List available serial ports"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "Telehand - drive a robotic hand from camera-derived body and hand keypoints"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
