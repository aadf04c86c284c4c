// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
)

// Environment variables consulted for values not given as flags
const (
	envDirectory  = "SHADER_DIRECTORY"
	envArchive    = "SHADER_ARCHIVE"
	envEntryPoint = "SHADER_ENTRY_POINT"
)

// configuration holds everything the command was asked to do
type configuration struct {
	Directory   string
	Archive     string
	EntryPoint  string
	StageFlags  uint
	ModuleFlags uint

	Create      bool
	Devices     bool
	DeviceIndex int
	Debug       bool
	Verbose     bool
}

func parseConfiguration(args []string, output io.Writer) (configuration, error) {
	var (
		cfg     configuration
		envFile string
	)

	flags := flag.NewFlagSet("shaderstage", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.StringVar(&envFile, "env", "", "Read configuration variables from this file")
	flags.StringVar(&cfg.Directory, "dir", "", "Directory with compiled shaders ("+envDirectory+", default ./shaders)")
	flags.StringVar(&cfg.Archive, "archive", "", "Kar archive with compiled shaders, replaces -dir ("+envArchive+")")
	flags.StringVar(&cfg.EntryPoint, "entry", "", "Shader entry point name ("+envEntryPoint+", default main)")
	flags.UintVar(&cfg.StageFlags, "stage-flags", 0, "Pipeline shader stage create flags for every stage")
	flags.UintVar(&cfg.ModuleFlags, "module-flags", 0, "Shader module create flags for every module")
	flags.BoolVar(&cfg.Create, "create", false, "Create shader modules on a Vulkan device")
	flags.BoolVar(&cfg.Devices, "devices", false, "List Vulkan physical devices and exit")
	flags.IntVar(&cfg.DeviceIndex, "device", 0, "Index of the physical device used with -create")
	flags.BoolVar(&cfg.Debug, "vkdbg", false, "Load Vulkan validation layers")
	flags.BoolVar(&cfg.Verbose, "v", false, "Log every resolved file")
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil {
			fmt.Fprintf(output, "reading env file: %s\n", err)
			return cfg, err
		}
		for k, v := range vars {
			envy.Set(k, v)
		}
	}

	if cfg.Directory == "" {
		cfg.Directory = envy.Get(envDirectory, "./shaders")
	}
	if cfg.Archive == "" {
		cfg.Archive = envy.Get(envArchive, "")
	}
	if cfg.EntryPoint == "" {
		cfg.EntryPoint = envy.Get(envEntryPoint, "main")
	}
	return cfg, nil
}
