// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command shaderstage resolves a shader directory or kar archive and
// prints the recognised stages as JSON. With -create the shader modules
// are created on a headless Vulkan device and destroyed again.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/devblok/shaderstage/core"
	"github.com/devblok/shaderstage/device"
	log "github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type planEntry struct {
	Name  string          `json:"name"`
	Stage core.ShaderType `json:"stage"`
}

type stageEntry struct {
	Name       string          `json:"name"`
	Path       string          `json:"path"`
	Stage      core.ShaderType `json:"stage"`
	EntryPoint string          `json:"entryPoint"`
	Flags      core.StageFlags `json:"flags"`
	StageBit   uint32          `json:"stageBit"`
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfiguration(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	} else if err != nil {
		return 2
	}

	logger := log.New()
	logger.Out = stderr
	logger.Formatter = &log.TextFormatter{DisableTimestamp: true}
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := execute(cfg, stdout, logger); err != nil {
		logger.Error(err)
		return 1
	}
	return 0
}

func execute(cfg configuration, stdout io.Writer, logger *log.Logger) error {
	if cfg.Devices {
		return listDevices(cfg, stdout)
	}

	var src core.Source = core.NewDirSource(cfg.Directory)
	if cfg.Archive != "" {
		archive, err := core.OpenArchive(cfg.Archive)
		if err != nil {
			return err
		}
		defer archive.Close()
		src = archive
	}

	if !cfg.Create {
		matches, err := core.Plan(src)
		if err != nil {
			return err
		}
		entries := make([]planEntry, 0, len(matches))
		for _, m := range matches {
			logger.WithField("file", m.Name).Debugf("found %s shader", m.Type)
			entries = append(entries, planEntry{Name: m.Name, Stage: m.Type})
		}
		return printJSON(stdout, entries)
	}

	instance, err := device.NewVulkanInstance(device.DefaultVulkanApplicationInfo, device.InstanceConfiguration{
		DebugMode: cfg.Debug,
	})
	if err != nil {
		return err
	}
	defer instance.Destroy()

	vkDevice, err := device.NewVulkan(instance, cfg.DeviceIndex)
	if err != nil {
		return err
	}
	defer vkDevice.Destroy()

	resolverCfg := core.NewConfiguration(cfg.Directory).
		WithEntryPoint(cfg.EntryPoint).
		WithStageFlags(core.StageFlags(cfg.StageFlags)).
		WithModuleFlags(core.ModuleFlags(cfg.ModuleFlags)).
		WithLogger(logger)

	stages, err := core.BuildFrom(src, vkDevice, resolverCfg)
	if err != nil {
		return err
	}
	defer core.DestroyStages(vkDevice, stages)

	entries, err := stageEntries(stages)
	if err != nil {
		return err
	}
	return printJSON(stdout, entries)
}

// stageEntries describes stages the way a pipeline will see them
func stageEntries(stages []core.StageDescriptor) ([]stageEntry, error) {
	infos, err := device.PipelineShaderStages(stages, device.StageOptions{})
	if err != nil {
		return nil, err
	}

	entries := make([]stageEntry, 0, len(stages))
	for i, s := range stages {
		entries = append(entries, stageEntry{
			Name:       s.Name,
			Path:       s.Path,
			Stage:      s.Type,
			EntryPoint: strings.TrimSuffix(infos[i].PName, "\x00"),
			Flags:      s.Flags,
			StageBit:   uint32(infos[i].Stage),
		})
	}
	return entries, nil
}

func listDevices(cfg configuration, stdout io.Writer) error {
	instance, err := device.NewVulkanInstance(device.DefaultVulkanApplicationInfo, device.InstanceConfiguration{
		DebugMode: cfg.Debug,
	})
	if err != nil {
		return err
	}
	defer instance.Destroy()

	return printJSON(stdout, instance.PhysicalDevicesInfo())
}

func printJSON(w io.Writer, v interface{}) error {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	bytes = append(bytes, '\n')
	_, err = w.Write(bytes)
	return err
}
