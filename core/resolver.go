// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"io/ioutil"

	"github.com/sirupsen/logrus"
)

var discardLogger = func() logrus.FieldLogger {
	logger := logrus.New()
	logger.Out = ioutil.Discard
	return logger
}()

// Plan lists the source and keeps every entry with a known shader suffix,
// in listing order. Nothing is read and no device is involved.
func Plan(src Source) ([]Match, error) {
	return plan(src, discardLogger)
}

func plan(src Source, log logrus.FieldLogger) ([]Match, error) {
	entries, err := src.Entries()
	if err != nil {
		return nil, asIOError(err, "list", src.String())
	}

	matches := make([]Match, 0, len(entries))
	for _, name := range entries {
		shaderType := ShaderTypeFromName(name)
		if shaderType == UnknownShaderType {
			log.WithField("file", name).Debug("skipping unrecognised file")
			continue
		}
		matches = append(matches, Match{
			Name: name,
			Type: shaderType,
		})
	}
	return matches, nil
}

// Build resolves cfg.Directory into stage descriptors, creating one
// shader module per recognised file on the device.
func Build(device Device, cfg Configuration) ([]StageDescriptor, error) {
	return BuildFrom(NewDirSource(cfg.Directory), device, cfg)
}

// BuildFrom resolves the given source into stage descriptors.
// The first failure aborts the build, modules already created by
// this call are destroyed and no descriptors are returned.
// On success the caller owns the modules, see DestroyStages.
func BuildFrom(src Source, device Device, cfg Configuration) ([]StageDescriptor, error) {
	log := cfg.logger().WithField("source", src.String())

	matches, err := plan(src, log)
	if err != nil {
		return nil, err
	}

	stages := make([]StageDescriptor, 0, len(matches))
	for _, m := range matches {
		stage, err := buildStage(src, device, cfg, m)
		if err != nil {
			DestroyStages(device, stages)
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"shader": shaderName(m.Name),
			"file":   m.Name,
			"stage":  m.Type,
		}).Debug("created shader module")
		stages = append(stages, stage)
	}
	return stages, nil
}

func buildStage(src Source, device Device, cfg Configuration, m Match) (StageDescriptor, error) {
	path := joinSource(src, m.Name)
	code, err := src.ReadFile(m.Name)
	if err != nil {
		return StageDescriptor{}, asIOError(err, "read", path)
	}

	module, err := device.CreateShaderModule(code, cfg.ModuleFlags)
	if err != nil {
		return StageDescriptor{}, &DeviceError{
			Path: path,
			Type: m.Type,
			Err:  err,
		}
	}

	return StageDescriptor{
		Name:       m.Name,
		Path:       path,
		Type:       m.Type,
		Module:     module,
		EntryPoint: cfg.entryPoint(),
		Flags:      cfg.StageFlags,
	}, nil
}

// DestroyStages releases every module held by the descriptors
func DestroyStages(device Device, stages []StageDescriptor) {
	for _, stage := range stages {
		device.DestroyShaderModule(stage.Module)
	}
}

// asIOError keeps errors from custom sources within the two kinds
// Build reports. IOErrors pass through as they are.
func asIOError(err error, op, path string) error {
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}
	return &IOError{Op: op, Path: path, Err: err}
}
