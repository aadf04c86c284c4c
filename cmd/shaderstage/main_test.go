// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/devblok/shaderstage/core"
	vk "github.com/devblok/vulkan"
	qt "github.com/frankban/quicktest"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"shaderstage": func() int {
			return run(os.Args[1:], os.Stdout, os.Stderr)
		},
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "scripts"),
	})
}

func TestRunPlan(t *testing.T) {
	c := qt.New(t)
	dir := c.Mkdir()
	for _, name := range []string{"a.vert.spv", "a.frag.spv", "notes.txt"} {
		c.Assert(os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644), qt.IsNil)
	}

	var stdout, stderr bytes.Buffer
	c.Assert(run([]string{"-dir", dir}, &stdout, &stderr), qt.Equals, 0)
	c.Assert(stderr.String(), qt.Equals, "")

	var entries []planEntry
	c.Assert(json.Unmarshal(stdout.Bytes(), &entries), qt.IsNil)
	c.Assert(entries, qt.HasLen, 2)

	stages := map[string]string{}
	for _, e := range entries {
		stages[e.Name] = e.Stage.String()
	}
	c.Assert(stages, qt.DeepEquals, map[string]string{
		"a.vert.spv": "vertex",
		"a.frag.spv": "fragment",
	})
}

func TestRunBadFlag(t *testing.T) {
	c := qt.New(t)

	var stdout, stderr bytes.Buffer
	c.Assert(run([]string{"-nope"}, &stdout, &stderr), qt.Equals, 2)
	c.Assert(stdout.Len(), qt.Equals, 0)
}

func TestParseConfigurationDefaults(t *testing.T) {
	c := qt.New(t)

	var out bytes.Buffer
	cfg, err := parseConfiguration([]string{"-stage-flags", "3"}, &out)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.StageFlags, qt.Equals, uint(3))
	c.Assert(cfg.Create, qt.Equals, false)
}

func TestStageEntries(t *testing.T) {
	c := qt.New(t)

	var module vk.ShaderModule
	entries, err := stageEntries([]core.StageDescriptor{{
		Name:       "sky.vert.spv",
		Path:       "shaders/sky.vert.spv",
		Type:       core.VertexShaderType,
		Module:     module,
		EntryPoint: "vs_main",
	}, {
		Name:   "sky.fs",
		Path:   "shaders/sky.fs",
		Type:   core.FragmentShaderType,
		Module: module,
		Flags:  1,
	}})
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.DeepEquals, []stageEntry{{
		Name:       "sky.vert.spv",
		Path:       "shaders/sky.vert.spv",
		Stage:      core.VertexShaderType,
		EntryPoint: "vs_main",
		StageBit:   uint32(vk.ShaderStageVertexBit),
	}, {
		Name:       "sky.fs",
		Path:       "shaders/sky.fs",
		Stage:      core.FragmentShaderType,
		EntryPoint: "main",
		Flags:      1,
		StageBit:   uint32(vk.ShaderStageFragmentBit),
	}})

	_, err = stageEntries([]core.StageDescriptor{{Path: "x.vs", Type: core.VertexShaderType, Module: "foreign"}})
	c.Assert(err, qt.ErrorMatches, "x.vs: failed to assert shader module to it's original type")
}
