// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command kar packs compiled shaders into kar archives, lists
// and extracts them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/devblok/shaderstage/utility/kar"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/mmap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func currentUserName() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}
	return u.Username
}

type options struct {
	author   string
	version  int64
	extract  string
	compress string
	list     string
	dstFile  string
	outDir   string
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	flags := flag.NewFlagSet("kar", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.author, "author", currentUserName(), "Set the author of the package when compressing")
	flags.Int64Var(&opts.version, "version", 1, "Archive version number to create it with")
	flags.StringVar(&opts.extract, "e", "", "Extract the archive given")
	flags.StringVar(&opts.compress, "c", "", "Compress the given folder")
	flags.StringVar(&opts.list, "l", "", "List the contents of the archive given")
	flags.StringVar(&opts.dstFile, "f", "out.kar", "Destination file")
	flags.StringVar(&opts.outDir, "o", ".", "Destination folder when extracting")
	if err := flags.Parse(args); errors.Is(err, flag.ErrHelp) {
		return 0
	} else if err != nil {
		return 2
	}

	logger := log.New()
	logger.Out = stderr
	logger.Formatter = &log.TextFormatter{DisableTimestamp: true}

	var ops int
	for _, op := range []string{opts.extract, opts.compress, opts.list} {
		if op != "" {
			ops++
		}
	}
	if ops > 1 {
		logger.Error("only one operation at a time")
		return 2
	}

	var err error
	switch {
	case opts.compress != "":
		err = compressFiles(opts, logger)
	case opts.list != "":
		err = listFiles(opts.list, stdout)
	case opts.extract != "":
		err = extractFiles(opts, logger)
	default:
		flags.PrintDefaults()
		return 2
	}
	if err != nil {
		logger.Error(err)
		return 1
	}
	return 0
}

func compressFiles(opts options, logger *log.Logger) error {
	if _, err := os.Stat(opts.dstFile); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	var filesToCompress []string
	if err := filepath.Walk(opts.compress, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		filesToCompress = append(filesToCompress, path)
		return nil
	}); err != nil {
		return err
	}

	karBuilder, err := kar.NewBuilder(kar.Header{
		Author:      opts.author,
		DateCreated: time.Now().Unix(),
		Version:     opts.version,
	})
	if err != nil {
		return err
	}
	defer karBuilder.Close()

	for _, ftc := range filesToCompress {
		name, err := filepath.Rel(opts.compress, ftc)
		if err != nil {
			return err
		}
		if err := addFile(karBuilder, filepath.ToSlash(name), ftc); err != nil {
			return err
		}
		logger.WithField("file", name).Debug("added")
	}

	dst, err := os.Create(opts.dstFile)
	if err != nil {
		return err
	}
	if _, err := karBuilder.WriteTo(dst); err != nil {
		dst.Close()
		os.Remove(opts.dstFile)
		return err
	}
	logger.Infof("packed %d files into %s", len(filesToCompress), opts.dstFile)
	return dst.Close()
}

func addFile(b *kar.Builder, name, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Add(name, f)
}

func openArchive(filename string) (*kar.Archive, io.Closer, error) {
	r, err := mmap.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	ar, err := kar.Open(r)
	if err != nil {
		r.Close()
		return nil, nil, fmt.Errorf("%s: %w", filename, err)
	}
	return ar, r, nil
}

func listFiles(filename string, stdout io.Writer) error {
	ar, closer, err := openArchive(filename)
	if err != nil {
		return err
	}
	defer closer.Close()

	header := ar.Header()
	fmt.Fprintf(stdout, "author: %s version: %d\n", header.Author, header.Version)
	for _, e := range header.Index {
		fmt.Fprintf(stdout, "%8d %8d %s\n", e.Size, e.CompressedSize, e.Name)
	}
	return nil
}

func extractFiles(opts options, logger *log.Logger) error {
	ar, closer, err := openArchive(opts.extract)
	if err != nil {
		return err
	}
	defer closer.Close()

	for _, name := range ar.Names() {
		clean := path.Clean(name)
		if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("refusing to extract %q outside of %s", name, opts.outDir)
		}

		data, err := ar.ReadAll(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		dst := filepath.Join(opts.outDir, filepath.FromSlash(clean))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := ioutil.WriteFile(dst, data, 0644); err != nil {
			return err
		}
		logger.WithField("file", name).Debug("extracted")
	}
	return nil
}
