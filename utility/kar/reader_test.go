// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar_test

import (
	"bytes"
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/devblok/shaderstage/utility/kar"
	qt "github.com/frankban/quicktest"
	"golang.org/x/exp/mmap"
)

var (
	testString1 = "idunvovkjnreovmegihjbrqlkmfrjnb"
	testString2 = "idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"
)

func buildArchive(c *qt.C, files ...string) []byte {
	builder, err := kar.NewBuilder(kar.Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	c.Assert(err, qt.IsNil)
	defer builder.Close()

	for i := 0; i < len(files); i += 2 {
		c.Assert(builder.Add(files[i], bytes.NewReader([]byte(files[i+1]))), qt.IsNil)
	}

	buf := bytes.NewBuffer([]byte{})
	_, err = builder.WriteTo(buf)
	c.Assert(err, qt.IsNil)
	return buf.Bytes()
}

func TestCreateAndRead(t *testing.T) {
	c := qt.New(t)
	data := buildArchive(c, "test", testString1, "test2", testString2)

	ar, err := kar.Open(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)

	f, err := ar.Open("test2")
	c.Assert(err, qt.IsNil)
	c.Assert(f.Size(), qt.Equals, int64(len(testString2)))

	result := make([]byte, len(testString2))
	_, err = io.ReadFull(f, result)
	c.Assert(err, qt.IsNil)
	c.Assert(string(result), qt.Equals, testString2)
}

func TestCreateAndReadAll(t *testing.T) {
	c := qt.New(t)
	data := buildArchive(c, "test", testString1, "test2", testString2)

	ar, err := kar.Open(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)
	c.Assert(ar.Names(), qt.DeepEquals, []string{"test", "test2"})

	f, err := ar.ReadAll("test")
	c.Assert(err, qt.IsNil)
	c.Assert(string(f), qt.Equals, testString1)
}

func TestEmptyFile(t *testing.T) {
	c := qt.New(t)
	data := buildArchive(c, "empty", "")

	ar, err := kar.Open(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)

	f, err := ar.ReadAll("empty")
	c.Assert(err, qt.IsNil)
	c.Assert(f, qt.HasLen, 0)
}

func TestMissingFile(t *testing.T) {
	c := qt.New(t)
	data := buildArchive(c, "test", testString1)

	ar, err := kar.Open(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)

	_, err = ar.ReadAll("nope")
	c.Assert(err, qt.Equals, kar.ErrNotExist)
}

func TestOpenNotArchive(t *testing.T) {
	c := qt.New(t)

	_, err := kar.Open(bytes.NewReader([]byte("this is not a kar archive at all")))
	c.Assert(err, qt.Equals, kar.ErrFileFormat)

	_, err = kar.Open(bytes.NewReader([]byte("KA")))
	c.Assert(err, qt.Equals, kar.ErrFileFormat)
}

func TestOpenTruncated(t *testing.T) {
	c := qt.New(t)
	data := buildArchive(c, "test", testString1)

	_, err := kar.Open(bytes.NewReader(data[:kar.MagicLength+kar.HeaderSizeNumberLength+2]))
	c.Assert(err, qt.Equals, kar.ErrFileFormat)
}

func TestOpenmmap(t *testing.T) {
	c := qt.New(t)
	data := buildArchive(c, "test/test1.txt", "this is a test", "test/test2.txt", "this is another test")

	filename := filepath.Join(c.Mkdir(), "opentest.kar")
	c.Assert(ioutil.WriteFile(filename, data, 0644), qt.IsNil)

	r, err := mmap.Open(filename)
	c.Assert(err, qt.IsNil)
	defer r.Close()

	ar, err := kar.Open(r)
	c.Assert(err, qt.IsNil)

	f, err := ar.ReadAll("test/test1.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(string(f), qt.Equals, "this is a test")

	f, err = ar.ReadAll("test/test2.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(string(f), qt.Equals, "this is another test")
}
