/*
 * xyz.go, part of ffinspector.
 *
 * Copyright 2026 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package xyz reads and writes multi-frame XYZ trajectories, optionally compressed.
//The compression is chosen from the file name: names ending in .gz are gzip-compressed,
//names ending in .zst are zstd-compressed, and anything else is plain text.
package xyz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	v3 "github.com/rmera/ffinspector/v3"
)

//Compression returns the compression used for a file named name: "gzip", "zstd" or "".
func Compression(name string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".gz"):
		return "gzip"
	case strings.HasSuffix(strings.ToLower(name), ".zst"):
		return "zstd"
	}
	return ""
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

//zstd decoders don't return an error on Close.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//Writer writes the frames of a trajectory to an XYZ file.
type Writer struct {
	filename string
	f        *os.File
	c        io.WriteCloser
	w        *bufio.Writer
	symbols  []string
	frames   int
}

//NewWriter creates the file name and returns a Writer for a trajectory of molecules
//with the given element symbols.
func NewWriter(name string, symbols []string) (*Writer, error) {
	if len(symbols) == 0 {
		return nil, Error{"no atoms", name, []string{"NewWriter"}, true}
	}
	W := &Writer{filename: name, symbols: append([]string(nil), symbols...)}
	var err error
	W.f, err = os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	switch Compression(name) {
	case "gzip":
		W.c, err = gzip.NewWriterLevel(W.f, gzip.BestCompression)
	case "zstd":
		W.c, err = zstd.NewWriter(W.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	default:
		W.c = nopCloser{W.f}
	}
	if err != nil {
		W.f.Close()
		return nil, Error{"can't start compression: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	W.w = bufio.NewWriter(W.c)
	return W, nil
}

//Len returns the number of frames written so far.
func (W *Writer) Len() int { return W.frames }

//WNext writes the coordinates in coords (A) as the next frame, with comment in the
//comment line. Newlines in comment are replaced by spaces.
func (W *Writer) WNext(coords *v3.Matrix, comment string) error {
	if coords.NVecs() != len(W.symbols) {
		return Error{fmt.Sprintf("frame has %d atoms, the trajectory %d", coords.NVecs(), len(W.symbols)), W.filename, []string{"WNext"}, true}
	}
	comment = strings.ReplaceAll(comment, "\n", " ")
	if _, err := fmt.Fprintf(W.w, "%-4d\n%s\n", len(W.symbols), comment); err != nil {
		return Error{err.Error(), W.filename, []string{"WNext"}, true}
	}
	for i, s := range W.symbols {
		c := coords.VecView(i)
		if _, err := fmt.Fprintf(W.w, "%-2s  %12.6f%12.6f%12.6f\n", s, c.At(0, 0), c.At(0, 1), c.At(0, 2)); err != nil {
			return Error{err.Error(), W.filename, []string{"WNext"}, true}
		}
	}
	W.frames++
	return nil
}

//Close flushes the pending frames and closes the file. The Writer can't be used after
//this call.
func (W *Writer) Close() error {
	err := W.w.Flush()
	if cerr := W.c.Close(); err == nil {
		err = cerr
	}
	if cerr := W.f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Error{err.Error(), W.filename, []string{"Close"}, true}
	}
	return nil
}

//Reader reads a multi-frame XYZ trajectory.
type Reader struct {
	filename string
	f        *os.File
	c        io.ReadCloser
	s        *bufio.Scanner
	symbols  []string
	comment  string
	line     int
	peeked   *v3.Matrix
}

//New opens the trajectory name and reads its first frame, to learn the atoms in it.
func New(name string) (*Reader, error) {
	R := &Reader{filename: name}
	var err error
	R.f, err = os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"New"}, true}
	}
	switch Compression(name) {
	case "gzip":
		R.c, err = gzip.NewReader(bufio.NewReader(R.f))
	case "zstd":
		var d *zstd.Decoder
		d, err = zstd.NewReader(bufio.NewReader(R.f))
		if err == nil {
			R.c = zstdReadCloser{d}
		}
	default:
		R.c = io.NopCloser(R.f)
	}
	if err != nil {
		R.f.Close()
		return nil, Error{"can't start decompression: " + err.Error(), name, []string{"New"}, true}
	}
	R.s = bufio.NewScanner(R.c)
	first, err := R.read()
	if err != nil {
		R.Close()
		if _, ok := err.(LastFrameError); ok {
			return nil, Error{"empty trajectory", name, []string{"New"}, true}
		}
		return nil, err
	}
	R.peeked = first
	return R, nil
}

//Symbols returns the element symbols of the atoms in the trajectory.
func (R *Reader) Symbols() []string { return append([]string(nil), R.symbols...) }

//Len returns the number of atoms per frame.
func (R *Reader) Len() int { return len(R.symbols) }

//Comment returns the comment line of the last frame read.
func (R *Reader) Comment() string { return R.comment }

//Next reads the next frame into output, which must have room for Len() atoms. If output
//is nil the frame is skipped. A LastFrameError is returned after the last frame.
func (R *Reader) Next(output *v3.Matrix) error {
	var frame *v3.Matrix
	if R.peeked != nil {
		frame, R.peeked = R.peeked, nil
	} else {
		var err error
		frame, err = R.read()
		if err != nil {
			return err
		}
	}
	if output == nil {
		return nil
	}
	if output.NVecs() != frame.NVecs() {
		return Error{fmt.Sprintf("output has room for %d atoms, the frame has %d", output.NVecs(), frame.NVecs()), R.filename, []string{"Next"}, true}
	}
	output.Dense.Copy(frame.Dense)
	return nil
}

func (R *Reader) next() (string, bool) {
	ok := R.s.Scan()
	R.line++
	return strings.TrimRight(R.s.Text(), "\r"), ok
}

func (R *Reader) read() (*v3.Matrix, error) {
	fail := func(format string, a ...interface{}) error {
		return Error{fmt.Sprintf("line %d: ", R.line) + fmt.Sprintf(format, a...), R.filename, []string{"Next"}, true}
	}
	header, ok := R.next()
	for ok && strings.TrimSpace(header) == "" {
		header, ok = R.next()
	}
	if !ok {
		if err := R.s.Err(); err != nil {
			return nil, Error{err.Error(), R.filename, []string{"Next"}, true}
		}
		return nil, newLastFrameError(R.filename, "Next")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || natoms <= 0 {
		return nil, fail("bad atom count %q", header)
	}
	if R.symbols != nil && natoms != len(R.symbols) {
		return nil, fail("%d atoms in frame, %d in the trajectory", natoms, len(R.symbols))
	}
	R.comment, _ = R.next()
	symbols := make([]string, natoms)
	data := make([]float64, 3*natoms)
	for i := 0; i < natoms; i++ {
		line, ok := R.next()
		fields := strings.Fields(line)
		if !ok || len(fields) < 4 {
			return nil, fail("missing or ill formed atom line")
		}
		symbols[i] = fields[0]
		for j := 0; j < 3; j++ {
			data[3*i+j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, fail("bad coordinate %q", fields[j+1])
			}
		}
	}
	if R.symbols == nil {
		R.symbols = symbols
	}
	coords, err := v3.NewMatrix(data)
	if err != nil {
		return nil, fail("%s", err.Error())
	}
	return coords, nil
}

//Close closes the trajectory. The Reader can't be used after this call.
func (R *Reader) Close() error {
	R.c.Close()
	return R.f.Close()
}
