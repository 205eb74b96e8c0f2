package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/klauspost/pgzip"
)

type FastqRead struct {
	ID          string
	Description string
	Sequence    string
	Quality     string
}

// Header returns the FASTQ header line without the leading '@'.
func (r *FastqRead) Header() string {
	if r.Description == "" {
		return r.ID
	}
	return r.ID + " " + r.Description
}

const maxLineSize = 16 << 20

// FastqReader reads four line FASTQ records one at a time.
type FastqReader struct {
	scanner *bufio.Scanner
	line    int
}

func NewFastqReader(r io.Reader) *FastqReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &FastqReader{scanner: scanner}
}

func (fr *FastqReader) scan() (string, bool) {
	if !fr.scanner.Scan() {
		return "", false
	}
	fr.line++
	return strings.TrimSuffix(fr.scanner.Text(), "\r"), true
}

// Next returns the next record, or io.EOF once the stream is exhausted.
// Malformed records are reported as ErrParse.
func (fr *FastqReader) Next() (*FastqRead, error) {
	header, ok := fr.scan()
	for ok && header == "" {
		header, ok = fr.scan()
	}
	if !ok {
		if err := fr.scanner.Err(); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, fr.line, err)
		}
		return nil, io.EOF
	}
	if !strings.HasPrefix(header, "@") {
		return nil, fmt.Errorf("%w: line %d: expected '@' at the beginning of header line, got: %s", ErrParse, fr.line, header)
	}

	read := &FastqRead{}
	read.ID, read.Description, _ = strings.Cut(header[1:], " ")
	if read.ID == "" {
		return nil, fmt.Errorf("%w: line %d: empty record id", ErrParse, fr.line)
	}

	sequence, ok := fr.scan()
	if !ok {
		return nil, fr.incomplete(read.ID)
	}
	plus, ok := fr.scan()
	if !ok {
		return nil, fr.incomplete(read.ID)
	}
	if !strings.HasPrefix(plus, "+") {
		return nil, fmt.Errorf("%w: line %d: expected '+' line, got: %s", ErrParse, fr.line, plus)
	}
	quality, ok := fr.scan()
	if !ok {
		return nil, fr.incomplete(read.ID)
	}
	read.Sequence = sequence
	read.Quality = quality
	return read, nil
}

func (fr *FastqReader) incomplete(id string) error {
	if err := fr.scanner.Err(); err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrParse, fr.line, err)
	}
	return fmt.Errorf("%w: incomplete record %s", ErrParse, id)
}

type FastqWriter struct {
	writer *bufio.Writer
}

func NewFastqWriter(w io.Writer) *FastqWriter {
	return &FastqWriter{writer: bufio.NewWriter(w)}
}

func (fw *FastqWriter) Write(read *FastqRead) error {
	fw.writer.WriteString("@" + read.Header() + "\n")
	fw.writer.WriteString(read.Sequence + "\n")
	fw.writer.WriteString("+\n")
	_, err := fw.writer.WriteString(read.Quality + "\n")
	return err
}

func (fw *FastqWriter) Flush() error {
	return fw.writer.Flush()
}

// stream closes stacked readers or writers, outermost first.
type stream struct {
	closers []io.Closer
}

func (s *stream) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type inputStream struct {
	io.Reader
	stream
}

type outputStream struct {
	io.Writer
	stream
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

var gzipMagic = []byte{0x1f, 0x8b}

// openInput opens path for reading, "-" meaning stdin. Gzip input is
// detected from its magic bytes. With progress set a bar tracks the raw
// bytes consumed from a regular file.
func openInput(path string, progress bool) (io.ReadCloser, error) {
	if path == "-" {
		return wrapInput(os.Stdin, nil)
	}

	inFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStream, err)
	}
	closers := []io.Closer{inFile}
	var raw io.Reader = inFile

	if progress {
		info, err := inFile.Stat()
		if err == nil && info.Mode().IsRegular() {
			bar := pb.New64(info.Size()).SetTemplate(pb.Full).SetWriter(os.Stderr).Set(pb.Bytes, true).Start()
			proxy := bar.NewProxyReader(inFile)
			raw = proxy
			// closing the proxy finishes the bar and closes the file
			closers = []io.Closer{proxy}
		}
	}

	in, err := wrapInput(raw, closers)
	if err != nil {
		for _, c := range closers {
			c.Close()
		}
		return nil, err
	}
	return in, nil
}

func wrapInput(raw io.Reader, closers []io.Closer) (io.ReadCloser, error) {
	br := bufio.NewReader(raw)
	magic, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrStream, err)
	}
	if len(magic) < len(gzipMagic) || magic[0] != gzipMagic[0] || magic[1] != gzipMagic[1] {
		return &inputStream{Reader: br, stream: stream{closers: closers}}, nil
	}

	gr, err := pgzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStream, err)
	}
	return &inputStream{Reader: gr, stream: stream{closers: append([]io.Closer{gr}, closers...)}}, nil
}

// createOutput opens path for writing, stdout when path is empty. A .gz
// suffix selects gzip compression.
func createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}

	outFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStream, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return outFile, nil
	}

	gw := pgzip.NewWriter(outFile)
	return &outputStream{Writer: gw, stream: stream{closers: []io.Closer{gw, outFile}}}, nil
}
