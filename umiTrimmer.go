package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrConfig   = errors.New("invalid configuration")
	ErrStream   = errors.New("cannot open stream")
	ErrParse    = errors.New("error during fastq record parsing")
	ErrAlphabet = errors.New("invalid read sequence")
	ErrTrim     = errors.New("error trimming read")
)

const (
	minUmiLength = 4
	maxUmiLength = 18 // exclusive
)

type Options struct {
	InputFile  string
	OutputFile string
	UmiLength  int
	Linker     string
	Lenient    bool
	Progress   bool
}

func (o *Options) Validate() error {
	if o.InputFile == "" {
		return fmt.Errorf("%w: missing input file", ErrConfig)
	}
	if o.UmiLength < minUmiLength || o.UmiLength >= maxUmiLength {
		return fmt.Errorf("%w: umi length %d not in [%d, %d)", ErrConfig, o.UmiLength, minUmiLength, maxUmiLength)
	}
	if o.Linker == "" || !validSequence(o.Linker, dnaAlphabet) {
		return fmt.Errorf("%w: linker %q contains non-DNA letters", ErrConfig, o.Linker)
	}
	return nil
}

// UmiExtractor moves the UMI found before the linker into the read id.
type UmiExtractor struct {
	Linker    string
	UmiLength int
}

// checkSequence validates the read alphabet and returns the offset of the
// first linker occurrence, or -1.
func checkSequence(read *FastqRead, linker string, stats *Stats) (int, error) {
	if !validSequence(read.Sequence, iupacAlphabet) {
		return -1, fmt.Errorf("%w: read %s contains non-IUPAC letter\n%s", ErrAlphabet, read.ID, read.Sequence)
	}
	index := strings.Index(read.Sequence, linker)
	if index != -1 {
		stats.NbLinker++
	}
	return index, nil
}

// Extract returns the trimmed read, or nil when the linker is not found
// right after the UMI.
func (e *UmiExtractor) Extract(read *FastqRead, stats *Stats) (*FastqRead, error) {
	stats.NbReads++

	index, err := checkSequence(read, e.Linker, stats)
	if err != nil {
		return nil, err
	}
	if index != e.UmiLength {
		return nil, nil
	}

	umi, payload, ok := splitBySep(read.Sequence, e.Linker, parseString)
	if !ok {
		return nil, fmt.Errorf("%w %s, linker not found", ErrTrim, read.ID)
	}

	leftIndex := e.UmiLength + len(e.Linker)
	if len(read.Quality) < leftIndex || len(read.Quality)-leftIndex != len(payload) {
		return nil, fmt.Errorf("%w %s, seq and qual differ in length", ErrTrim, read.ID)
	}
	quality := read.Quality[leftIndex:]

	stats.Umi[umi]++
	stats.NbWritten++

	return &FastqRead{
		ID:          read.ID + "_" + umi,
		Description: read.Description,
		Sequence:    payload,
		Quality:     quality,
	}, nil
}

// trimStream runs every record of reader through the extractor and writes
// the accepted ones. In lenient mode alphabet and trim errors skip the
// record instead of stopping the run.
func trimStream(reader *FastqReader, writer *FastqWriter, extractor *UmiExtractor, lenient bool) (*Stats, error) {
	stats := NewStats()
	for {
		read, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, err
		}

		trimmed, err := extractor.Extract(read, stats)
		if err != nil {
			if lenient && (errors.Is(err, ErrAlphabet) || errors.Is(err, ErrTrim)) {
				stats.NbInvalid++
				continue
			}
			return stats, err
		}
		if trimmed == nil {
			continue
		}
		if err := writer.Write(trimmed); err != nil {
			return stats, fmt.Errorf("cannot write record: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return stats, fmt.Errorf("cannot write record: %w", err)
	}
	return stats, nil
}

func ProcessReads(opts Options) (*Stats, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	in, err := openInput(opts.InputFile, opts.Progress)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	out, err := createOutput(opts.OutputFile)
	if err != nil {
		return nil, err
	}

	extractor := &UmiExtractor{Linker: opts.Linker, UmiLength: opts.UmiLength}
	stats, err := trimStream(NewFastqReader(in), NewFastqWriter(out), extractor, opts.Lenient)
	if err != nil {
		out.Close()
		return stats, err
	}
	if err := out.Close(); err != nil {
		return stats, fmt.Errorf("cannot close output: %w", err)
	}
	return stats, nil
}
