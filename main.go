package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"
)

var (
	inputFile  = flag.String("i", "", "Input FASTQ file, may be gzipped, - for stdin (required)")
	outputFile = flag.String("o", "", "Output FASTQ file, gzipped if ending in .gz (default stdout)")
	umiLength  = flag.Int("umiLength", 6, "UMI length in characters, from 4 to 17")
	linker     = flag.String("linker", "TATA", "Linker between UMI and read, discarded")
	lenient    = flag.Bool("lenient", false, "Skip invalid reads instead of aborting")
	progress   = flag.Bool("progress", false, "Show a progress bar on stderr")
)

func main() {
	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Missing required arguments")
		flag.Usage()
		os.Exit(2)
	}

	startTime := time.Now()
	stats, err := ProcessReads(Options{
		InputFile:  *inputFile,
		OutputFile: *outputFile,
		UmiLength:  *umiLength,
		Linker:     *linker,
		Lenient:    *lenient,
		Progress:   *progress,
	})

	if err != nil {
		log.Fatalf("Error processing reads: %v", err)
	}
	stats.Report(os.Stderr)
	fmt.Fprintf(os.Stderr, "\nApplication execution time: %s\n", time.Since(startTime))
}
