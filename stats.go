package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"
)

// Stats accumulates counters over one run.
type Stats struct {
	NbReads   int64
	NbLinker  int64 // linker found anywhere in the read
	NbWritten int64
	NbInvalid int64 // skipped in lenient mode
	Umi       map[string]int64
}

func NewStats() *Stats {
	return &Stats{Umi: make(map[string]int64)}
}

// DistinctUmis returns the number of different UMIs seen in written reads.
func (s *Stats) DistinctUmis() int {
	return len(s.Umi)
}

// Merge adds the counters of other into s.
func (s *Stats) Merge(other *Stats) {
	s.NbReads += other.NbReads
	s.NbLinker += other.NbLinker
	s.NbWritten += other.NbWritten
	s.NbInvalid += other.NbInvalid
	if s.Umi == nil {
		s.Umi = make(map[string]int64, len(other.Umi))
	}
	for umi, count := range other.Umi {
		s.Umi[umi] += count
	}
}

type UmiCount struct {
	Umi   string
	Count int64
}

// SortedUmis lists UMIs by decreasing count, ties broken lexically.
func (s *Stats) SortedUmis() []UmiCount {
	counts := make([]UmiCount, 0, len(s.Umi))
	for umi, count := range s.Umi {
		counts = append(counts, UmiCount{Umi: umi, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Umi < counts[j].Umi
	})
	return counts
}

// Report writes the end of run summary to w.
func (s *Stats) Report(w io.Writer) {
	writtenPercentage := 0.0
	if s.NbReads > 0 {
		writtenPercentage = (float64(s.NbWritten) / float64(s.NbReads)) * 100
	}

	fmt.Fprintf(w, "\nTotal reads: %s\n", Comma(s.NbReads))
	fmt.Fprintf(w, "Reads with linker: %s\n", Comma(s.NbLinker))
	fmt.Fprintf(w, "Reads written: %s\n", Comma(s.NbWritten))
	color.New(color.FgHiGreen).Fprintf(w, "Percentage of written reads: %.2f%%\n", writtenPercentage)
	if s.NbInvalid > 0 {
		color.New(color.FgHiRed).Fprintf(w, "Invalid reads skipped: %s\n", Comma(s.NbInvalid))
	}

	color.New(color.FgHiMagenta).Fprint(w, "\nUMI counts:\n")
	for _, c := range s.SortedUmis() {
		fmt.Fprintf(w, "%s\t%d\n", c.Umi, c.Count)
	}
	color.New(color.FgHiMagenta).Fprintf(w, "Distinct UMIs: %s\n", Comma(int64(s.DistinctUmis())))
}

func Comma(value int64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	str := strconv.FormatInt(value, 10)
	result := ""
	count := 0
	for i := len(str) - 1; i >= 0; i-- {
		if count > 0 && count%3 == 0 {
			result = "," + result
		}
		result = string(str[i]) + result
		count++
	}
	return sign + result
}
