// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fastq validates gzipped fastq files and pairs remote read files
// with their checksums.
package fastq

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"os"
	"strings"
)

// ReadFile pairs the remote path of one read file with its expected checksum.
type ReadFile struct {
	FTP string `yaml:"ftp"`
	MD5 string `yaml:"md5"`
}

// UnpackFTP splits semicolon-separated ftp path and md5 lists and pairs them
// positionally into read_1, read_2, ... entries. A count mismatch between the
// two lists is an error.
func UnpackFTP(ftpList, md5List string) (map[string]ReadFile, error) {
	ftps := strings.Split(ftpList, ";")
	md5s := strings.Split(md5List, ";")
	if len(ftps) != len(md5s) {
		return nil, fmt.Errorf("ftp list has %d entries but md5 list has %d", len(ftps), len(md5s))
	}

	reads := make(map[string]ReadFile, len(ftps))
	for i := range ftps {
		key := fmt.Sprintf("read_%d", i+1)
		reads[key] = ReadFile{FTP: ftps[i], MD5: md5s[i]}
	}
	return reads, nil
}

// record is one four-line fastq entry.
type record struct {
	header, seq, sep, qual string
}

func (r record) valid() bool {
	return strings.HasPrefix(r.header, "@") &&
		strings.HasPrefix(r.sep, "+") &&
		len(r.seq) > 0 &&
		len(r.seq) == len(r.qual)
}

// scanRecords streams the fastq.gz at path, calling fn for each record.
// Any gzip or structural error stops the scan and is returned.
func scanRecords(path string, fn func(record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading gzip %s: %w", path, err)
	}
	defer gz.Close()

	sc := bufio.NewScanner(gz)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var lines [4]string
	n := 0
	for sc.Scan() {
		lines[n%4] = sc.Text()
		n++
		if n%4 == 0 {
			rec := record{lines[0], lines[1], lines[2], lines[3]}
			if err := fn(rec); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scanning %s: %w", path, err)
	}
	if n%4 != 0 {
		return fmt.Errorf("%s: truncated record (%d trailing lines)", path, n%4)
	}
	if n == 0 {
		return fmt.Errorf("%s: no fastq records", path)
	}
	return nil
}

// CheckValid reports whether path is a readable fastq.gz in which every
// record has an @ header, a + separator, and matching sequence/quality
// lengths.
func CheckValid(path string) bool {
	err := scanRecords(path, func(r record) error {
		if !r.valid() {
			return fmt.Errorf("malformed record %q", r.header)
		}
		return nil
	})
	return err == nil
}

// CheckTail reports whether the final record of the fastq.gz at path is
// structurally intact. A corrupt or truncated file fails here even when its
// early records read cleanly.
func CheckTail(path string) bool {
	var last record
	if err := scanRecords(path, func(r record) error {
		last = r
		return nil
	}); err != nil {
		return false
	}
	return last.valid()
}

// ReadCount returns the number of records in r1. When r2 is non-empty its
// record count must match r1, mirroring the paired-read invariant; a
// disagreement is an error.
func ReadCount(r1, r2 string) (int, error) {
	n1, err := countRecords(r1)
	if err != nil {
		return 0, err
	}
	if r2 == "" {
		return n1, nil
	}
	n2, err := countRecords(r2)
	if err != nil {
		return 0, err
	}
	if n1 != n2 {
		return 0, fmt.Errorf("paired read counts differ: %s has %d, %s has %d", r1, n1, r2, n2)
	}
	return n1, nil
}

func countRecords(path string) (int, error) {
	n := 0
	if err := scanRecords(path, func(record) error {
		n++
		return nil
	}); err != nil {
		return 0, err
	}
	return n, nil
}
