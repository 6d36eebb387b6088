// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteAndReadScanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")

	out := Output{
		Accessions: []string{"PRJEB12345", "SRP999999"},
		Candidates: 3,
		Rejected:   1,
	}
	stems := []string{"PRJEB", "SRP"}

	if err := WriteScanFile(path, "10.1093/bioinformatics/btab123", stems, 250, out); err != nil {
		t.Fatalf("WriteScanFile: %v", err)
	}

	sf, err := ReadScanFile(path)
	if err != nil {
		t.Fatalf("ReadScanFile: %v", err)
	}

	if sf.Document != "10.1093/bioinformatics/btab123" {
		t.Errorf("Document = %q", sf.Document)
	}
	if !reflect.DeepEqual(sf.Stems, stems) {
		t.Errorf("Stems = %v, want %v", sf.Stems, stems)
	}
	if !reflect.DeepEqual(sf.Accessions, out.Accessions) {
		t.Errorf("Accessions = %v, want %v", sf.Accessions, out.Accessions)
	}
	if sf.Summary.Tokens != 250 || sf.Summary.Candidates != 3 || sf.Summary.Rejected != 1 {
		t.Errorf("Summary = %+v", sf.Summary)
	}
	if sf.Summary.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestReadScanFileMissing(t *testing.T) {
	if _, err := ReadScanFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing scan file")
	}
}
