// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndListAccessions(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.RecordAccessions("10.1093/btab123", []string{"PRJEB12345", "SRP999999"}))
	require.NoError(t, s.RecordAccessions("paper.pdf", []string{"PRJEB12345"}))

	recs, err := s.Accessions()
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "PRJEB12345", recs[0].Accession)
	assert.Equal(t, "10.1093/btab123", recs[0].Document)
	assert.False(t, recs[0].FoundAt.IsZero())
	assert.Equal(t, "paper.pdf", recs[2].Document)
}

func TestRecordDownloadUpsert(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.RecordDownload(DownloadRecord{
		LocalPath:  "out/1.fastq.gz",
		RemotePath: "host/a/1.fastq.gz",
		Status:     StatusFailed,
	}))
	require.NoError(t, s.RecordDownload(DownloadRecord{
		LocalPath:  "out/1.fastq.gz",
		RemotePath: "host/a/1.fastq.gz",
		Digest:     "5c1da3b86d2bbb0d09e1f05cef0107f2",
		Status:     StatusFetched,
	}))

	recs, err := s.Downloads()
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, StatusFetched, recs[0].Status)
	assert.Equal(t, "5c1da3b86d2bbb0d09e1f05cef0107f2", recs[0].Digest)
	assert.False(t, recs[0].FetchedAt.IsZero())
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.RecordAccessions("doc", []string{"PRJNA11111"}))
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	recs, err := s2.Accessions()
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
