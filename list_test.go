package kar

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	t.Parallel()

	archive := packTree(t, map[string]string{
		"a.txt":     "hello",
		"sub/b.txt": "world",
	})

	info, err := List(context.Background(), archive)
	require.NoError(t, err)

	assert.Equal(t, archive, info.Path)
	assert.Equal(t, uint16(1), info.Version)
	assert.WithinDuration(t, time.Now(), info.CreatedAt, time.Minute)
	require.Len(t, info.Entries, 2)

	a := info.Entries[0]
	assert.Equal(t, "a.txt", a.Path)
	assert.Equal(t, uint64(5), a.Size)
	assert.Equal(t, uint32(0x3610A686), a.Checksum)
	assert.Equal(t, fs.FileMode(0o644), a.Mode)

	b := info.Entries[1]
	assert.Equal(t, "sub/b.txt", b.Path)
	assert.Equal(t, uint64(5), b.Size)
	assert.Equal(t, uint32(0x3A771143), b.Checksum)
}

func TestListEmptyArchive(t *testing.T) {
	t.Parallel()

	archive := packTree(t, map[string]string{})

	info, err := List(context.Background(), archive)
	require.NoError(t, err)
	assert.Empty(t, info.Entries)
}

func TestListDoesNotModifyArchive(t *testing.T) {
	t.Parallel()

	archive := packTree(t, map[string]string{"f.txt": "payload"})
	before, err := os.ReadFile(archive)
	require.NoError(t, err)

	first, err := List(context.Background(), archive)
	require.NoError(t, err)
	second, err := List(context.Background(), archive)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	after, err := os.ReadFile(archive)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestListSkipsContentVerification(t *testing.T) {
	t.Parallel()

	// Corrupt the content bytes. List reads headers and paths only, so
	// a stored checksum that no longer matches the content is invisible
	// to it.
	archive := packTree(t, map[string]string{"doc.txt": "original text"})
	data, err := os.ReadFile(archive)
	require.NoError(t, err)
	i := bytes.Index(data, []byte("original text"))
	require.Positive(t, i)
	data[i] ^= 0xFF
	require.NoError(t, os.WriteFile(archive, data, 0o644))

	info, err := List(context.Background(), archive)
	require.NoError(t, err)
	require.Len(t, info.Entries, 1)
	assert.Equal(t, "doc.txt", info.Entries[0].Path)
}

func TestListTruncatedEntry(t *testing.T) {
	t.Parallel()

	archive := packTree(t, map[string]string{"a.txt": "hello", "b.txt": "world"})
	full, err := os.ReadFile(archive)
	require.NoError(t, err)

	trunc := filepath.Join(t.TempDir(), "trunc.kar")
	require.NoError(t, os.WriteFile(trunc, full[:len(full)-8], 0o644))

	_, err = List(context.Background(), trunc)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestListBadMagic(t *testing.T) {
	t.Parallel()

	archive := filepath.Join(t.TempDir(), "bad.kar")
	require.NoError(t, os.WriteFile(archive, []byte("garbage bytes here"), 0o644))

	_, err := List(context.Background(), archive)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
