package kar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/kar/internal/testutil"
)

// TestEndToEnd drives the full pack, list, unpack cycle against known
// checksums.
func TestEndToEnd(t *testing.T) {
	t.Parallel()

	source := t.TempDir()
	testutil.WriteTree(t, source, map[string]string{
		"a.txt":        "hello",
		"subdir/b.txt": "world",
	})

	archive := filepath.Join(t.TempDir(), "tree.kar")
	packed, err := Pack(context.Background(), source, archive)
	require.NoError(t, err)
	assert.Equal(t, 2, packed.Files)
	assert.Equal(t, uint64(10), packed.Bytes)

	info, err := List(context.Background(), archive)
	require.NoError(t, err)
	require.Len(t, info.Entries, 2)
	assert.Equal(t, "a.txt", info.Entries[0].Path)
	assert.Equal(t, uint64(5), info.Entries[0].Size)
	assert.Equal(t, uint32(0x3610A686), info.Entries[0].Checksum)
	assert.Equal(t, "subdir/b.txt", info.Entries[1].Path)
	assert.Equal(t, uint64(5), info.Entries[1].Size)
	assert.Equal(t, uint32(0x3A771143), info.Entries[1].Checksum)

	target := t.TempDir()
	unpacked, err := Unpack(context.Background(), archive, target)
	require.NoError(t, err)
	assert.Equal(t, 2, unpacked.Files)
	assert.Equal(t, uint64(10), unpacked.Bytes)

	got, err := os.ReadFile(filepath.Join(target, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
	got, err = os.ReadFile(filepath.Join(target, "subdir", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), got)
}

// TestEndToEndParallel runs the same cycle with a worker pool and checks
// the result is indistinguishable from the sequential path.
func TestEndToEndParallel(t *testing.T) {
	t.Parallel()

	files := map[string]string{}
	for i := range 25 {
		files[fmt.Sprintf("d/%c/f%d.txt", 'a'+i%5, i)] = fmt.Sprintf("payload %d", i)
	}
	source := t.TempDir()
	testutil.WriteTree(t, source, files)

	archive := filepath.Join(t.TempDir(), "par.kar")
	_, err := Pack(context.Background(), source, archive, PackWithWorkers(4))
	require.NoError(t, err)

	target := t.TempDir()
	_, err = Unpack(context.Background(), archive, target)
	require.NoError(t, err)
	assert.Equal(t, files, testutil.ReadTree(t, target))
}
