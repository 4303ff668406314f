package kar

import (
	"container/heap"
	"context"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/kar/internal/format"
)

// packedEntry is one file read and checksummed by a worker, tagged with
// its enumeration sequence number.
type packedEntry struct {
	seq     int
	header  format.EntryHeader
	path    string
	content []byte
}

// entryHeap is a min-heap of packedEntries keyed by sequence number.
type entryHeap []*packedEntry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return h[i].seq < h[j].seq }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(*packedEntry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	pe := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return pe
}

// packParallel reads files and computes checksums on a worker pool,
// then restores enumeration order before committing bytes to w, so the
// output is byte-identical to the sequential writer's for the same
// enumeration. Any worker failure cancels the whole operation; nothing
// partial survives because the caller writes through a temp file.
func packParallel(ctx context.Context, root *os.Root, files []fileMeta, w io.Writer, cfg *packConfig) (uint64, error) {
	eg, ctx := errgroup.WithContext(ctx)

	jobs := make(chan int)
	// The capacity bounds how far workers can run ahead of the
	// committer, which in turn bounds the reorder heap.
	results := make(chan *packedEntry, cfg.workers)

	eg.Go(func() error {
		defer close(jobs)
		for i := range files {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var workers sync.WaitGroup
	for range cfg.workers {
		workers.Add(1)
		eg.Go(func() error {
			defer workers.Done()
			for i := range jobs {
				hdr, content, err := buildEntry(root, files[i])
				if err != nil {
					return err
				}
				pe := &packedEntry{seq: i, header: hdr, path: files[i].path, content: content}
				select {
				case results <- pe:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(results)
	}()

	var written uint64
	eg.Go(func() error {
		scratch := make([]byte, 0, format.EntryHeaderSize)
		pending := &entryHeap{}
		next := 0
		for pe := range results {
			heap.Push(pending, pe)
			for pending.Len() > 0 && (*pending)[0].seq == next {
				pe := heap.Pop(pending).(*packedEntry)
				if err := writeEntry(w, scratch, pe.header, pe.path, pe.content); err != nil {
					return err
				}
				written += pe.header.ContentSize
				next++
				cfg.report(ProgressEvent{Stage: StagePacking, Path: pe.path, Index: next, Total: len(files)})
				cfg.log().Debug("added file", "path", pe.path, "size", pe.header.ContentSize)
			}
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return 0, err
	}
	return written, nil
}
