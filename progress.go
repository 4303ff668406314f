package kar

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

const (
	// StageEnumerating indicates the operation is walking the source tree.
	StageEnumerating ProgressStage = iota + 1

	// StagePacking indicates entries are being written to the archive.
	StagePacking

	// StageExtracting indicates entries are being materialized on disk.
	StageExtracting
)

func (s ProgressStage) String() string {
	switch s {
	case StageEnumerating:
		return "enumerating"
	case StagePacking:
		return "packing"
	case StageExtracting:
		return "extracting"
	default:
		return "unknown"
	}
}

// ProgressEvent represents a progress update during pack or unpack.
type ProgressEvent struct {
	Stage ProgressStage

	// Path is the entry the operation just processed.
	Path string

	// Index counts processed entries, starting at 1.
	Index int

	// Total is the number of entries the operation will process.
	// It is zero while enumerating, when the total is not yet known.
	Total int
}

// ProgressFunc receives progress updates during operations.
// It is called synchronously from the operation's committing goroutine,
// so entries are reported in stream order.
type ProgressFunc func(ProgressEvent)
