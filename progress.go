package rsdk

// ProgressEvent represents a progress update during a run.
type ProgressEvent struct {
	// Stage identifies the current phase of the run.
	Stage ProgressStage

	// Path is the output name of the entry just processed, if applicable.
	Path string

	// Pack is the id of the current data pack, if applicable.
	Pack int64

	// FilesDone is the number of index rows processed so far.
	FilesDone int

	// FilesTotal is the number of rows in the index.
	// Zero indicates the total is not known yet.
	FilesTotal int64
}

// ProgressStage identifies the current phase of a run.
type ProgressStage uint8

// Progress stages of a run.
const (
	// StageLoading indicates name lists and the index are being loaded.
	StageLoading ProgressStage = iota + 1

	// StageExtracting indicates entries are being extracted.
	StageExtracting

	// StageReporting indicates the final report is being written.
	StageReporting
)

// String returns the stage name.
func (s ProgressStage) String() string {
	switch s {
	case StageLoading:
		return "loading"
	case StageExtracting:
		return "extracting"
	case StageReporting:
		return "reporting"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during a run.
// It is called synchronously from the extraction loop.
type ProgressFunc func(ProgressEvent)
