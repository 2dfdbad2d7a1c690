package rsdk

import "errors"

// Fatal errors returned by [Extractor.Run]. Each names the stage that failed
// and wraps the underlying cause.
var (
	// ErrLoadDictionary is returned when a name list cannot be read.
	ErrLoadDictionary = errors.New("rsdk: load dictionary")

	// ErrOpenIndex is returned when the index database cannot be opened.
	ErrOpenIndex = errors.New("rsdk: open index")

	// ErrQueryIndex is returned when reading rows from the index fails.
	ErrQueryIndex = errors.New("rsdk: query index")

	// ErrOpenPack is returned when a data pack cannot be opened.
	ErrOpenPack = errors.New("rsdk: open pack")

	// ErrCreateDir is returned when an output directory cannot be created.
	ErrCreateDir = errors.New("rsdk: create directory")

	// ErrWrite is returned when an extracted file cannot be written.
	ErrWrite = errors.New("rsdk: write")

	// ErrWriteReport is returned when the report writer fails.
	ErrWriteReport = errors.New("rsdk: write report")
)
