package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

type syncer interface {
	Sync() error
}

// FlushingWriter serializes writes to the console sink and pushes buffered bytes out after each one,
// so git transcript lines appear in order with the summary.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps writer; nil stays nil and an existing FlushingWriter is returned unchanged.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if existingWriter, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return existingWriter
	}
	return &FlushingWriter{writer: writer}
}

// Write forwards data and flushes the underlying writer when it buffers.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	return bytesWritten, flushingWriter.flushLocked()
}

// Sync lets zap flush the sink on logger Sync; file-backed writers are synced, buffered writers flushed.
func (flushingWriter *FlushingWriter) Sync() error {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	if syncingWriter, implementsSync := flushingWriter.writer.(syncer); implementsSync {
		return syncingWriter.Sync()
	}
	return flushingWriter.flushLocked()
}

func (flushingWriter *FlushingWriter) flushLocked() error {
	if flushableWriter, implementsFlush := flushingWriter.writer.(flusher); implementsFlush {
		return flushableWriter.Flush()
	}
	return nil
}
