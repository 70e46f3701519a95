package models

// Upload progress stream frames. Serialized as the data payload of
// server-sent events; field names are part of the wire contract.

const (
	StatusProgress = "progress"
	StatusError    = "error"
	StatusComplete = "complete"
)

// UploadEvent is one frame of the upload progress stream
type UploadEvent interface {
	// EventStatus returns "progress", "error" or "complete"
	EventStatus() string
}

// ProgressEvent reports bytes written to the object store so far.
// Percentages are monotonically non-decreasing and end at 100.
type ProgressEvent struct {
	Status        string `json:"status"`
	Percent       int    `json:"percent"`
	BytesUploaded int64  `json:"bytesUploaded"`
	FileSize      int64  `json:"fileSize"`
}

func (e ProgressEvent) EventStatus() string { return e.Status }

// NewProgressEvent builds a progress frame
func NewProgressEvent(percent int, bytesUploaded, fileSize int64) ProgressEvent {
	return ProgressEvent{
		Status:        StatusProgress,
		Percent:       percent,
		BytesUploaded: bytesUploaded,
		FileSize:      fileSize,
	}
}

// ErrorEvent terminates the stream after a mid-upload failure
type ErrorEvent struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (e ErrorEvent) EventStatus() string { return e.Status }

// NewErrorEvent builds a terminal error frame
func NewErrorEvent(err error) ErrorEvent {
	return ErrorEvent{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// CompleteEvent terminates the stream after a successful upload
type CompleteEvent struct {
	Status      string      `json:"status"`
	ID          string      `json:"id"`
	ReleaseType ReleaseType `json:"releaseType"`
	Version     string      `json:"version"`
	FileHash    string      `json:"file_hash"`
	FileSize    int64       `json:"file_size"`
}

func (e CompleteEvent) EventStatus() string { return e.Status }

// NewCompleteEvent builds the terminal completion frame
func NewCompleteEvent(r *Release) CompleteEvent {
	return CompleteEvent{
		Status:      StatusComplete,
		ID:          r.ID.String(),
		ReleaseType: r.Type,
		Version:     r.Version,
		FileHash:    r.FileHash,
		FileSize:    r.FileSize,
	}
}
