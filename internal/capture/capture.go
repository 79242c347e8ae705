package capture

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/pot-code/interview-prep/internal/capability"
)

// DefaultClipLength recordings stop on their own after this long
const DefaultClipLength = 2 * time.Minute

var (
	ErrNoStream        = errors.New("no camera stream")
	ErrRecording       = errors.New("a recording is already in progress")
	ErrNotRecording    = errors.New("no recording in progress")
	ErrClipTooLarge    = errors.New("clip exceeds the upload limit")
	ErrClipNotFound    = errors.New("clip not found")
	ErrDegraded        = errors.New("camera unavailable, answer in text instead")
	ErrAnswerRequired  = errors.New("a written answer is required without a camera")
	ErrStreamNotActive = errors.New("stream already released")
)

// Stream an acquired camera/microphone stream
type Stream interface {
	ID() string
	Close() error
}

// Device camera capability
type Device interface {
	Probe(ctx context.Context) capability.Status
	Open(ctx context.Context) (Stream, error)
}

// Clip recorded answer of one question
type Clip struct {
	ID          string        `json:"id"`
	Question    int           `json:"question"`
	ContentType string        `json:"content_type"`
	Size        int           `json:"size"`
	Duration    time.Duration `json:"duration"`
	RecordedAt  time.Time     `json:"recorded_at"`
	Data        []byte        `json:"-"`
}

// RemoteDevice Device driven by the browser, which reports its camera capability
// and owns the real MediaStream
type RemoteDevice struct {
	mu     sync.Mutex
	status capability.Status
	open   *remoteStream
	seq    int
}

var _ Device = &RemoteDevice{}

// NewRemoteDevice create a device reporting unavailable until the browser says otherwise
func NewRemoteDevice() *RemoteDevice {
	return &RemoteDevice{status: capability.Unavailable}
}

// Report record capability reported by the browser
func (rd *RemoteDevice) Report(status capability.Status) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	rd.status = status
}

// Probe implement Device
func (rd *RemoteDevice) Probe(ctx context.Context) capability.Status {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.status
}

// Open implement Device
func (rd *RemoteDevice) Open(ctx context.Context) (Stream, error) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	if err := rd.status.Err(); err != nil {
		return nil, err
	}
	if rd.open != nil && !rd.open.closed {
		return rd.open, nil
	}
	rd.seq++
	rd.open = &remoteStream{device: rd, id: "stream-" + strconv.Itoa(rd.seq)}
	return rd.open, nil
}

// Active whether a stream is currently held
func (rd *RemoteDevice) Active() bool {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.open != nil && !rd.open.closed
}

type remoteStream struct {
	device *RemoteDevice
	id     string
	closed bool
}

func (rs *remoteStream) ID() string {
	return rs.id
}

func (rs *remoteStream) Close() error {
	rs.device.mu.Lock()
	defer rs.device.mu.Unlock()
	if rs.closed {
		return ErrStreamNotActive
	}
	rs.closed = true
	return nil
}
