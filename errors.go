package vulqueno

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ErrorKind classifies the failures surfaced by this package. Every kind is
// itself an error so callers can match with errors.Is(err, vulqueno.NoLibrary).
type ErrorKind int

const (
	NoLibrary ErrorKind = iota + 1
	InstanceCreationFailed
	NoPhysicalDevice
	NoGraphicsQueueFamily
	DeviceCreationFailed
	FileOpenFailed
	FileReadFailed
	ShaderModuleRejected
	DispatchFailed
	BufferCreationFailed
	ImageCreationFailed
	FenceWaitFailed
)

var kindNames = map[ErrorKind]string{
	NoLibrary:              "no vulkan library",
	InstanceCreationFailed: "instance creation failed",
	NoPhysicalDevice:       "no physical device",
	NoGraphicsQueueFamily:  "no graphics queue family",
	DeviceCreationFailed:   "device creation failed",
	FileOpenFailed:         "failed to open file",
	FileReadFailed:         "failed to read file",
	ShaderModuleRejected:   "shader module rejected",
	DispatchFailed:         "dispatch failed",
	BufferCreationFailed:   "buffer creation failed",
	ImageCreationFailed:    "image creation failed",
	FenceWaitFailed:        "fence wait failed",
}

func (k ErrorKind) Error() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("error kind %d", int(k))
}

func (k ErrorKind) String() string {
	return k.Error()
}

// Stage identifies the step of a dispatch that failed.
type Stage int

const (
	StageNone Stage = iota
	StagePipeline
	StageDescriptor
	StageRecord
	StageSubmit
)

func (s Stage) String() string {
	switch s {
	case StagePipeline:
		return "pipeline"
	case StageDescriptor:
		return "descriptor"
	case StageRecord:
		return "record"
	case StageSubmit:
		return "submit"
	}
	return ""
}

// ErrTimeout is returned by FenceFuture.Wait when the fence did not signal
// within the requested timeout. The future may be waited on again.
var ErrTimeout = errors.New("vulqueno: timed out waiting for fence")

// Error is the structured error returned by every library function.
type Error struct {
	Kind  ErrorKind
	Stage Stage
	Path  string
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("vulqueno: ")
	sb.WriteString(e.Kind.Error())
	if e.Stage != StageNone {
		sb.WriteString(" at ")
		sb.WriteString(e.Stage.String())
	}
	if e.Path != "" {
		fmt.Fprintf(&sb, " (%s)", e.Path)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(strings.ReplaceAll(e.Err.Error(), "\n", " "))
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the ErrorKind of this error.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func stageError(stage Stage, err error) *Error {
	return &Error{Kind: DispatchFailed, Stage: stage, Err: err}
}

func pathError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// vkError converts a Vulkan result into an error annotated with the name of
// the call that produced it and the caller's location. It returns nil on
// vk.Success.
func vkError(ret vk.Result, call string) error {
	if ret == vk.Success {
		return nil
	}
	err := vk.Error(ret)
	if err == nil {
		err = fmt.Errorf("result %d", ret)
	}
	if pc, _, _, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			return errors.Wrapf(err, "%s (%d) in %s", call, ret, shortFuncName(fn.Name()))
		}
	}
	return errors.Wrapf(err, "%s (%d)", call, ret)
}

func shortFuncName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
