package log

import (
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level uint8

// Levels, ordered by decreasing severity, mirroring logrus.
const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

func init() {
	// Filtering happens per-module before logrus ever sees an entry,
	// so the backend itself lets everything through.
	logrus.SetLevel(logrus.DebugLevel)
}

// SetOutput redirects the whole log output to w.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// Disable silences the log output entirely.
func Disable() {
	logrus.SetOutput(io.Discard)
}

// A Contexter adds ambient fields to every structured entry, whichever
// module emits it.
type Contexter interface {
	AddLogContext(e *EntryZ)
}

var contexts []Contexter

func AddContext(c Contexter) {
	contexts = append(contexts, c)
}

// Like Entry but with typed fields encoded into a fixed buffer. A nil
// *EntryZ is valid and does nothing, so entries of disabled modules cost
// a nil check and nothing else.
type EntryZ struct {
	lvl   Level
	msg   string
	mod   Module
	zfbuf [32]ZField
	zfidx int
}

var zpool = sync.Pool{
	New: func() any { return &EntryZ{} },
}

func NewEntryZ() *EntryZ {
	return zpool.Get().(*EntryZ)
}

// next free field slot. Fields past the buffer capacity are dropped.
func (e *EntryZ) zfield(typ FieldType, key string) *ZField {
	if e.zfidx == len(e.zfbuf) {
		return &ZField{}
	}
	f := &e.zfbuf[e.zfidx]
	e.zfidx++
	*f = ZField{Type: typ, Key: key}
	return f
}

func (e *EntryZ) Bool(key string, val bool) *EntryZ {
	if e != nil {
		e.zfield(FieldTypeBool, key).Boolean = val
	}
	return e
}

func (e *EntryZ) String(key, val string) *EntryZ {
	if e != nil {
		e.zfield(FieldTypeString, key).String = val
	}
	return e
}

func (e *EntryZ) Stringer(key string, val fmt.Stringer) *EntryZ {
	if e != nil {
		e.zfield(FieldTypeStringer, key).Interface = val
	}
	return e
}

func (e *EntryZ) Int(key string, val int) *EntryZ {
	return e.Int64(key, int64(val))
}

func (e *EntryZ) Int32(key string, val int32) *EntryZ {
	return e.Int64(key, int64(val))
}

func (e *EntryZ) Int64(key string, val int64) *EntryZ {
	if e != nil {
		e.zfield(FieldTypeInt, key).Integer = uint64(val)
	}
	return e
}

func (e *EntryZ) Uint8(key string, val uint8) *EntryZ {
	return e.Uint64(key, uint64(val))
}

func (e *EntryZ) Uint16(key string, val uint16) *EntryZ {
	return e.Uint64(key, uint64(val))
}

func (e *EntryZ) Uint32(key string, val uint32) *EntryZ {
	return e.Uint64(key, uint64(val))
}

func (e *EntryZ) Uint64(key string, val uint64) *EntryZ {
	if e != nil {
		e.zfield(FieldTypeUint, key).Integer = val
	}
	return e
}

func (e *EntryZ) Hex8(key string, val uint8) *EntryZ {
	if e != nil {
		e.zfield(FieldTypeHex8, key).Integer = uint64(val)
	}
	return e
}

func (e *EntryZ) Hex16(key string, val uint16) *EntryZ {
	if e != nil {
		e.zfield(FieldTypeHex16, key).Integer = uint64(val)
	}
	return e
}

func (e *EntryZ) Hex32(key string, val uint32) *EntryZ {
	if e != nil {
		e.zfield(FieldTypeHex32, key).Integer = uint64(val)
	}
	return e
}

func (e *EntryZ) Hex64(key string, val uint64) *EntryZ {
	if e != nil {
		e.zfield(FieldTypeHex64, key).Integer = val
	}
	return e
}

func (e *EntryZ) Error(key string, err error) *EntryZ {
	if e != nil {
		e.zfield(FieldTypeError, key).Error = err
	}
	return e
}

func (e *EntryZ) Duration(key string, val time.Duration) *EntryZ {
	if e != nil {
		e.zfield(FieldTypeDuration, key).Duration = val
	}
	return e
}

func (e *EntryZ) Blob(key string, val []byte) *EntryZ {
	if e != nil {
		e.zfield(FieldTypeBlob, key).Blob = val
	}
	return e
}

// End emits the entry and recycles it. The entry must not be used after.
func (e *EntryZ) End() {
	if e == nil {
		return
	}

	for _, c := range contexts {
		c.AddLogContext(e)
	}

	fields := make(logrus.Fields, e.zfidx)
	for i := range e.zfbuf[:e.zfidx] {
		fields[e.zfbuf[i].Key] = e.zfbuf[i].Value()
	}

	entry := logrus.StandardLogger().
		WithField("_mod", modNames[e.mod]).
		WithFields(fields)

	switch e.lvl {
	case DebugLevel:
		entry.Debug(e.msg)
	case InfoLevel:
		entry.Info(e.msg)
	case WarnLevel:
		entry.Warn(e.msg)
	case ErrorLevel:
		entry.Error(e.msg)
	case FatalLevel:
		entry.Fatal(e.msg)
	case PanicLevel:
		entry.Panic(e.msg)
	}

	e.zfidx = 0
	zpool.Put(e)
}
