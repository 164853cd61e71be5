package media

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownType is returned by [ParseType] for an unrecognized media type name.
	ErrUnknownType = errors.New("unknown media type")

	// ErrUnknownFormat is returned when a format name or value is not defined
	// for the requested media type.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrInvalidDimensions is returned by [VideoLayout] for non-positive sizes.
	ErrInvalidDimensions = errors.New("invalid frame dimensions")

	// ErrInvalidChannels is returned by [AudioLayout] for a non-positive channel count.
	ErrInvalidChannels = errors.New("invalid channel count")
)

// Type is the category of stream a pad or link carries.
type Type int

const (
	TypeVideo Type = iota
	TypeAudio
	TypeData
	TypeSubtitle
)

var typeNames = map[Type]string{
	TypeVideo:    "video",
	TypeAudio:    "audio",
	TypeData:     "data",
	TypeSubtitle: "subtitle",
}

// String returns the lowercase name of the type.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType resolves a media type by name (case-insensitive).
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Format identifies a concrete pixel format (video) or sample format (audio).
// The same value means different things for different types.
type Format int

// FormatNone marks a link whose format has not been resolved.
const FormatNone Format = -1

// Pixel formats.
const (
	PixFmtYUV420P Format = iota
	PixFmtYUYV422
	PixFmtRGB24
	PixFmtBGR24
	PixFmtYUV422P
	PixFmtYUV444P
	PixFmtGray8
	PixFmtNV12
	PixFmtRGBA
	PixFmtBGRA
)

// Sample formats.
const (
	SampleFmtU8 Format = iota
	SampleFmtS16
	SampleFmtS32
	SampleFmtFLT
	SampleFmtDBL
	SampleFmtS16P
	SampleFmtFLTP
)

// Descriptor describes the memory layout of a format.
type Descriptor struct {
	Name string
	Type Type

	// Video: bits per pixel of each plane before chroma subsampling.
	PlaneBits []int
	// Video: log2 of the horizontal and vertical subsampling of planes 1..n.
	Log2ChromaW, Log2ChromaH int

	// Audio: size of one sample of one channel.
	BytesPerSample int
	// Audio: one plane per channel.
	Planar bool
}

var pixelFormats = []Descriptor{
	PixFmtYUV420P: {Name: "yuv420p", Type: TypeVideo, PlaneBits: []int{8, 8, 8}, Log2ChromaW: 1, Log2ChromaH: 1},
	PixFmtYUYV422: {Name: "yuyv422", Type: TypeVideo, PlaneBits: []int{16}},
	PixFmtRGB24:   {Name: "rgb24", Type: TypeVideo, PlaneBits: []int{24}},
	PixFmtBGR24:   {Name: "bgr24", Type: TypeVideo, PlaneBits: []int{24}},
	PixFmtYUV422P: {Name: "yuv422p", Type: TypeVideo, PlaneBits: []int{8, 8, 8}, Log2ChromaW: 1},
	PixFmtYUV444P: {Name: "yuv444p", Type: TypeVideo, PlaneBits: []int{8, 8, 8}},
	PixFmtGray8:   {Name: "gray", Type: TypeVideo, PlaneBits: []int{8}},
	PixFmtNV12:    {Name: "nv12", Type: TypeVideo, PlaneBits: []int{8, 16}, Log2ChromaW: 1, Log2ChromaH: 1},
	PixFmtRGBA:    {Name: "rgba", Type: TypeVideo, PlaneBits: []int{32}},
	PixFmtBGRA:    {Name: "bgra", Type: TypeVideo, PlaneBits: []int{32}},
}

var sampleFormats = []Descriptor{
	SampleFmtU8:   {Name: "u8", Type: TypeAudio, BytesPerSample: 1},
	SampleFmtS16:  {Name: "s16", Type: TypeAudio, BytesPerSample: 2},
	SampleFmtS32:  {Name: "s32", Type: TypeAudio, BytesPerSample: 4},
	SampleFmtFLT:  {Name: "flt", Type: TypeAudio, BytesPerSample: 4},
	SampleFmtDBL:  {Name: "dbl", Type: TypeAudio, BytesPerSample: 8},
	SampleFmtS16P: {Name: "s16p", Type: TypeAudio, BytesPerSample: 2, Planar: true},
	SampleFmtFLTP: {Name: "fltp", Type: TypeAudio, BytesPerSample: 4, Planar: true},
}

func descriptors(t Type) []Descriptor {
	switch t {
	case TypeVideo:
		return pixelFormats
	case TypeAudio:
		return sampleFormats
	}
	return nil
}

// Describe returns the descriptor of f for type t.
func Describe(t Type, f Format) (Descriptor, bool) {
	d := descriptors(t)
	if f < 0 || int(f) >= len(d) {
		return Descriptor{}, false
	}
	return d[f], true
}

// FormatName returns the name of f for type t, or "none" if it is undefined.
func FormatName(t Type, f Format) string {
	if d, ok := Describe(t, f); ok {
		return d.Name
	}
	return "none"
}

// ParseFormat resolves a format name for type t.
func ParseFormat(t Type, name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, d := range descriptors(t) {
		if d.Name == name {
			return Format(i), nil
		}
	}
	return FormatNone, fmt.Errorf("%w: %s format %q", ErrUnknownFormat, t, name)
}

// ParseFormatList resolves a '|' separated list of format names.
func ParseFormatList(t Type, list string) ([]Format, error) {
	var out []Format
	for _, name := range strings.Split(list, "|") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := ParseFormat(t, name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty %s format list", ErrUnknownFormat, t)
	}
	return out, nil
}

// All returns every format defined for t in declaration order.
// Returns nil for types without formats (data, subtitle).
func All(t Type) []Format {
	d := descriptors(t)
	if d == nil {
		return nil
	}
	out := make([]Format, len(d))
	for i := range d {
		out[i] = Format(i)
	}
	return out
}
