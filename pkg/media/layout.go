package media

import (
	"fmt"
	"strconv"
	"strings"
)

// Rational is a fraction used for time bases and aspect ratios.
// The zero value means "unset".
type Rational struct {
	Num, Den int
}

// DefaultTimeBase is the time base assigned to links whose source does not
// set one: microseconds.
var DefaultTimeBase = Rational{1, 1000000}

// IsZero reports whether the rational is unset.
func (r Rational) IsZero() bool { return r.Num == 0 && r.Den == 0 }

func (r Rational) String() string { return fmt.Sprintf("%d/%d", r.Num, r.Den) }

// ParseRational parses "num/den" or a plain integer (den 1).
// The denominator must be positive.
func ParseRational(s string) (Rational, error) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.Atoi(num)
	if err != nil {
		return Rational{}, fmt.Errorf("invalid rational %q", s)
	}
	if !found {
		return Rational{n, 1}, nil
	}
	d, err := strconv.Atoi(den)
	if err != nil || d <= 0 {
		return Rational{}, fmt.Errorf("invalid rational %q", s)
	}
	return Rational{n, d}, nil
}

// ChannelLayout is a bitmask of speaker positions.
type ChannelLayout uint64

// Common channel layouts.
const (
	ChannelLayoutMono    ChannelLayout = 0x4
	ChannelLayoutStereo  ChannelLayout = 0x3
	ChannelLayoutQuad    ChannelLayout = 0x33
	ChannelLayout5Point1 ChannelLayout = 0x3F
)

var channelLayoutNames = map[string]ChannelLayout{
	"mono":   ChannelLayoutMono,
	"stereo": ChannelLayoutStereo,
	"quad":   ChannelLayoutQuad,
	"5.1":    ChannelLayout5Point1,
}

// Channels returns the number of channels in the layout.
func (l ChannelLayout) Channels() int {
	n := 0
	for v := uint64(l); v != 0; v &= v - 1 {
		n++
	}
	return n
}

func (l ChannelLayout) String() string {
	for name, v := range channelLayoutNames {
		if v == l {
			return name
		}
	}
	return fmt.Sprintf("0x%x", uint64(l))
}

// ParseChannelLayout resolves a layout name ("mono", "stereo", "quad", "5.1")
// or a hexadecimal mask ("0x3").
func ParseChannelLayout(s string) (ChannelLayout, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if l, ok := channelLayoutNames[s]; ok {
		return l, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
	if err != nil || v == 0 || !strings.HasPrefix(s, "0x") {
		return 0, fmt.Errorf("invalid channel layout %q", s)
	}
	return ChannelLayout(v), nil
}

// Layout is the buffer layout derived from a resolved link format.
//
// For video, LineSizes and PlaneSizes hold one entry per plane and Size is
// the size of a whole frame. For audio, LineSizes holds the bytes per sample
// of each plane and Size the bytes of one sample across all channels.
type Layout struct {
	LineSizes  []int
	PlaneSizes []int
	Size       int
}

// VideoLayout computes the plane layout of a w x h frame in format f.
func VideoLayout(f Format, w, h int) (Layout, error) {
	d, ok := Describe(TypeVideo, f)
	if !ok {
		return Layout{}, fmt.Errorf("%w: video format %d", ErrUnknownFormat, f)
	}
	if w <= 0 || h <= 0 {
		return Layout{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}

	var l Layout
	for i, bits := range d.PlaneBits {
		pw, ph := w, h
		if i > 0 {
			pw = ceilShift(w, d.Log2ChromaW)
			ph = ceilShift(h, d.Log2ChromaH)
		}
		line := (pw*bits + 7) / 8
		l.LineSizes = append(l.LineSizes, line)
		l.PlaneSizes = append(l.PlaneSizes, line*ph)
		l.Size += line * ph
	}
	return l, nil
}

// AudioLayout computes the per-sample layout of format f with the given
// channel count.
func AudioLayout(f Format, channels int) (Layout, error) {
	d, ok := Describe(TypeAudio, f)
	if !ok {
		return Layout{}, fmt.Errorf("%w: audio format %d", ErrUnknownFormat, f)
	}
	if channels <= 0 {
		return Layout{}, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	l := Layout{Size: d.BytesPerSample * channels}
	if d.Planar {
		for range channels {
			l.LineSizes = append(l.LineSizes, d.BytesPerSample)
		}
	} else {
		l.LineSizes = []int{d.BytesPerSample * channels}
	}
	l.PlaneSizes = l.LineSizes
	return l, nil
}

func ceilShift(v, shift int) int {
	return (v + (1 << shift) - 1) >> shift
}
