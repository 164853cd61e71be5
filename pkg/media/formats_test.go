package media

import (
	"errors"
	"slices"
	"testing"
)

func TestNewFormatSetDropsDuplicates(t *testing.T) {
	s := NewFormatSet(TypeVideo, PixFmtRGB24, PixFmtYUV420P, PixFmtRGB24)
	want := []Format{PixFmtRGB24, PixFmtYUV420P}
	if got := s.Formats(); !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
	if s.String() != "rgb24|yuv420p" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		a, b []Format
		want []Format
	}{
		{
			name: "keeps source order",
			a:    []Format{PixFmtGray8, PixFmtRGB24, PixFmtYUV420P},
			b:    []Format{PixFmtYUV420P, PixFmtGray8},
			want: []Format{PixFmtGray8, PixFmtYUV420P},
		},
		{
			name: "single common",
			a:    []Format{PixFmtRGB24, PixFmtYUV420P},
			b:    []Format{PixFmtYUV420P, PixFmtGray8},
			want: []Format{PixFmtYUV420P},
		},
		{
			name: "disjoint",
			a:    []Format{PixFmtRGB24},
			b:    []Format{PixFmtYUV420P},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var src, dst *FormatSet
			NewFormatSet(TypeVideo, tt.a...).Ref(&src)
			NewFormatSet(TypeVideo, tt.b...).Ref(&dst)
			origSrc, origDst := src, dst

			m := Merge(src, dst)
			if tt.want == nil {
				if m != nil {
					t.Fatalf("Merge() = %v, want nil", m)
				}
				if src != origSrc || dst != origDst {
					t.Error("failed merge must not touch references")
				}
				return
			}
			if m == nil {
				t.Fatal("Merge() = nil")
			}
			if !slices.Equal(m.Formats(), tt.want) {
				t.Errorf("Formats() = %v, want %v", m.Formats(), tt.want)
			}
			if src != m || dst != m {
				t.Error("both slots should reference the merged set")
			}
			if m.RefCount() != 2 {
				t.Errorf("RefCount() = %d, want 2", m.RefCount())
			}
		})
	}
}

func TestMergeRedirectsSharedReferences(t *testing.T) {
	// One set shared by three slots, as a pass-through filter does.
	var in, out, other *FormatSet
	shared := NewFormatSet(TypeVideo, PixFmtRGB24, PixFmtYUV420P, PixFmtGray8)
	shared.Ref(&in)
	shared.Ref(&out)

	NewFormatSet(TypeVideo, PixFmtYUV420P, PixFmtGray8).Ref(&other)

	m := Merge(other, in)
	if m == nil {
		t.Fatal("Merge() = nil")
	}
	if out != m {
		t.Error("slot sharing the merged set was not redirected")
	}
	if m.RefCount() != 3 {
		t.Errorf("RefCount() = %d, want 3", m.RefCount())
	}
}

func TestMergeSameSet(t *testing.T) {
	var a, b *FormatSet
	s := AllFormats(TypeAudio)
	s.Ref(&a)
	s.Ref(&b)
	if Merge(a, b) != s {
		t.Error("merging a set with itself should return it")
	}
}

func TestMergeTypeMismatch(t *testing.T) {
	if Merge(AllFormats(TypeVideo), AllFormats(TypeAudio)) != nil {
		t.Error("sets of different types must not merge")
	}
}

func TestUnrefAndChangeRef(t *testing.T) {
	var a, b *FormatSet
	s := AllFormats(TypeVideo)
	s.Ref(&a)

	ChangeRef(&a, &b)
	if a != nil || b != s {
		t.Fatalf("ChangeRef: a=%v b=%v", a, b)
	}
	if s.RefCount() != 1 {
		t.Errorf("RefCount() = %d, want 1", s.RefCount())
	}

	Unref(&b)
	if b != nil || s.RefCount() != 0 {
		t.Errorf("Unref: b=%v refs=%d", b, s.RefCount())
	}

	Unref(&b) // no-op
}

func TestCollapse(t *testing.T) {
	s := NewFormatSet(TypeAudio, SampleFmtS16, SampleFmtFLT)
	if s.Collapse(SampleFmtDBL) {
		t.Error("Collapse to absent format should not change the set")
	}
	if !s.Collapse(SampleFmtFLT) {
		t.Fatal("Collapse() = false, want true")
	}
	if s.Len() != 1 || s.At(0) != SampleFmtFLT {
		t.Errorf("Formats() = %v", s.Formats())
	}
	if s.Collapse(SampleFmtFLT) {
		t.Error("collapsing a single-candidate set should report no change")
	}
}

func TestParseFormatList(t *testing.T) {
	got, err := ParseFormatList(TypeVideo, "yuv420p|gray")
	if err != nil {
		t.Fatalf("ParseFormatList: %v", err)
	}
	if !slices.Equal(got, []Format{PixFmtYUV420P, PixFmtGray8}) {
		t.Errorf("got %v", got)
	}

	if _, err := ParseFormatList(TypeAudio, "yuv420p"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
	if _, err := ParseFormatList(TypeAudio, ""); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestAll(t *testing.T) {
	if len(All(TypeVideo)) != len(pixelFormats) {
		t.Errorf("All(video) = %d formats", len(All(TypeVideo)))
	}
	if All(TypeData) != nil {
		t.Error("data streams have no formats")
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"video", TypeVideo, false},
		{" Audio ", TypeAudio, false},
		{"subtitle", TypeSubtitle, false},
		{"midi", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownType) {
					t.Errorf("ParseType(%q) error = %v, want ErrUnknownType", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseType(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}
