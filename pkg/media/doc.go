// Package media defines the media vocabulary shared by filter graph nodes:
// media types, concrete pixel and sample formats, candidate format sets and
// the rational numbers used for time bases and aspect ratios.
//
// # Formats
//
// A [Format] is only meaningful together with its [Type]: the value 0 is
// yuv420p for video and u8 for audio. [Describe] returns the descriptor of a
// format, [ParseFormat] resolves a name, and [All] lists every known format
// of a type in preference order.
//
// # Format Sets
//
// A [FormatSet] is an ordered list of candidate formats. During negotiation
// a set is referenced from one or more slots (link endpoints). [Merge]
// intersects two sets and redirects every slot that referenced either input
// to the result, so slots that shared a set keep sharing it:
//
//	var src, dst *media.FormatSet
//	media.NewFormatSet(media.TypeVideo, media.PixFmtRGB24, media.PixFmtYUV420P).Ref(&src)
//	media.NewFormatSet(media.TypeVideo, media.PixFmtYUV420P, media.PixFmtGray8).Ref(&dst)
//	if m := media.Merge(src, dst); m != nil {
//	    // src == dst == m, m.Formats() == [yuv420p]
//	}
//
// Sets are not safe for concurrent use.
package media
