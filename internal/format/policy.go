package format

import (
	"strings"

	"github.com/ytget/videodl/internal/model"
)

// Selection expression fragments
const (
	Best            = "best"
	BestAudio       = "bestaudio"
	BestAudioM4A    = "bestaudio[ext=m4a]"
	BestVideo       = "bestvideo"
	BestVideoMP4    = "bestvideo[ext=mp4]"
	ProgressiveMP4  = "best[ext=mp4][acodec!=none][vcodec!=none]"
	ProgressiveAny  = "best[acodec!=none][vcodec!=none]"
	WithAudioFilter = "[acodec!=none]"

	alt     = "/"
	combine = "+"
)

// Merge side effects
const (
	MergeContainer = "mp4"
	FastStartArgs  = "-movflags +faststart"
)

// Audio extraction defaults
const (
	AudioCodec   = "mp3"
	AudioQuality = "192"
)

// ThumbnailFormat is the image format thumbnails are converted to
const ThumbnailFormat = "jpg"

// Constraints are the inputs of the selection policy
type Constraints struct {
	FormatID       string
	AudioOnly      bool
	MuxerAvailable bool
	PreferMP4      bool
	EnsureAudio    bool
}

// Selection is the policy result handed to the retrieval dispatcher
type Selection struct {
	Expression        string
	MergeContainer    string
	PostProcessorArgs string
	PostProcessors    []model.PostProcessor
}

// Merges reports whether the expression combines separate streams
func (s Selection) Merges() bool {
	return strings.Contains(s.Expression, combine)
}

// ConstraintsFor derives policy inputs from a request
func ConstraintsFor(req model.DownloadRequest, muxerAvailable bool) Constraints {
	return Constraints{
		FormatID:       req.FormatID,
		AudioOnly:      req.AudioOnly,
		MuxerAvailable: muxerAvailable,
		PreferMP4:      req.PreferMP4,
		EnsureAudio:    req.EnsureAudio,
	}
}

// Select synthesizes the format expression. Alternatives are separated by
// "/" and tried left to right by the extractor. Select performs no I/O.
func Select(c Constraints) (Selection, error) {
	if c.AudioOnly {
		if !c.MuxerAvailable {
			return Selection{}, model.ErrMuxerRequired
		}
		return Selection{
			Expression: join(BestAudio, Best),
			PostProcessors: []model.PostProcessor{{
				Kind:    model.PPExtractAudio,
				Codec:   AudioCodec,
				Quality: AudioQuality,
			}},
		}, nil
	}

	sel := Selection{Expression: expression(c)}
	if sel.Merges() {
		sel.MergeContainer = MergeContainer
		sel.PostProcessorArgs = FastStartArgs
	}
	return sel, nil
}

func expression(c Constraints) string {
	id := c.FormatID
	if !c.EnsureAudio {
		if id != "" {
			return id
		}
		return Best
	}

	switch {
	case id != "" && c.MuxerAvailable:
		if c.PreferMP4 {
			return join(id+combine+BestAudioM4A, BestAudio, Best, id)
		}
		return join(id+combine+BestAudio, Best, id)
	case id != "":
		return join(id+WithAudioFilter, ProgressiveMP4, ProgressiveAny, id)
	case c.MuxerAvailable:
		if c.PreferMP4 {
			return join(BestVideoMP4+combine+BestAudioM4A, BestVideo+combine+BestAudio, Best)
		}
		return join(BestVideo+combine+BestAudio, Best)
	default:
		return join(ProgressiveMP4, ProgressiveAny)
	}
}

// ThumbnailPostProcessors is the chain that embeds a jpg cover and metadata
func ThumbnailPostProcessors() []model.PostProcessor {
	return []model.PostProcessor{
		{Kind: model.PPEmbedThumbnail},
		{Kind: model.PPEmbedMetadata},
		{Kind: model.PPConvertThumbnails, Format: ThumbnailFormat},
	}
}

func join(parts ...string) string {
	return strings.Join(parts, alt)
}
