package model

// PostProcessorKind names a transformation applied after retrieval
type PostProcessorKind string

const (
	PPExtractAudio      PostProcessorKind = "FFmpegExtractAudio"
	PPEmbedThumbnail    PostProcessorKind = "EmbedThumbnail"
	PPEmbedMetadata     PostProcessorKind = "FFmpegMetadata"
	PPConvertThumbnails PostProcessorKind = "FFmpegThumbnailsConvertor"
)

// PostProcessor is one ordered step of the post-processing chain.
// Codec and Quality apply to audio extraction, Format to thumbnail conversion.
type PostProcessor struct {
	Kind    PostProcessorKind
	Codec   string
	Quality string
	Format  string
}
