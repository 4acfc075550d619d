package extractor

// Package extractor wraps the yt-dlp media extractor behind a typed option
// set and normalizes what it reports into model values. The Adapter resolves
// metadata, playlist items and stream descriptors and delegates downloads;
// the backends translate Options into the concrete library calls.
