// Package download dispatches a single download invocation to one of three
// retrieval strategies (ffmpeg remux, raw HTTP stream or the extractor's own
// downloader) and reports exactly one outcome. It also owns the cooperative
// cancellation token and the playlist progress aggregation.
package download
