package siterules

// Package siterules adapts extractor options for hosts that need captured
// browser headers, extra extractor flags or slower request pacing. Rules are
// kept in an ordered registry so new hosts are added without touching the
// call sites that prepare extractor options.
