// Package session runs extractor and download operations on background
// goroutines and hands results back to the foreground through a Poster.
// It keeps the job records and the last format and item listings.
package session
