package model

// Package model holds the value types shared by the extractor, format policy,
// retrieval and session layers: stream and item metadata, download requests,
// progress events, outcomes, job records and the error taxonomy.
