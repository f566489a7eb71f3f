package models

import "time"

// Photo is one stored file, staged or watermarked.
type Photo struct {
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
	URL        string    `json:"url"`
}

// PhotoListing groups both buckets for the gallery view.
type PhotoListing struct {
	Staged      []Photo `json:"staged"`
	Watermarked []Photo `json:"watermarked"`
}

type StageResult struct {
	Staged    int      `json:"staged"`
	Filenames []string `json:"filenames"`
}

type DownloadLink struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type ProcessResult struct {
	JobID       string         `json:"job_id"`
	Processed   int            `json:"processed"`
	Links       []DownloadLink `json:"links"`
	ProcessedAt time.Time      `json:"processed_at"`
}
