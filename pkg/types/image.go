// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Dimensions is a pixel width and height.
type Dimensions struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// ExtractionRecord describes one image that was decoded, resized, and written.
type ExtractionRecord struct {
	// Name is the output filename (e.g. "casino-banners.jpg").
	Name string `json:"name" yaml:"name"`

	// Path is the full output path.
	Path string `json:"path" yaml:"path"`

	// Size is the byte size on disk after encoding. Zero on a dry run.
	Size int64 `json:"size" yaml:"size"`

	// Page is the 1-based source page.
	Page int `json:"page" yaml:"page"`

	// Index is the 0-based position of the image within its page.
	Index int `json:"index" yaml:"index"`

	// Counter is the global naming counter value used for this image.
	Counter int `json:"counter" yaml:"counter"`

	Original Dimensions `json:"original" yaml:"original"`
	Final    Dimensions `json:"final" yaml:"final"`

	// Resized reports whether the image was scaled down.
	Resized bool `json:"resized" yaml:"resized"`
}

// ImageFailure describes an embedded image that could not be processed.
type ImageFailure struct {
	Page   int    `json:"page" yaml:"page"`
	Index  int    `json:"index" yaml:"index"`
	ObjNr  int    `json:"obj_nr" yaml:"obj_nr"`
	Reason string `json:"reason" yaml:"reason"`
}

// Result holds the outcome of one extraction run, in processing order.
type Result struct {
	Source    string             `json:"source" yaml:"source"`
	PageCount int                `json:"page_count" yaml:"page_count"`
	Records   []ExtractionRecord `json:"records" yaml:"records"`
	Failures  []ImageFailure     `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Extracted returns the number of images written.
func (r Result) Extracted() int {
	return len(r.Records)
}

// HasFailures reports whether any image failed.
func (r Result) HasFailures() bool {
	return len(r.Failures) > 0
}

// TotalBytes returns the summed on-disk size of all records.
func (r Result) TotalBytes() int64 {
	var n int64
	for _, rec := range r.Records {
		n += rec.Size
	}
	return n
}
