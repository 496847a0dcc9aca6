package favicon

import (
	"faviconkit/internal/catalog"
)

type SkipReason string

const (
	SkipExists  SkipReason = "exists"
	SkipUpscale SkipReason = "upscale"
)

// File is one output considered by a generation run.
type File struct {
	Filename  string
	Path      string
	Family    catalog.Family
	Dimension catalog.Dimension
	// Bytes is the encoded size of a written file.
	Bytes  int
	Reason SkipReason
	Err    error
}

// Result separates files produced by a run from those skipped or failed.
type Result struct {
	Written []File
	Skipped []File
	Failed  []File
}

// Paths maps filename to path for every file written by the run.
func (r *Result) Paths() map[string]string {
	out := make(map[string]string, len(r.Written))
	for _, file := range r.Written {
		out[file.Filename] = file.Path
	}
	return out
}

func (r *Result) Filenames() []string {
	out := make([]string, 0, len(r.Written))
	for _, file := range r.Written {
		out = append(out, file.Filename)
	}
	return out
}
