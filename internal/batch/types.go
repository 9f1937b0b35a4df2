package batch

import (
	"fmt"
	"sort"

	"github.com/platinummonkey/outliner/internal/extract"
)

// FileResult records the outcome of processing one document. Errors are
// always captured into a failed result at the task boundary, never
// propagated across it.
type FileResult struct {
	// Success indicates whether the document produced an outline.
	Success bool

	// Path is the input document path.
	Path string

	// OutputFile is the written JSON path (success only).
	OutputFile string

	// Error holds the captured error text (failure only).
	Error string

	// ProcessingTime is the task wall time in seconds.
	ProcessingTime float64

	// HeadingsFound is the number of outline entries emitted.
	HeadingsFound int

	// Title is the resolved document title.
	Title string

	// Language is the configured language for this document.
	Language string

	// DetectedLanguage is set when auto-detection switched languages.
	DetectedLanguage string

	// FileSizeMB is the input file size in megabytes.
	FileSizeMB float64
}

// Report aggregates a batch run. It is built incrementally as results
// arrive in completion order and finalized once all tasks are done.
type Report struct {
	// TotalFiles is the number of valid documents dispatched.
	TotalFiles int

	// TotalSizeMB is the combined input size in megabytes.
	TotalSizeMB float64

	// Successful and Failed hold per-document results in completion
	// order.
	Successful []FileResult
	Failed     []FileResult

	// TotalTime is the batch wall time in seconds.
	TotalTime float64

	// Languages is the sorted set of configured and detected languages
	// seen across results.
	Languages []string

	// Interrupted marks a run stopped early by a user interrupt;
	// in-flight documents were allowed to finish.
	Interrupted bool

	languageSet map[string]bool
}

// addResult appends one result and folds its languages into the set.
func (r *Report) addResult(result FileResult) {
	if r.languageSet == nil {
		r.languageSet = make(map[string]bool)
	}
	if result.Success {
		r.Successful = append(r.Successful, result)
	} else {
		r.Failed = append(r.Failed, result)
	}
	if result.Language != "" {
		r.languageSet[result.Language] = true
	}
	if result.DetectedLanguage != "" {
		r.languageSet[result.DetectedLanguage] = true
	}
}

// finalize freezes the language set into sorted order.
func (r *Report) finalize() {
	r.Languages = make([]string, 0, len(r.languageSet))
	for lang := range r.languageSet {
		r.Languages = append(r.Languages, lang)
	}
	sort.Strings(r.Languages)
}

// SuccessRate returns the fraction of dispatched documents that
// succeeded, as a percentage.
func (r *Report) SuccessRate() float64 {
	if r.TotalFiles == 0 {
		return 0
	}
	return float64(len(r.Successful)) / float64(r.TotalFiles) * 100
}

// AverageTime returns the mean wall time per dispatched document.
func (r *Report) AverageTime() float64 {
	if r.TotalFiles == 0 {
		return 0
	}
	return r.TotalTime / float64(r.TotalFiles)
}

// TotalHeadings sums headings across successful documents.
func (r *Report) TotalHeadings() int {
	total := 0
	for _, result := range r.Successful {
		total += result.HeadingsFound
	}
	return total
}

// AverageHeadings returns the mean heading count per successful document.
func (r *Report) AverageHeadings() float64 {
	if len(r.Successful) == 0 {
		return 0
	}
	return float64(r.TotalHeadings()) / float64(len(r.Successful))
}

// Throughput returns processed megabytes per second.
func (r *Report) Throughput() float64 {
	if r.TotalTime == 0 {
		return 0
	}
	return r.TotalSizeMB / r.TotalTime
}

// ErrorHistogram counts failures by error text.
func (r *Report) ErrorHistogram() map[string]int {
	histogram := make(map[string]int)
	for _, result := range r.Failed {
		histogram[result.Error]++
	}
	return histogram
}

// EmptyBatchError reports an input directory with no valid documents.
// Fatal for the whole batch; no output directory is created.
type EmptyBatchError struct {
	Dir string
}

func (e *EmptyBatchError) Error() string {
	return fmt.Sprintf("no valid PDF files found in %s", e.Dir)
}

// outputDocument is the per-file JSON schema.
type outputDocument struct {
	Title    string                 `json:"title"`
	Outline  []extract.OutlineEntry `json:"outline"`
	Metadata outputMetadata         `json:"metadata"`
}

type outputMetadata struct {
	SourceFile          string  `json:"source_file"`
	ProcessingTime      float64 `json:"processing_time"`
	Language            string  `json:"language"`
	DetectedLanguage    *string `json:"detected_language"`
	TotalLinesProcessed int     `json:"total_lines_processed"`
	HeadingsFound       int     `json:"headings_found"`
	FileSizeMB          float64 `json:"file_size_mb"`
}
