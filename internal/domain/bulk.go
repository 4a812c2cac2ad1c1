package domain

// Bulk job aggregate statuses reported by the service. The set is open: any
// other value means the bulk job is still running.
const (
	BulkStatusCompleted = "COMPLETED"
	BulkStatusFailed    = "FAILED"
	BulkStatusPartial   = "PARTIAL"
)

// MaxBulkURLs is the largest number of URLs accepted in one bulk request.
const MaxBulkURLs = 100

// DefaultBulkTerminalStatuses returns the aggregate statuses that end polling.
// Matching is exact and case-sensitive.
func DefaultBulkTerminalStatuses() []string {
	return []string{BulkStatusCompleted, BulkStatusFailed, BulkStatusPartial}
}

// BulkJob is a snapshot of a bulk capture job and its per-URL sub-jobs.
type BulkJob struct {
	ID            string        `json:"id"`
	Status        string        `json:"status"`
	TotalJobs     int           `json:"totalJobs"`
	CompletedJobs int           `json:"completedJobs"`
	FailedJobs    int           `json:"failedJobs"`
	Jobs          []BulkJobItem `json:"jobs,omitempty"`
}

// BulkJobItem is one sub-job of a bulk job. Status is compared verbatim.
type BulkJobItem struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Status       string `json:"status"`
	ResultURL    string `json:"resultUrl,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Succeeded reports whether the item finished with a downloadable result.
func (i BulkJobItem) Succeeded() bool {
	return i.Status == BulkStatusCompleted && i.ResultURL != ""
}

// BulkURL is a single entry of a bulk request.
type BulkURL struct {
	URL string `json:"url"`
}

// BulkDefaults are capture options shared by every URL of a bulk request.
type BulkDefaults struct {
	Device   string      `json:"device,omitempty"`
	Format   ImageFormat `json:"format,omitempty"`
	FullPage bool        `json:"fullPage,omitempty"`
}

// BulkRequest is the body submitted to create a bulk job.
type BulkRequest struct {
	URLs     []BulkURL     `json:"urls"`
	Defaults *BulkDefaults `json:"defaults,omitempty"`
}

// NewBulkRequest builds a bulk request for already-normalized URLs.
func NewBulkRequest(urls []string, defaults BulkDefaults) *BulkRequest {
	entries := make([]BulkURL, 0, len(urls))
	for _, u := range urls {
		entries = append(entries, BulkURL{URL: u})
	}
	return &BulkRequest{URLs: entries, Defaults: &defaults}
}
