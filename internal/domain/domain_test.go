package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"example.com", "https://example.com", false},
		{"  example.com/path?q=1 ", "https://example.com/path?q=1", false},
		{"http://x.com", "http://x.com", false},
		{"https://x.com", "https://x.com", false},
		{"", "", true},
		{"https://", "", true},
		{"http://%zz", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				var ue *InvalidURLError
				require.ErrorAs(t, err, &ue)
				assert.Equal(t, tt.in, ue.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURLsFailsOnFirstInvalid(t *testing.T) {
	_, err := NormalizeURLs([]string{"a.com", "https://", "b.com"})
	var ue *InvalidURLError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "https://", ue.Input)
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "www_example_co_uk", ExtractDomain("https://www.example.co.uk/a/b"))
	assert.Equal(t, "localhost", ExtractDomain("http://localhost:8080"))
	assert.Equal(t, "screenshot", ExtractDomain("::not a url"))
}

func TestParseImageFormat(t *testing.T) {
	tests := []struct {
		in       string
		allowPDF bool
		want     ImageFormat
		wantErr  bool
	}{
		{"png", false, FormatPNG, false},
		{"", false, FormatPNG, false},
		{"JPG", false, FormatJPEG, false},
		{"jpeg", false, FormatJPEG, false},
		{"WebP", false, FormatWebP, false},
		{"pdf", true, FormatPDF, false},
		{"pdf", false, "", true},
		{"gif", true, "", true},
	}
	for _, tt := range tests {
		got, err := ParseImageFormat(tt.in, tt.allowPDF)
		if tt.wantErr {
			var fe *InvalidFormatError
			assert.ErrorAs(t, err, &fe, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "jpeg", FormatJPEG.Extension())
	assert.Equal(t, "png", ImageFormat("").Extension())
}

func TestJobStatusFromWire(t *testing.T) {
	var job Job
	require.NoError(t, json.Unmarshal([]byte(`{"id":"j","status":"CANCELED"}`), &job))
	assert.Equal(t, JobStatusCancelled, job.Status)
	assert.True(t, job.Status.IsTerminal())

	require.NoError(t, json.Unmarshal([]byte(`{"id":"j","status":"pending"}`), &job))
	assert.Equal(t, JobStatusQueued, job.Status)
	assert.False(t, job.Status.IsTerminal())

	require.NoError(t, json.Unmarshal([]byte(`{"id":"j","status":"rendering"}`), &job))
	assert.Equal(t, JobStatus("rendering"), job.Status)
	assert.False(t, job.Status.IsTerminal())

	assert.Equal(t, UnknownErrorMessage, job.FailureMessage())
}

func TestWatchSessionCounting(t *testing.T) {
	_, err := NewWatchSession(CaptureRequest{}, 0, 1)
	var de *InvalidDurationError
	require.ErrorAs(t, err, &de)

	s, err := NewWatchSession(CaptureRequest{URL: "https://a.com"}, time.Second, 2)
	require.NoError(t, err)
	assert.False(t, s.Exhausted())
	assert.Equal(t, 1, s.Next())
	assert.False(t, s.Exhausted())
	assert.Equal(t, 2, s.Next())
	assert.True(t, s.Exhausted())

	unbounded, err := NewWatchSession(CaptureRequest{}, time.Second, 0)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		unbounded.Next()
	}
	assert.False(t, unbounded.Exhausted())
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"500ms", 500 * time.Millisecond},
		{"2h30m", 2*time.Hour + 30*time.Minute},
		{"1m 30s", 90 * time.Second},
		{"1 min", time.Minute},
		{"1day", 24 * time.Hour},
		{"1h, 15 minutes", 75 * time.Minute},
		{"1.5hours", 90 * time.Minute},
		{"2w", 14 * 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterval(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "  ", "soon", "30", "5 parsecs", "1m soon"} {
		_, err := ParseInterval(bad)
		var de *InvalidDurationError
		assert.ErrorAs(t, err, &de, bad)
	}
}

func TestBulkRequestSharesDefaults(t *testing.T) {
	req := NewBulkRequest([]string{"https://a.com", "https://b.com"}, BulkDefaults{Format: FormatWebP})
	body, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"urls":[{"url":"https://a.com"},{"url":"https://b.com"}],"defaults":{"format":"webp"}}`, string(body))
}

func TestPollTimeoutMatchesDeadline(t *testing.T) {
	err := error(&PollTimeoutError{JobID: "j", After: time.Minute, LastStatus: JobStatusProcessing})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "last status: processing")
}

func TestDevicePresetGroups(t *testing.T) {
	groups := map[DeviceGroup]int{}
	for _, d := range DevicePresets() {
		groups[d.Group()]++
	}
	assert.Equal(t, 3, groups[DeviceGroupDesktop])
	assert.Equal(t, 6, groups[DeviceGroupTablet])
	assert.Equal(t, 7, groups[DeviceGroupMobile])
}

func TestParseLayout(t *testing.T) {
	for in, want := range map[string]Layout{"": LayoutAuto, "Grid": LayoutGrid, " mondrian ": LayoutMondrian, "partitioning": LayoutPartitioning} {
		got, err := ParseLayout(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseLayout("spiral")
	var oe *InvalidOptionError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "layout", oe.Option)
}

func TestNewComposeRequest(t *testing.T) {
	req, err := NewComposeRequest([]string{"a.com", "http://b.com"}, "iPhone 14", true, ComposeOutput{Layout: LayoutGrid, Columns: 2})
	require.NoError(t, err)
	require.Len(t, req.Captures, 2)
	assert.Equal(t, ComposeCapture{URL: "https://a.com", Device: "iPhone 14"}, req.Captures[0])
	assert.Equal(t, "http://b.com", req.Captures[1].URL)
	require.NotNil(t, req.Defaults)
	assert.True(t, req.Defaults.FullPage)
	assert.Equal(t, 2, req.Output.Columns)

	body, err := json.Marshal(req)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "spacing")

	var oe *InvalidOptionError
	_, err = NewComposeRequest([]string{"a.com"}, "", false, ComposeOutput{})
	require.ErrorAs(t, err, &oe)

	many := make([]string, MaxComposeURLs+1)
	for i := range many {
		many[i] = "a.com"
	}
	_, err = NewComposeRequest(many, "", false, ComposeOutput{})
	require.ErrorAs(t, err, &oe)

	_, err = NewComposeRequest([]string{"a.com", "b.com"}, "", false, ComposeOutput{Quality: 101})
	require.ErrorAs(t, err, &oe)

	var fe *InvalidFormatError
	_, err = NewComposeRequest([]string{"a.com", "b.com"}, "", false, ComposeOutput{Format: FormatPDF})
	require.ErrorAs(t, err, &fe)
}

func TestValidateCron(t *testing.T) {
	for _, ok := range []string{"0 9 * * *", "*/15 * * * 1-5", "@daily", "@every 1h"} {
		assert.NoError(t, ValidateCron(ok), ok)
	}
	for _, bad := range []string{"", "daily", "0 9 * *", "61 * * * *"} {
		var oe *InvalidOptionError
		assert.ErrorAs(t, ValidateCron(bad), &oe, bad)
	}
}

func TestScheduleRetentionBounds(t *testing.T) {
	days := 0
	upd := UpdateScheduleRequest{RetentionDays: &days}
	assert.Error(t, upd.Validate())

	days = MaxRetentionDays
	assert.NoError(t, upd.Validate())

	create := CreateScheduleRequest{Name: "n", URL: "a.com", Schedule: "@hourly", RetentionDays: MinRetentionDays}
	require.NoError(t, create.Validate())
	assert.Equal(t, "https://a.com", create.URL)
}
