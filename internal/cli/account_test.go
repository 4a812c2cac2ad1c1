package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmy/shotctl/internal/domain"
)

func TestComposeSavesDownloadedResult(t *testing.T) {
	img := pngBody(t, 8, 4)
	gin.SetMode(gin.TestMode)
	cdn := gin.New()
	cdn.GET("/compose.png", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/png", img)
	})
	cdnSrv := httptest.NewServer(cdn)
	t.Cleanup(cdnSrv.Close)

	var got domain.ComposeRequest
	h := newHarness(t, func(r *gin.Engine) {
		r.POST("/v1/screenshots/compose", func(c *gin.Context) {
			if err := c.ShouldBindJSON(&got); err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": cdnSrv.URL + "/compose.png", "width": 8, "height": 4, "fileSize": 2048, "renderTimeMs": 1500})
		})
	})

	out, _, err := h.run("compose", "a.com", "b.com", "--layout", "grid", "--columns", "2", "--spacing", "0", "-o", h.path("grid.png"))
	require.NoError(t, err)

	require.Len(t, got.Captures, 2)
	assert.Equal(t, "https://a.com", got.Captures[0].URL)
	require.NotNil(t, got.Output)
	assert.Equal(t, domain.LayoutGrid, got.Output.Layout)
	assert.Equal(t, 2, got.Output.Columns)
	require.NotNil(t, got.Output.Spacing)
	assert.Zero(t, *got.Output.Spacing)
	assert.Nil(t, got.Output.Padding)

	data, err := os.ReadFile(h.path("grid.png"))
	require.NoError(t, err)
	assert.Equal(t, img, data)
	assert.Contains(t, out, "Composition complete!")
	assert.Contains(t, out, "Size: 8x4")
	assert.Contains(t, out, "Render time: 1.5s")
	assert.Contains(t, out, "Saved to: "+h.path("grid.png"))
}

func TestComposeRejectsInvalidInput(t *testing.T) {
	h := newHarness(t, nil)

	_, _, err := h.run("compose", "a.com", "b.com", "--layout", "spiral")
	var oe *domain.InvalidOptionError
	require.ErrorAs(t, err, &oe)

	_, _, err = h.run("compose", "a.com", "b.com", "--format", "pdf")
	var fe *domain.InvalidFormatError
	require.ErrorAs(t, err, &fe)

	_, _, err = h.run("compose", "a.com")
	require.Error(t, err)
	assert.Zero(t, h.calls.Load())
}

func TestScheduleCommands(t *testing.T) {
	var created domain.CreateScheduleRequest
	var historyLimit string
	h := newHarness(t, func(r *gin.Engine) {
		r.POST("/v1/schedules", func(c *gin.Context) {
			if err := c.ShouldBindJSON(&created); err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			c.JSON(http.StatusCreated, gin.H{"id": "sch_1", "name": created.Name, "url": created.URL, "schedule": created.Schedule,
				"status": "ACTIVE", "nextExecutionAt": "2026-10-16T09:00:00Z"})
		})
		r.GET("/v1/schedules", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"schedules": []gin.H{{
				"id": "sch_1", "name": "homepage", "url": "https://example.com", "schedule": "0 9 * * *",
				"status": "PAUSED", "executionCount": 5, "successCount": 4, "failureCount": 1,
			}}})
		})
		r.POST("/v1/schedules/:id/pause", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "name": "homepage", "status": "PAUSED"})
		})
		r.GET("/v1/schedules/:id/history", func(c *gin.Context) {
			historyLimit = c.Query("limit")
			c.JSON(http.StatusOK, gin.H{"totalExecutions": 2, "executions": []gin.H{
				{"executedAt": "2026-10-14T09:00:00Z", "status": "COMPLETED", "renderTimeMs": 1200},
				{"executedAt": "2026-10-13T09:00:00Z", "status": "FAILED", "errorMessage": "Navigation timeout"},
			}})
		})
	})

	_, _, err := h.run("schedule", "create", "example.com", "--name", "homepage", "--cron", "every morning")
	var oe *domain.InvalidOptionError
	require.ErrorAs(t, err, &oe)
	assert.Zero(t, h.calls.Load())

	out, _, err := h.run("schedule", "create", "example.com", "--name", "homepage", "--cron", "0 9 * * *", "--retention-days", "30")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", created.URL)
	assert.Equal(t, 30, created.RetentionDays)
	assert.Contains(t, out, "Schedule created!")
	assert.Contains(t, out, "Next execution: 2026-10-16T09:00:00Z")

	out, _, err = h.run("schedule", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "homepage (sch_1)")
	assert.Contains(t, out, "Schedule: 0 9 * * * (UTC)")
	assert.Contains(t, out, "Executions: 5 total (4 success, 1 failed)")

	out, _, err = h.run("schedule", "pause", "sch_1")
	require.NoError(t, err)
	assert.Contains(t, out, "Schedule homepage paused")

	out, _, err = h.run("schedule", "history", "sch_1")
	require.NoError(t, err)
	assert.Equal(t, "10", historyLimit)
	assert.Contains(t, out, "2 total")
	assert.Contains(t, out, "Error: Navigation timeout")
	assert.Contains(t, out, "Render time: 1.2s")
}

func TestScheduleUpdateNeedsAChange(t *testing.T) {
	h := newHarness(t, nil)
	_, _, err := h.run("schedule", "update", "sch_1")
	require.Error(t, err)
	assert.Zero(t, h.calls.Load())
}

func TestUsageViews(t *testing.T) {
	h := newHarness(t, func(r *gin.Engine) {
		r.GET("/v1/usage", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"tier":          "pro",
				"currentPeriod": gin.H{"periodStart": "2026-10-01", "periodEnd": "2026-10-31", "screenshotsCount": 4600, "bandwidthFormatted": "2.1 GB"},
				"quota": gin.H{
					"screenshots": gin.H{"used": 4600, "limit": 5000, "remaining": 400, "percentUsed": 92},
					"bandwidth":   gin.H{"usedBytes": 1, "limitBytes": 4, "usedFormatted": "2.1 GB", "limitFormatted": "8 GB", "percentUsed": 25},
				},
				"history": []gin.H{{"screenshotsCount": 0}, {"screenshotsCount": 8}},
				"totals":  gin.H{"screenshotsCount": 1234567, "bandwidthFormatted": "40 GB"},
			})
		})
		r.GET("/v1/usage/quota", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"tier": "free", "screenshots": gin.H{"used": 10, "limit": 100, "remaining": 90}, "periodEnds": "2026-10-31"})
		})
	})

	out, _, err := h.run("usage")
	require.NoError(t, err)
	assert.Contains(t, out, "API Usage Summary")
	assert.Contains(t, out, "4,600/5,000 (92%)")
	assert.Contains(t, out, "2.1 GB / 8 GB (25%)")
	assert.Contains(t, out, " █")
	assert.Contains(t, out, "1,234,567")

	out, _, err = h.run("usage", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "4,600 / 5,000 (92% used)")

	out, _, err = h.run("usage", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"tier": "pro"`)

	out, _, err = h.run("usage", "--quota-only")
	require.NoError(t, err)
	assert.Contains(t, out, "Quota Status")
	assert.Contains(t, out, "10/100 (10%)")
	assert.Contains(t, out, "Period ends: 2026-10-31")

	_, _, err = h.run("usage", "--format", "pie")
	var oe *domain.InvalidOptionError
	require.ErrorAs(t, err, &oe)
}

func TestGalleryFromDirectory(t *testing.T) {
	h := newHarness(t, nil)
	dir := h.path("shots")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	now := time.Now()
	for i, name := range []string{"older.png", "newer.png"} {
		path := dir + "/" + name
		require.NoError(t, os.WriteFile(path, pngBody(t, 4, 4), 0o644))
		at := now.Add(time.Duration(i-2) * time.Hour)
		require.NoError(t, os.Chtimes(path, at, at))
	}
	require.NoError(t, os.WriteFile(dir+"/notes.txt", []byte("x"), 0o644))

	out, _, err := h.run("gallery", "--dir", dir, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "newer.png")
	assert.NotContains(t, out, "older.png")
	assert.Contains(t, out, "Showing 1 of 2 images")
	assert.Zero(t, h.calls.Load())

	_, _, err = h.run("gallery", "--dir", h.path("missing"))
	var re *domain.ReadError
	require.ErrorAs(t, err, &re)

	_, _, err = h.run("gallery", "--dir", dir, "--size", "huge")
	var oe *domain.InvalidOptionError
	require.ErrorAs(t, err, &oe)
}

func TestGalleryFromRecentJobs(t *testing.T) {
	h := newHarness(t, func(r *gin.Engine) {
		r.GET("/v1/screenshots/jobs", func(c *gin.Context) {
			c.JSON(http.StatusOK, []gin.H{
				{"id": "j1", "status": "completed", "url": "https://example.com/a/very/long/path/that/goes/on/and/on/forever", "resultUrl": "https://cdn/j1"},
				{"id": "j2", "status": "failed", "url": "https://b.com"},
				{"id": "j3", "status": "completed", "resultUrl": "https://cdn/j3"},
			})
		})
		r.GET("/v1/screenshots/jobs/:id/result", func(c *gin.Context) {
			if c.Param("id") == "j3" {
				c.JSON(http.StatusGone, gin.H{"message": "expired"})
				return
			}
			c.Data(http.StatusOK, "image/png", pngBody(t, 4, 4))
		})
	})

	out, errOut, err := h.run("gallery")
	require.NoError(t, err)
	assert.Contains(t, out, "https://example.com/a/very/long/path/that/goes/...")
	assert.NotContains(t, out, "https://b.com")
	assert.Contains(t, errOut, "Failed to load j3")
	assert.Contains(t, out, "Showing 2 screenshots")
}
