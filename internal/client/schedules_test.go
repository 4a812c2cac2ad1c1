package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/shotctl/internal/domain"
)

func TestScheduleRoutes(t *testing.T) {
	var (
		created domain.CreateScheduleRequest
		patch   map[string]interface{}
		deleted string
		limit   string
		actions []string
	)
	cli, _ := newTestServer(t, func(r *gin.Engine) {
		r.GET("/v1/schedules", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"schedules": []gin.H{{"id": "s1", "name": "home", "status": "ACTIVE"}}})
		})
		r.POST("/v1/schedules", func(c *gin.Context) {
			if err := c.ShouldBindJSON(&created); err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			c.JSON(http.StatusCreated, gin.H{"id": "s2", "name": created.Name, "schedule": created.Schedule, "status": "ACTIVE"})
		})
		r.PATCH("/v1/schedules/:id", func(c *gin.Context) {
			if err := c.ShouldBindJSON(&patch); err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "name": patch["name"]})
		})
		r.DELETE("/v1/schedules/:id", func(c *gin.Context) {
			deleted = c.Param("id")
			c.Status(http.StatusNoContent)
		})
		for _, action := range []string{"pause", "resume", "trigger"} {
			action := action
			r.POST("/v1/schedules/:id/"+action, func(c *gin.Context) {
				actions = append(actions, action)
				c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "name": "home"})
			})
		}
		r.GET("/v1/schedules/:id/history", func(c *gin.Context) {
			limit = c.Query("limit")
			c.JSON(http.StatusOK, gin.H{"totalExecutions": 7, "executions": []gin.H{{"executedAt": "2026-01-01T09:00:00Z", "status": "COMPLETED"}}})
		})
	})
	ctx := context.Background()

	list, err := cli.ListSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "home", list[0].Name)

	s, err := cli.CreateSchedule(ctx, domain.CreateScheduleRequest{Name: "daily", URL: "https://a.com", Schedule: "0 9 * * *"})
	require.NoError(t, err)
	assert.Equal(t, "s2", s.ID)
	assert.Equal(t, "0 9 * * *", created.Schedule)

	name := "renamed"
	s, err = cli.UpdateSchedule(ctx, "s2", domain.UpdateScheduleRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", s.Name)
	assert.Equal(t, map[string]interface{}{"name": "renamed"}, patch)

	for _, fn := range []func(context.Context, string) (*domain.Schedule, error){cli.PauseSchedule, cli.ResumeSchedule, cli.TriggerSchedule} {
		_, err := fn(ctx, "s2")
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"pause", "resume", "trigger"}, actions)

	h, err := cli.GetScheduleHistory(ctx, "s2", 3)
	require.NoError(t, err)
	assert.Equal(t, "3", limit)
	assert.Equal(t, 7, h.TotalExecutions)
	require.Len(t, h.Executions, 1)

	require.NoError(t, cli.DeleteSchedule(ctx, "s2"))
	assert.Equal(t, "s2", deleted)
}

func TestGetScheduleNotFound(t *testing.T) {
	cli, _ := newTestServer(t, func(r *gin.Engine) {
		r.GET("/v1/schedules/:id", func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Schedule not found"})
		})
	})
	_, err := cli.GetSchedule(context.Background(), "missing")
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestComposeAndDownload(t *testing.T) {
	var got domain.ComposeRequest
	var downloadKey string
	gin.SetMode(gin.TestMode)
	cdn := gin.New()
	cdn.GET("/c.png", func(c *gin.Context) {
		downloadKey = c.GetHeader(apiKeyHeader)
		c.Data(http.StatusOK, "image/png", []byte("png-bytes"))
	})
	srv := httptest.NewServer(cdn)
	defer srv.Close()
	cdnSrv := srv.URL

	cli, _ := newTestServer(t, func(r *gin.Engine) {
		r.POST("/v1/screenshots/compose", func(c *gin.Context) {
			if err := c.ShouldBindJSON(&got); err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": cdnSrv + "/c.png", "width": 1600, "height": 900, "renderTimeMs": 2100})
		})
	})
	ctx := context.Background()

	req, err := domain.NewComposeRequest([]string{"a.com", "b.com"}, "", false, domain.ComposeOutput{Layout: domain.LayoutVertical})
	require.NoError(t, err)
	res, err := cli.Compose(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1600, res.Width)
	assert.Equal(t, 2100, res.RenderTimeMs)
	require.Len(t, got.Captures, 2)
	assert.Equal(t, domain.LayoutVertical, got.Output.Layout)

	data, err := cli.Download(ctx, res.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Empty(t, downloadKey)

	_, err = cli.Download(ctx, cdnSrv+"/missing.png")
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestUsageAndQuota(t *testing.T) {
	cli, _ := newTestServer(t, func(r *gin.Engine) {
		r.GET("/v1/usage", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"tier":          "pro",
				"currentPeriod": gin.H{"periodStart": "2026-10-01", "periodEnd": "2026-10-31", "screenshotsCount": 1200, "bandwidthFormatted": "1.2 GB"},
				"quota": gin.H{
					"screenshots": gin.H{"used": 1200, "limit": 5000, "remaining": 3800, "percentUsed": 24},
					"bandwidth":   gin.H{"usedBytes": 1200000000, "limitBytes": 10000000000, "usedFormatted": "1.2 GB", "limitFormatted": "10 GB", "percentUsed": 12},
				},
				"history": []gin.H{{"screenshotsCount": 10}, {"screenshotsCount": 30}},
				"totals":  gin.H{"screenshotsCount": 98765, "bandwidthFormatted": "40 GB"},
			})
		})
		r.GET("/v1/usage/quota", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"tier": "free", "screenshots": gin.H{"used": 90, "limit": 100, "remaining": 10}, "periodEnds": "2026-10-31"})
		})
	})
	ctx := context.Background()

	u, err := cli.GetUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pro", u.Tier)
	assert.Equal(t, 1200, u.CurrentPeriod.ScreenshotsCount)
	require.NotNil(t, u.Quota)
	assert.Equal(t, int64(10000000000), u.Quota.Bandwidth.LimitBytes)
	assert.Len(t, u.History, 2)
	assert.Equal(t, int64(98765), u.Totals.ScreenshotsCount)

	q, err := cli.GetQuota(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, q.Screenshots.Remaining)
	assert.Equal(t, "2026-10-31", q.PeriodEnds)
}
