package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pnl-insights/internal/assistant"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        s.cfg.App.Name,
		"version":     s.cfg.App.Version,
		"environment": s.cfg.App.Environment,
		"message":     "P&L insights dashboard API",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	components := gin.H{
		"board": gin.H{"status": "healthy", "source": string(s.board.Source())},
	}
	healthy := true

	assistantStatus := s.assistant.Health(ctx)
	components["assistant"] = assistantStatus
	if assistantStatus.Status != "healthy" {
		healthy = false
	}

	if s.postgres != nil {
		if err := s.postgres.Ping(ctx); err != nil {
			components["postgres"] = gin.H{"status": "unhealthy", "message": err.Error()}
			healthy = false
		} else {
			components["postgres"] = gin.H{"status": "healthy"}
		}
	} else {
		components["postgres"] = gin.H{"status": "disabled"}
	}

	if s.redis != nil {
		if err := s.redis.Ping(ctx); err != nil {
			components["redis"] = gin.H{"status": "unhealthy", "message": err.Error()}
			healthy = false
		} else {
			components["redis"] = gin.H{"status": "healthy"}
		}
	} else {
		components["redis"] = gin.H{"status": "disabled"}
	}

	status := "healthy"
	if !healthy {
		// The dashboard still renders from the fallback catalog and
		// demo data, so degraded is not a 503.
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC(),
	})
}

// handleConfig reports non-secret runtime configuration for debugging.
func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app": gin.H{
			"name":        s.cfg.App.Name,
			"version":     s.cfg.App.Version,
			"environment": s.cfg.App.Environment,
		},
		"insights": gin.H{
			"source":            s.cfg.Insights.Source,
			"refreshIntervalMs": s.cfg.Insights.RefreshInterval,
		},
		"assistant": gin.H{
			"configured": s.cfg.Assistant.BaseURL != "",
			"spaceId":    s.cfg.Assistant.SpaceID,
			"cacheTtlMs": s.cfg.Assistant.CacheTTL,
		},
		"database": gin.H{
			"postgres": s.postgres != nil,
			"redis":    s.redis != nil,
		},
	})
}

// ==========================================
// INSIGHT BOARD
// ==========================================

func (s *Server) handleInsights(c *gin.Context) {
	c.JSON(http.StatusOK, s.board.Snapshot())
}

func (s *Server) handleExecuteAction(c *gin.Context) {
	cardID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  gin.H{"message": "card id must be an integer"},
		})
		return
	}
	actionKey := c.Param("key")

	op, created, execErr := s.board.ExecuteAction(cardID, actionKey)
	if execErr != nil {
		s.errs.HandleRequestError(c, execErr)
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{
			"status":           "success",
			"alreadyCompleted": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"operation": op,
	})
}

func (s *Server) handleRationale(c *gin.Context) {
	cardID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  gin.H{"message": "card id must be an integer"},
		})
		return
	}
	actionKey := c.Query("action")

	rat, rErr := s.board.Rationale(cardID, actionKey)
	if rErr != nil {
		s.errs.HandleRequestError(c, rErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"rationale": rat,
	})
}

func (s *Server) handleOperations(c *gin.Context) {
	ops := s.board.Operations()
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"operations": ops,
		"message":    fmt.Sprintf("Retrieved %d operations", len(ops)),
	})
}

// ==========================================
// QUERY ASSISTANT
// ==========================================

func (s *Server) handleAssistantAsk(c *gin.Context) {
	var query assistant.Query
	if err := c.ShouldBindJSON(&query); err != nil || query.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  gin.H{"message": "question is required"},
		})
		return
	}

	answer, err := s.assistant.Ask(c.Request.Context(), query)
	if err != nil {
		s.errs.HandleRequestError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// ==========================================
// ANALYTICS DATA
// ==========================================

func (s *Server) handleKPIs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"kpis":    s.analytics.KPIs(c.Request.Context()),
		"message": "KPIs calculated successfully",
	})
}

func (s *Server) handleAlerts(c *gin.Context) {
	alerts := s.analytics.Alerts()
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"alerts":  alerts,
		"message": fmt.Sprintf("Retrieved %d operational alerts", len(alerts)),
	})
}

func (s *Server) handleMonthlySummary(c *gin.Context) {
	data, err := s.analytics.MonthlyTrends(c.Request.Context())
	if err != nil {
		s.errs.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"data":    data,
		"message": fmt.Sprintf("Retrieved %d monthly records", len(data)),
	})
}

func (s *Server) handleStoreSummary(c *gin.Context) {
	data, err := s.analytics.StoreSummaries(c.Request.Context())
	if err != nil {
		s.errs.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"data":    data,
		"message": fmt.Sprintf("Retrieved %d store records", len(data)),
	})
}

type sqlQueryRequest struct {
	Query string `json:"query"`
}

// handleDBQuery runs an ad-hoc statement against the warehouse and returns
// the rows in the generic columns/rows/shape format.
func (s *Server) handleDBQuery(c *gin.Context) {
	var req sqlQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  gin.H{"message": "query is required"},
		})
		return
	}

	result, err := s.analytics.Query(c.Request.Context(), req.Query)
	if err != nil {
		s.errs.HandleRequestError(c, err)
		return
	}

	message := fmt.Sprintf("Query executed successfully. Returned %d rows.", len(result.Rows))
	if len(result.Rows) == 0 {
		message = "Query executed successfully but returned no results"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": message,
		"data":    result,
	})
}

// handleDataUpload accepts an external data file and acknowledges it.
// Ingestion into the warehouse runs offline; this endpoint only validates the
// file and reports what was received.
func (s *Server) handleDataUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  gin.H{"message": "file is required"},
		})
		return
	}

	name := strings.ToLower(file.Filename)
	if !strings.HasSuffix(name, ".csv") && !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xls") {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  gin.H{"message": "only CSV and Excel files are supported"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("File '%s' uploaded successfully", file.Filename),
		"file_info": gin.H{
			"filename":     file.Filename,
			"size_bytes":   file.Size,
			"content_type": file.Header.Get("Content-Type"),
		},
	})
}

func (s *Server) handleTopStores(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"status": "error",
				"error":  gin.H{"message": "limit must be a non-negative integer"},
			})
			return
		}
		limit = parsed
	}

	data, err := s.analytics.TopStores(c.Request.Context(), limit)
	if err != nil {
		s.errs.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"data":    data,
		"message": fmt.Sprintf("Retrieved top %d performing stores", len(data)),
	})
}
