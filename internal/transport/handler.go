package transport

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-alpha-matte/internal/config"
	apperrors "go-alpha-matte/internal/errors"
	"go-alpha-matte/internal/logger"
	"go-alpha-matte/internal/service"
	"go-alpha-matte/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewHandler wires the extraction routes onto a gin engine.
func NewHandler(svc service.ExtractionService, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.POST("/extract", extractMatte(svc, cfg))

	return r
}

func extractMatte(svc service.ExtractionService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing matte extraction request")

		var req models.ExtractionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		for _, ref := range []string{req.WhiteURL, req.BlackURL} {
			if err := svc.ValidateRef(ref); err != nil {
				logger.WithError(err).WithFields(logrus.Fields{
					"ref": ref,
					"ip":  c.ClientIP(),
				}).Error("Invalid capture reference")
				respondError(c, apperrors.GetStatusCode(err), "invalid capture reference", err)
				return
			}
		}

		resp, err := svc.ExtractMatte(ctx, req)
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"white_ref": req.WhiteURL,
				"black_ref": req.BlackURL,
				"ip":        c.ClientIP(),
			}).Error("Matte extraction failed")
			respondError(c, determineStatusCode(err), "matte extraction failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"white_ref":          req.WhiteURL,
			"black_ref":          req.BlackURL,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
			"width":              resp.Width,
			"height":             resp.Height,
			"coverage":           resp.Stats.Coverage,
		}).Info("Matte extraction completed successfully")

		if req.Format == "json" {
			resp.ImageBase64 = base64.StdEncoding.EncodeToString(resp.PNG)
			c.JSON(http.StatusOK, resp)
			return
		}
		c.Data(http.StatusOK, "image/png", resp.PNG)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
