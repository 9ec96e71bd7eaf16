package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voxscribe/transcribe-relay/domain/entities"
	"github.com/voxscribe/transcribe-relay/internal/metrics"
	"github.com/voxscribe/transcribe-relay/usecase"
)

const (
	serviceName    = "transcribe-relay"
	audioFieldName = "audio"
	rootMessage    = "Backend is running ✅"
)

// Transcriber runs the relay pipeline for one upload
type Transcriber interface {
	Transcribe(ctx context.Context, upload *entities.Upload) (*usecase.Result, error)
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, transcriber Transcriber, m *metrics.Metrics, logger *zap.Logger) {
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, rootMessage)
	})

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{
			Status:  "ok",
			Service: serviceName,
		})
	})

	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	e.POST("/transcribe", func(c echo.Context) error {
		return transcribe(c, transcriber, logger)
	})
}

func transcribe(c echo.Context, transcriber Transcriber, logger *zap.Logger) error {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)

	upload, err := readUpload(c)
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		// Body limit exceeded while the form was being parsed
		return httpErr
	}
	if err != nil {
		logger.Error("Failed to read audio upload",
			zap.String("request_id", requestID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: usecase.MessageProcessingFailed})
	}

	result, err := transcriber.Transcribe(c.Request().Context(), upload)
	if err != nil {
		var relayErr *usecase.RelayError
		if !errors.As(err, &relayErr) {
			relayErr = &usecase.RelayError{
				Status:  http.StatusInternalServerError,
				Message: usecase.MessageProcessingFailed,
				Err:     err,
			}
		}

		if relayErr.Status < http.StatusInternalServerError {
			logger.Info("Transcription request rejected",
				zap.String("request_id", requestID),
				zap.String("reason", relayErr.Message))
		}
		return c.JSON(relayErr.Status, ErrorResponse{Error: relayErr.Message})
	}

	return c.JSON(http.StatusOK, TranscribeResponse{Transcript: result.Transcript})
}

// readUpload reads the audio field into memory. A request without the
// field, or whose body is not a readable multipart form, yields a nil upload
// and no error. Framework errors such as the body limit are returned as is.
func readUpload(c echo.Context) (*entities.Upload, error) {
	header, err := c.FormFile(audioFieldName)
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return nil, httpErr
		}
		return nil, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &entities.Upload{
		Data:     data,
		MimeType: header.Header.Get(echo.HeaderContentType),
		Filename: header.Filename,
		Size:     header.Size,
	}, nil
}
