// Command uploadclient posts an audio file to a running relay and prints
// the JSON response.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// extensionTypes maps file extensions to the MIME types the relay forwards unchanged
var extensionTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
}

func main() {
	var (
		serverURL   string
		filePath    string
		contentType string
		field       string
		timeout     time.Duration
	)

	flag.StringVar(&serverURL, "url", "http://localhost:5000/transcribe", "Relay transcription endpoint")
	flag.StringVar(&filePath, "file", "", "Audio file to upload (required)")
	flag.StringVar(&contentType, "type", "", "Part content type (default derived from file extension)")
	flag.StringVar(&field, "field", "audio", "Multipart field name")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if contentType == "" {
		contentType = detectContentType(filePath)
	}

	audioData, err := os.ReadFile(filePath)
	if err != nil {
		logger.Fatal("Failed to read audio file", zap.String("file", filePath), zap.Error(err))
	}

	logger.Info("Uploading audio",
		zap.String("url", serverURL),
		zap.String("file", filePath),
		zap.String("content_type", contentType),
		zap.Int("size", len(audioData)))

	status, body, err := upload(&http.Client{Timeout: timeout}, serverURL, field, filepath.Base(filePath), contentType, audioData)
	if err != nil {
		logger.Fatal("Upload failed", zap.Error(err))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(body)
	}
	fmt.Println(pretty.String())

	if status != http.StatusOK {
		logger.Error("Relay returned an error", zap.Int("status", status))
		os.Exit(1)
	}
}

func detectContentType(path string) string {
	ext := filepath.Ext(path)
	if contentType, ok := extensionTypes[ext]; ok {
		return contentType
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}

// upload sends the audio as a single multipart file part and returns the raw response
func upload(client *http.Client, serverURL, field, filename, contentType string, data []byte) (int, []byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return 0, nil, fmt.Errorf("failed to write audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, serverURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
