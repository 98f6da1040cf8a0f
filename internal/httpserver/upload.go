package httpserver

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"customer-meetings/internal/importer"
)

// uploadCustomers handles a bulk customer file. The whole file is decoded
// into records up front; per-record failures are reported in the summary
// and the response is 200 even when every record failed. Only an
// undecodable file rejects the batch.
func uploadCustomers(imp *importer.Importer, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, src, ok := decodeUpload(c, maxBytes)
		if !ok {
			return
		}
		summary := imp.ImportCustomers(c.Request.Context(), records, src)
		c.JSON(http.StatusOK, gin.H{
			"message":      fmt.Sprintf("Processed %d customers successfully with %d errors", summary.SuccessCount, summary.ErrorCount),
			"successCount": summary.SuccessCount,
			"errorCount":   summary.ErrorCount,
			"results":      summary.Results,
			"errors":       summary.Errors,
		})
	}
}

// uploadMeetings handles a bulk meeting file with the same batch semantics.
func uploadMeetings(imp *importer.Importer, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, src, ok := decodeUpload(c, maxBytes)
		if !ok {
			return
		}
		summary := imp.ImportMeetings(c.Request.Context(), records, src)
		c.JSON(http.StatusOK, gin.H{
			"message":      fmt.Sprintf("Processed %d meetings successfully with %d errors", summary.SuccessCount, summary.ErrorCount),
			"successCount": summary.SuccessCount,
			"errorCount":   summary.ErrorCount,
			"results":      summary.Results,
			"errors":       summary.Errors,
		})
	}
}

func decodeUpload(c *gin.Context, maxBytes int64) ([]importer.Record, importer.Source, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return nil, "", false
	}
	if maxBytes > 0 && file.Size > maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("file exceeds the %d byte limit", maxBytes)})
		return nil, "", false
	}

	src, ok := uploadSource(file)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Only CSV and JSON files are allowed"})
		return nil, "", false
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error processing upload"})
		return nil, "", false
	}
	defer f.Close()

	var records []importer.Record
	if src == importer.SourceJSON {
		records, err = importer.DecodeJSON(f)
	} else {
		records, err = importer.DecodeCSV(f)
	}
	if err != nil {
		if errors.Is(err, importer.ErrMalformedInput) {
			label := "Invalid CSV"
			if src == importer.SourceJSON {
				label = "Invalid JSON"
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": label + ": " + err.Error()})
			return nil, "", false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error processing upload"})
		return nil, "", false
	}
	return records, src, true
}

func uploadSource(file *multipart.FileHeader) (importer.Source, bool) {
	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	ext := strings.ToLower(filepath.Ext(file.Filename))

	switch {
	case strings.Contains(contentType, "json") || ext == ".json":
		return importer.SourceJSON, true
	case strings.Contains(contentType, "csv"),
		contentType == "application/vnd.ms-excel",
		ext == ".csv":
		return importer.SourceCSV, true
	default:
		return "", false
	}
}
