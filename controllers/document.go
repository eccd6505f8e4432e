package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func uploadPath() string {
	path := os.Getenv("UPLOAD_PATH")
	if path == "" {
		path = "./uploads"
	}
	return path
}

var allowedExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
}

// UploadDocument stores a proposal or annotated file and returns its opaque
// stored name. The workflow engine only ever sees that name; bytes live on
// disk under UPLOAD_PATH.
func UploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
		return
	}
	if file.Size > 20*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds 20MB limit"})
		return
	}

	storedName := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(uploadPath(), storedName)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "File uploaded",
		"file_name":     storedName,
		"original_name": file.Filename,
	})
}

// DownloadDocument streams a stored file back by its opaque name
func DownloadDocument(c *gin.Context) {
	name := filepath.Base(c.Param("file_name")) // strip any path components
	full := filepath.Join(uploadPath(), name)
	if _, err := os.Stat(full); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.FileAttachment(full, name)
}
