package api

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/gofiber/fiber/v2"
)

const downloadName = "nfe.xml"

// FileHandler owns the staging file that holds the last edited document
// until it is downloaded. Writes are not coordinated between requests.
type FileHandler struct {
	StagingFile string
}

func NewFileHandler(stagingFile string) *FileHandler {
	return &FileHandler{
		StagingFile: stagingFile,
	}
}

func (h *FileHandler) Stage(document string) error {
	return os.WriteFile(h.StagingFile, []byte(document), 0644)
}

func (h *FileHandler) HandleDownload(c *fiber.Ctx) error {
	if _, err := os.Stat(h.StagingFile); errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound(downloadName, "staged document")
	} else if err != nil {
		return err
	}
	return c.Download(h.StagingFile, downloadName)
}

// readFormFile returns the contents of the multipart file field, or
// ErrNoFile when the field is absent or has no filename.
func readFormFile(c *fiber.Ctx, field string) (string, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil || fileHeader.Filename == "" {
		return "", "", ErrNoFile()
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}
	return string(data), fileHeader.Filename, nil
}
