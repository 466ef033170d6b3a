package httpapi

import (
	"encoding/csv"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fnb-insights/internal/application/dataset"
)

// handleUploadDataset accepts a multipart upload: a "file" part with the CSV
// report and an optional "mapping" part with a field-to-column JSON object.
// Without a mapping the columns are guessed from the header.
func (s *Server) handleUploadDataset(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(s.maxUploadMB)<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file part required", "error_code": errCodeBadRequest})
		return
	}

	var mapping dataset.Mapping
	if raw := c.PostForm("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid mapping json", "error_code": errCodeBadRequest})
			return
		}
	} else {
		m, err := s.guessFromFile(fileHeader)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "error_code": errCodeBadRequest})
			return
		}
		mapping = m
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "cannot read file", "error_code": errCodeBadRequest})
		return
	}
	defer file.Close()

	ds, err := s.uploadUC.Execute(c.Request.Context(), dataset.UploadInput{
		Name:    fileHeader.Filename,
		Report:  file,
		Mapping: mapping,
	})
	if err != nil {
		s.log.WithError(err).Warn("dataset upload rejected")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "error_code": errCodeBadRequest})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"dataset": gin.H{
			"id":         ds.ID,
			"name":       ds.Name,
			"rows":       len(ds.Rows),
			"branches":   ds.Branches(),
			"created_at": ds.CreatedAt.Format(time.RFC3339),
		},
	})
}

func (s *Server) guessFromFile(fh *multipart.FileHeader) (dataset.Mapping, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	header, err := csv.NewReader(file).Read()
	if err != nil {
		return nil, err
	}
	return dataset.GuessMapping(header), nil
}

func (s *Server) handleListDatasets(c *gin.Context) {
	list, err := s.datasets.ListDatasets(c.Request.Context())
	if err != nil {
		s.log.WithError(err).Error("list datasets failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error", "error_code": errCodeInternal})
		return
	}

	type item struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
	}
	items := make([]item, 0, len(list))
	for _, ds := range list {
		items = append(items, item{
			ID:        ds.ID,
			Name:      ds.Name,
			CreatedAt: ds.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "datasets": items})
}

func (s *Server) handleBranches(c *gin.Context) {
	ds, ok := s.loadDataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "branches": ds.Branches()})
}

func (s *Server) loadDataset(c *gin.Context) (dataset.Dataset, bool) {
	ds, err := s.datasets.GetDataset(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "dataset not found", "error_code": errCodeNotFound})
		return dataset.Dataset{}, false
	}
	return ds, true
}
