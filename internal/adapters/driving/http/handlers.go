package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks queue and lock backends)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "Backend unavailable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.backends != nil {
		if err := s.backends.Healthy(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Search endpoints

// datasetSummary is the compact listing returned by keyword search
// @Description Dataset title and reference pair
type datasetSummary struct {
	Title     string `json:"title" example:"World Bank Finance Indicators"`
	Reference string `json:"reference" example:"worldbank/finance-indicators"`
}

// searchListResponse wraps a keyword search result
// @Description Keyword search response
type searchListResponse struct {
	Datasets []datasetSummary `json:"datasets"`
	Count    int              `json:"count" example:"42"`
}

// handleSearchByKeyword godoc
// @Summary      Search datasets by keyword
// @Description  Run a keyword search with variation expansion and return ranked title/reference pairs
// @Tags         Datasets
// @Produce      json
// @Param        keyword  query     string  true   "Search keyword"
// @Param        max      query     int     false  "Maximum number of results"
// @Success      200      {object}  searchListResponse
// @Failure      400      {object}  ErrorResponse  "Keyword cannot be empty"
// @Failure      500      {object}  ErrorResponse  "Search failed"
// @Router       /datasets/search [get]
func (s *Server) handleSearchByKeyword(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "keyword cannot be empty")
		return
	}

	max := 0
	if raw := r.URL.Query().Get("max"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max must be an integer")
			return
		}
		max = parsed
	}

	req := domain.SearchRequest{
		Keywords:   []string{keyword},
		MaxResults: max,
	}

	result, err := s.searchService.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "keyword cannot be empty")
			return
		}
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	datasets := make([]datasetSummary, len(result.Records))
	for i, rec := range result.Records {
		datasets[i] = datasetSummary{Title: rec.Title, Reference: rec.Reference}
	}

	writeJSON(w, http.StatusOK, searchListResponse{
		Datasets: datasets,
		Count:    len(datasets),
	})
}

// handleSearch godoc
// @Summary      Search datasets
// @Description  Run a combined multi-dimension search. Keywords, tags, file types and column names are expanded, fetched, scored, deduplicated and ranked into one result set.
// @Tags         Datasets
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SearchRequest  true  "Search dimensions"
// @Success      200      {object}  domain.SearchResult
// @Failure      400      {object}  ErrorResponse  "Invalid request or no search dimension"
// @Failure      500      {object}  ErrorResponse  "Search failed"
// @Router       /datasets/search [post]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req domain.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.searchService.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "at least one search dimension is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// columnsRequest carries table schemas for column-derived search
// @Description Column-derived search request
type columnsRequest struct {
	Schemas    []domain.TableSchema `json:"schemas"`
	MaxResults int                  `json:"max_results,omitempty" example:"50"`
}

// handleSearchByColumns godoc
// @Summary      Search datasets by column schemas
// @Description  Derive search intents from the schemas' non-identifier columns and return ranked results
// @Tags         Datasets
// @Accept       json
// @Produce      json
// @Param        request  body      columnsRequest  true  "Table schemas"
// @Success      200      {object}  domain.SearchResult
// @Failure      400      {object}  ErrorResponse  "Invalid request or no schemas"
// @Failure      500      {object}  ErrorResponse  "Search failed"
// @Router       /datasets/columns [post]
func (s *Server) handleSearchByColumns(w http.ResponseWriter, r *http.Request) {
	var req columnsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Schemas) == 0 {
		writeError(w, http.StatusBadRequest, "at least one schema is required")
		return
	}

	result, err := s.searchService.SearchByColumns(r.Context(), req.Schemas, req.MaxResults)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "schemas contain no searchable columns")
			return
		}
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Export and download endpoints

// exportRequest carries records to be exported as CSV
// @Description CSV export request
type exportRequest struct {
	Records []*domain.DatasetRecord `json:"records"`
}

// handleExport godoc
// @Summary      Export dataset records as CSV
// @Description  Write the given records as a CSV attachment
// @Tags         Datasets
// @Accept       json
// @Produce      text/csv
// @Param        request  body  exportRequest  true  "Records to export"
// @Success      200  {string}  string  "CSV content"
// @Failure      400  {object}  ErrorResponse  "Invalid request or no records"
// @Failure      500  {object}  ErrorResponse  "Export failed"
// @Router       /datasets/export [post]
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "no records to export")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="datasets.csv"`)
	if err := s.exporter.WriteCSV(w, req.Records); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("csv export failed", "error", err)
	}
}

// downloadRequest selects datasets by their descriptions
// @Description Dataset download request
type downloadRequest struct {
	Descriptions []string `json:"descriptions"`
}

// downloadResponse acknowledges a download request
// @Description Dataset download acknowledgement
type downloadResponse struct {
	Message string `json:"message" example:"download initiated for 3 dataset(s)"`
	Count   int    `json:"count" example:"3"`
}

// handleDownload godoc
// @Summary      Download selected datasets
// @Description  Acknowledge a download request for the selected datasets. Metadata selection only; no dataset content is transferred.
// @Tags         Datasets
// @Accept       json
// @Produce      json
// @Param        request  body      downloadRequest  true  "Selected dataset descriptions"
// @Success      200      {object}  downloadResponse
// @Failure      400      {object}  ErrorResponse  "No datasets selected"
// @Router       /datasets/download [post]
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Descriptions) == 0 {
		writeError(w, http.StatusBadRequest, "no datasets selected for download")
		return
	}

	writeJSON(w, http.StatusOK, downloadResponse{
		Message: fmt.Sprintf("download initiated for %d dataset(s)", len(req.Descriptions)),
		Count:   len(req.Descriptions),
	})
}

// Collection endpoints

// collectionRequest queues a comprehensive domain collection
// @Description Bulk collection request
type collectionRequest struct {
	Domain     string `json:"domain" example:"finance"`
	MaxTotal   int    `json:"max_total,omitempty" example:"500"`
	OutputPath string `json:"output_path,omitempty" example:"finance_datasets.csv"`
}

// handleEnqueueCollection godoc
// @Summary      Queue a comprehensive collection
// @Description  Queue a bulk collection run for a domain. Workers run every search dimension, rank the combined results and write a CSV snapshot.
// @Tags         Collections
// @Accept       json
// @Produce      json
// @Param        request  body      collectionRequest  true  "Collection parameters"
// @Success      202      {object}  domain.CollectionTask
// @Failure      400      {object}  ErrorResponse  "Invalid request or missing domain"
// @Failure      503      {object}  ErrorResponse  "Collection queue unavailable"
// @Failure      500      {object}  ErrorResponse  "Enqueue failed"
// @Router       /collections [post]
func (s *Server) handleEnqueueCollection(w http.ResponseWriter, r *http.Request) {
	if s.collectionService == nil || s.backends == nil || !s.backends.Config().CanEnqueueCollections() {
		writeError(w, http.StatusServiceUnavailable, "collection queue unavailable")
		return
	}

	var req collectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Domain == "" {
		writeError(w, http.StatusBadRequest, "domain is required")
		return
	}

	task, err := s.collectionService.Enqueue(r.Context(), req.Domain, req.MaxTotal, req.OutputPath)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid collection request")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to queue collection")
		return
	}

	writeJSON(w, http.StatusAccepted, task)
}

// handleCollectionStatus godoc
// @Summary      Get collection task status
// @Description  Retrieve a queued or finished collection task by ID
// @Tags         Collections
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  domain.CollectionTask
// @Failure      400  {object}  ErrorResponse  "Missing task ID"
// @Failure      404  {object}  ErrorResponse  "Task not found"
// @Failure      503  {object}  ErrorResponse  "Collection queue unavailable"
// @Router       /collections/{id} [get]
func (s *Server) handleCollectionStatus(w http.ResponseWriter, r *http.Request) {
	if s.collectionService == nil {
		writeError(w, http.StatusServiceUnavailable, "collection queue unavailable")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing task id")
		return
	}

	task, err := s.collectionService.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
