package api

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/model"
	"github.com/sells-group/role-scout/internal/report"
)

type lookupRequest struct {
	Company string `json:"company"`
	Role    string `json:"role"`
}

// lookupResponse is a result with its presentation report attached.
type lookupResponse struct {
	model.LookupResult
	Report *report.Report `json:"report,omitempty"`
}

type batchRequest struct {
	Items []batchItem `json:"items"`
}

type batchItem struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Source      string `json:"source,omitempty"`
}

type batchResponse struct {
	Rows      []report.Row `json:"rows"`
	Total     int          `json:"total"`
	Resolved  int64        `json:"resolved"`
	Failed    int64        `json:"failed"`
	Skipped   int          `json:"skipped"`
	CSVToken  string       `json:"csv_token,omitempty"`
	XLSXToken string       `json:"xlsx_token,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	// A malformed body is treated like an empty one.
	_ = json.NewDecoder(r.Body).Decode(&req)

	lr := model.LookupRequest{Company: req.Company, Role: req.Role}.Normalize()
	if !lr.Valid() {
		writeJSON(w, http.StatusBadRequest,
			model.NewErrorResult(model.ErrorKindInput, model.MsgBadRequest, lr.Company, lr.Role, 0, 0))
		return
	}

	result := s.lookup.Run(r.Context(), lr.Company, lr.Role)
	rep := report.Build(result)
	writeJSON(w, http.StatusOK, lookupResponse{LookupResult: result, Report: &rep})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var result model.LookupResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	writeJSON(w, http.StatusOK, report.Build(result))
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	rows, err := readBatchRows(r)
	if err != nil {
		zap.L().Debug("api: invalid batch request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid batch input")
		return
	}
	if len(rows) == 0 {
		writeError(w, http.StatusBadRequest, "No rows to process")
		return
	}

	out, sum, err := s.batch.Rows(r.Context(), rows)
	if err != nil {
		zap.L().Warn("api: batch interrupted", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "Batch interrupted")
		return
	}

	resp := batchResponse{
		Rows:     out,
		Total:    sum.Total,
		Resolved: sum.Resolved,
		Failed:   sum.Failed,
		Skipped:  sum.Skipped,
	}
	if s.downloads != nil {
		resp.CSVToken, resp.XLSXToken = s.downloads.SaveRows(r.Context(), out)
	}
	writeJSON(w, http.StatusOK, resp)
}

// readBatchRows accepts either a JSON items list or a multipart upload of a
// CSV or XLSX sheet in the "file" field.
func readBatchRows(r *http.Request) ([]report.Row, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer f.Close() //nolint:errcheck

		if strings.EqualFold(filepath.Ext(hdr.Filename), ".xlsx") {
			data, err := io.ReadAll(f)
			if err != nil {
				return nil, err
			}
			return report.ReadXLSX(data)
		}
		return report.ReadCSV(f)
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	rows := make([]report.Row, 0, len(req.Items))
	for _, it := range req.Items {
		rows = append(rows, report.Row{
			Title:       strings.TrimSpace(it.Title),
			CompanyName: strings.TrimSpace(it.CompanyName),
			FirstName:   strings.TrimSpace(it.FirstName),
			LastName:    strings.TrimSpace(it.LastName),
			Source:      strings.TrimSpace(it.Source),
		})
	}
	return rows, nil
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if s.downloads == nil {
		writeError(w, http.StatusNotFound, "Download not found or expired")
		return
	}
	d, ok := s.downloads.Load(r.Context(), chi.URLParam(r, "token"))
	if !ok {
		writeError(w, http.StatusNotFound, "Download not found or expired")
		return
	}
	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+d.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.Data)
}
