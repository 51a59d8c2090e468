package api

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/cache"
	"github.com/sells-group/role-scout/internal/report"
)

const downloadPrefix = "download:"

// Download is a generated file kept for a limited time.
type Download struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	// Data is base64 encoded by encoding/json.
	Data []byte `json:"data"`
}

// Downloads stores generated files in the cache store under random tokens.
type Downloads struct {
	store cache.Store
	ttl   time.Duration
}

// NewDownloads creates a Downloads over store.
func NewDownloads(store cache.Store, ttl time.Duration) *Downloads {
	return &Downloads{store: store, ttl: ttl}
}

// Save stores d and returns its token, or "" if it could not be stored.
func (d *Downloads) Save(ctx context.Context, dl Download) string {
	raw, err := json.Marshal(dl)
	if err != nil {
		return ""
	}
	token := uuid.NewString()
	if err := d.store.SetWithTTL(ctx, downloadPrefix+token, string(raw), d.ttl); err != nil {
		zap.L().Warn("api: store download", zap.String("filename", dl.Filename), zap.Error(err))
		return ""
	}
	return token
}

// Load returns the download for token if it has not expired.
func (d *Downloads) Load(ctx context.Context, token string) (Download, bool) {
	if _, err := uuid.Parse(token); err != nil {
		return Download{}, false
	}
	raw, ok, err := d.store.Get(ctx, downloadPrefix+token)
	if err != nil || !ok {
		return Download{}, false
	}
	var dl Download
	if err := json.Unmarshal([]byte(raw), &dl); err != nil {
		return Download{}, false
	}
	return dl, true
}

// SaveRows renders rows as CSV and XLSX and stores both. A token is ""
// when its file could not be produced.
func (d *Downloads) SaveRows(ctx context.Context, rows []report.Row) (csvToken, xlsxToken string) {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rows); err == nil {
		csvToken = d.Save(ctx, Download{
			Filename:    "role_scout_batch.csv",
			ContentType: "text/csv; charset=utf-8",
			Data:        bytes.Clone(buf.Bytes()),
		})
	}

	buf.Reset()
	if err := report.WriteXLSX(&buf, rows); err == nil {
		xlsxToken = d.Save(ctx, Download{
			Filename:    "role_scout_batch.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        bytes.Clone(buf.Bytes()),
		})
	}
	return csvToken, xlsxToken
}
