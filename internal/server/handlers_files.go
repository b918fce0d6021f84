package server

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"max.ks1230/fintrack/internal/logger"
	"max.ks1230/fintrack/internal/model/customerr"
)

type importResponse struct {
	Imported int `json:"imported"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, customerr.ErrInvalidToken)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, &customerr.ValidationError{Msg: "file is required"})
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Error("close uploaded file", zap.Error(closeErr))
		}
	}()

	count, err := s.files.Import(r.Context(), identity.ID, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Imported: count})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, customerr.ErrInvalidToken)
		return
	}

	// render into a buffer first so a storage failure still maps to an
	// error status instead of a truncated 200
	var buf bytes.Buffer
	if err := s.files.Export(r.Context(), identity.ID, &buf); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=report.csv`)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error("export csv", zap.Error(err))
	}
}
