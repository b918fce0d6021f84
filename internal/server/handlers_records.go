package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"max.ks1230/fintrack/internal/entity/record"
	"max.ks1230/fintrack/internal/model/customerr"
)

type windowResponse struct {
	Records []record.Record `json:"records"`
	Total   decimal.Decimal `json:"total"`
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, customerr.ErrInvalidToken)
		return
	}

	var typeFilter *record.OperationType
	if raw := r.URL.Query().Get("type"); raw != "" {
		op, err := record.ParseOperationType(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		typeFilter = &op
	}

	recs, err := s.records.List(r.Context(), identity.ID, typeFilter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, customerr.ErrInvalidToken)
		return
	}

	window, err := record.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		writeError(w, err)
		return
	}

	recs, total, err := s.records.GetByWindow(r.Context(), identity.ID, window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, windowResponse{Records: recs, Total: total})
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, customerr.ErrInvalidToken)
		return
	}

	data, err := decodeRecord(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rec, err := s.records.Create(r.Context(), identity.ID, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, customerr.ErrInvalidToken)
		return
	}

	id, err := recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rec, err := s.records.Get(r.Context(), id, identity.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, customerr.ErrInvalidToken)
		return
	}

	id, err := recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := decodeRecord(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rec, err := s.records.Update(r.Context(), id, identity.ID, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, customerr.ErrInvalidToken)
		return
	}

	id, err := recordID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err = s.records.Delete(r.Context(), id, identity.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("record %d deleted", id)})
}

func decodeRecord(r *http.Request) (record.Record, error) {
	var data record.Record
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		return record.Record{}, &customerr.ValidationError{Msg: "malformed request body"}
	}
	return data, nil
}

func recordID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, &customerr.ValidationError{Msg: "record id must be an integer"}
	}
	return id, nil
}
