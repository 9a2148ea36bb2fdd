package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dparedesb/servicetimes/internal/board"
	"github.com/dparedesb/servicetimes/internal/validate"
)

type valueRequest struct {
	Value string `json:"value"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleListRows(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"screen": s.board.Screen().Name,
		"rows":   s.board.Rows(),
	})
}

func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	row := s.board.AddRow(r.Context())
	respondJSON(w, http.StatusCreated, row)
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.respondOp(w, s.board.DeleteRow(r.Context(), id))
}

func (s *Server) handleMarkField(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.respondOp(w, s.board.MarkField(r.Context(), vars["id"], vars["field"]))
}

func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.respondOp(w, s.board.ToggleItem(r.Context(), vars["id"], vars["item"]))
}

func (s *Server) handleRemovePair(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "index must be a number"})
		return
	}
	s.respondOp(w, s.board.RemovePrepPair(r.Context(), vars["id"], vars["item"], index))
}

func (s *Server) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	s.respondOp(w, s.board.SetQuantity(r.Context(), vars["id"], vars["item"], req.Quantity))
}

func (s *Server) handleSetDescription(w http.ResponseWriter, r *http.Request) {
	s.handleTextField(w, r, s.board.SetDescription)
}

func (s *Server) handleSetObservation(w http.ResponseWriter, r *http.Request) {
	s.handleTextField(w, r, s.board.SetObservation)
}

func (s *Server) handleSetTurn(w http.ResponseWriter, r *http.Request) {
	s.handleTextField(w, r, s.board.SetTurn)
}

func (s *Server) handleSetPayment(w http.ResponseWriter, r *http.Request) {
	s.handleTextField(w, r, s.board.SetPaymentMethod)
}

func (s *Server) handleTextField(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, id, value string) error) {
	id := mux.Vars(r)["id"]
	var req valueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	s.respondOp(w, set(r.Context(), id, req.Value))
}

func (s *Server) handleSetEditing(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Editing bool `json:"editing"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	s.board.SetEditing(id, req.Editing)
	respondJSON(w, http.StatusOK, nil)
}

func (s *Server) handleSetConsumption(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		On bool `json:"on"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	s.respondOp(w, s.board.SetConsumption(r.Context(), id, req.On))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := s.board.Submit(r.Context(), id)
	if err == nil {
		respondJSON(w, http.StatusOK, map[string]string{"status": "submitted"})
		return
	}

	var failure *validate.Failure
	if errors.As(err, &failure) {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  failure.Error(),
			Reason: failure.Reason.Error(),
		})
		return
	}
	s.respondOp(w, err)
}

// respondOp maps a board operation result to a status code.
func (s *Server) respondOp(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, nil)
	case errors.Is(err, board.ErrRowNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, board.ErrConsumptionOff):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
}
