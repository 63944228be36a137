package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/medication-reminder-api/api"
	"github.com/linesmerrill/medication-reminder-api/config"
	"github.com/linesmerrill/medication-reminder-api/databases"
	"github.com/linesmerrill/medication-reminder-api/models"
)

// errRequestTimeout is written when the request deadline passes before the store answers
var errRequestTimeout = errors.New("request timeout")

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("failed to encode response", "error", err)
	}
}

// writeData wraps data in the success envelope
func writeData(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, models.Response{Success: true, Message: message, Data: data})
}

// writeList wraps a list and its length in the success envelope
func writeList(w http.ResponseWriter, status int, message string, data interface{}, count int) {
	writeJSON(w, status, models.Response{Success: true, Message: message, Count: &count, Data: data})
}

// writeError maps err onto the error taxonomy and writes the failure envelope.
// message names the failed action; it is logged, and is the body of a 404.
func writeError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		config.ErrorStatus(message, http.StatusUnauthorized, w, models.ErrUnauthenticated)
	case errors.Is(err, models.ErrInvalidCredentials):
		config.ErrorStatus(message, http.StatusUnauthorized, w, models.ErrInvalidCredentials)
	case errors.Is(err, models.ErrNotFound):
		config.ErrorStatus(message, http.StatusNotFound, w, errors.New(message))
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrConflict):
		config.ErrorStatus(message, http.StatusBadRequest, w, err)
	case errors.Is(err, context.DeadlineExceeded):
		config.ErrorStatus(message, http.StatusGatewayTimeout, w, errRequestTimeout)
	default:
		// storage failures surface their raw message
		config.ErrorStatus(message, http.StatusInternalServerError, w, err)
	}
}

// decodeBody reads a JSON request body into v
func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.ValidationError("invalid request body: %v", err)
	}
	return nil
}

// pathID parses the {id} route variable as an ObjectID
func pathID(r *http.Request) (primitive.ObjectID, error) {
	return parseID("id", mux.Vars(r)["id"])
}

func parseID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, models.ValidationError("%s must be a valid id", field)
	}
	return id, nil
}

// getPage reads the optional limit and page query parameters
func getPage(r *http.Request) (databases.Page, error) {
	query := r.URL.Query()
	limit, page := 0, 1
	var err error
	if v := query.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			return databases.Page{}, models.ValidationError("limit must be a non-negative integer")
		}
	}
	if v := query.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 1 {
			return databases.Page{}, models.ValidationError("page must be a positive integer")
		}
	}
	return databases.NewPage(limit, page), nil
}

// currentUser returns the id the auth middleware stored on the request
func currentUser(r *http.Request) (primitive.ObjectID, error) {
	id, ok := api.UserIDFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("no user on request: %w", models.ErrUnauthenticated)
	}
	return id, nil
}
