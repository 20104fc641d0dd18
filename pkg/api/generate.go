package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"pagecraft/quill/pkg/assist"
	"pagecraft/quill/pkg/ledger"
	"pagecraft/quill/pkg/telemetry/logging"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes = 1 << 20

// GenerateHandler serves POST /v1/generate. It parses the request
// body, hands it to the generation service, and renders the result or
// the mapped error envelope. Submitted text is never echoed back.
type GenerateHandler struct {
	service *assist.Service
	logger  *logging.Logger
	maxBody int64
}

// NewGenerateHandler creates the generation endpoint handler.
// maxBodyBytes bounds the accepted request body; zero or negative
// means DefaultMaxBodyBytes.
func NewGenerateHandler(service *assist.Service, logger *logging.Logger, maxBodyBytes int64) *GenerateHandler {
	if logger == nil {
		logger = logging.NewNop()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &GenerateHandler{
		service: service,
		logger:  logger,
		maxBody: maxBodyBytes,
	}
}

// ServeHTTP implements http.Handler.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := logging.GetRequestID(ctx)

	if r.Method != http.MethodPost {
		WriteErrorBody(w, http.StatusMethodNotAllowed, ledger.OutcomeValidation,
			fmt.Sprintf("method %s not allowed; use POST", r.Method), requestID)
		return
	}

	req, err := h.decodeRequest(w, r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteErrorBody(w, http.StatusRequestEntityTooLarge, ledger.OutcomeValidation,
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), requestID)
			return
		}

		h.logger.WarnContext(ctx, "rejected malformed request body", "error", err)
		WriteErrorBody(w, http.StatusBadRequest, ledger.OutcomeValidation,
			"request body is not valid JSON", requestID)
		return
	}

	result, err := h.service.Generate(ctx, assist.GenerationRequest{
		Prompt:   req.Prompt,
		Context:  req.Context,
		Model:    req.Model,
		SpaceKey: req.SpaceKey,
		PageID:   req.PageID,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, &GenerateResponse{
		Content:         result.Content,
		SourceLatencyMS: result.SourceLatency.Milliseconds(),
		ServedFromCache: result.ServedFromCache,
		RequestID:       requestID,
	})
}

// decodeRequest reads the JSON body under the configured size cap.
func (h *GenerateHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*GenerateRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	defer r.Body.Close()

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
