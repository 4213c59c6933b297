// Package jsonrpc exposes the resolver and amount engine to the wallet
// frontend over a small JSON-RPC 2.0 HTTP surface.
package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server serves JSON-RPC requests over HTTP POST.
type Server struct {
	handler *Handler
	log     *zap.Logger
	httpSrv *http.Server
}

// NewServer creates a server around the handler.
func NewServer(handler *Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{handler: handler, log: log}
}

// ListenAndServe blocks serving requests until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, listen string) error {
	s.httpSrv = &http.Server{
		Addr:         listen,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()
	s.log.Info("json-rpc server listening", zap.String("addr", listen))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		JsonRPC string          `json:"jsonrpc"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params"`
		ID      any             `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nil, -32700, "Parse error", nil)
		return
	}

	result, err := s.handler.Handle(r.Context(), req.Method, req.Params)
	if err != nil {
		s.log.Debug("rpc method failed", zap.String("method", req.Method), zap.Error(err))
		writeError(w, req.ID, -32603, err.Error(), nil)
		return
	}

	response := map[string]any{
		"jsonrpc": "2.0",
		"result":  result,
		"id":      req.ID,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func writeError(w http.ResponseWriter, id any, code int, message string, data any) {
	response := map[string]any{
		"jsonrpc": "2.0",
		"error": map[string]any{
			"code":    code,
			"message": message,
			"data":    data,
		},
		"id": id,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
