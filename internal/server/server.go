// Package server exposes the verifier over HTTP: expression JSON in,
// verification verdicts out. The transport is HTTP/3 in production and any
// http.Handler host in tests.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/kleis-lang/kleis/internal/ast"
	"github.com/kleis-lang/kleis/internal/verifier"
)

// Server serializes access to one verifier. The underlying solver context is
// single-threaded, so every request takes the mutex for its full duration.
type Server struct {
	mu  sync.Mutex
	v   *verifier.Verifier
	log *log.Logger
}

// New wraps a verifier for HTTP access. logger may be nil for silence.
func New(v *verifier.Verifier, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(nopWriter{}, "", 0)
	}
	return &Server{v: v, log: logger}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/verify", s.handleVerify)
	mux.HandleFunc("/satisfiable", s.handleSatisfiable)
	mux.HandleFunc("/equivalent", s.handleEquivalent)
	mux.HandleFunc("/capabilities", s.handleCapabilities)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

type verifyRequest struct {
	Expression json.RawMessage `json:"expression"`
}

type bindingJSON struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type verifyResponse struct {
	Result   string        `json:"result"`
	Witness  string        `json:"witness,omitempty"`
	Bindings []bindingJSON `json:"bindings,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	expr, err := ast.UnmarshalExpression(req.Expression)
	if err != nil {
		http.Error(w, "bad expression: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	res, err := s.v.VerifyAxiom(expr)
	warnings := s.v.Warnings()
	s.mu.Unlock()
	if err != nil {
		s.log.Printf("verify failed: %v", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	resp := verifyResponse{Result: res.Kind.String(), Warnings: warnings}
	if res.Witness != nil {
		resp.Witness = res.Witness.String()
		for _, b := range res.Witness.Bindings {
			resp.Bindings = append(resp.Bindings, bindingJSON{Name: b.Name, Value: b.Value})
		}
	}
	writeJSON(w, resp)
}

func (s *Server) handleSatisfiable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	expr, err := ast.UnmarshalExpression(req.Expression)
	if err != nil {
		http.Error(w, "bad expression: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	res, err := s.v.CheckSatisfiability(expr)
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	resp := verifyResponse{Result: res.Kind.String()}
	if res.Witness != nil {
		resp.Witness = res.Witness.String()
	}
	writeJSON(w, resp)
}

type equivalentRequest struct {
	A json.RawMessage `json:"a"`
	B json.RawMessage `json:"b"`
}

func (s *Server) handleEquivalent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req equivalentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	a, err := ast.UnmarshalExpression(req.A)
	if err != nil {
		http.Error(w, "bad expression 'a': "+err.Error(), http.StatusBadRequest)
		return
	}
	b, err := ast.UnmarshalExpression(req.B)
	if err != nil {
		http.Error(w, "bad expression 'b': "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	eq, err := s.v.AreEquivalent(a, b)
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]bool{"equivalent": eq})
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	backend := s.v.Backend()
	if backend == nil {
		http.Error(w, "no solver backend configured", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, backend.Capabilities())
}

type statsResponse struct {
	LoadedStructures   int      `json:"loaded_structures"`
	LoadedAxioms       int      `json:"loaded_axioms"`
	DeclaredOperations int      `json:"declared_operations"`
	Structures         []string `json:"structures"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	st := s.v.Stats()
	loaded := s.v.Snapshot()
	s.mu.Unlock()
	writeJSON(w, statsResponse{
		LoadedStructures:   st.LoadedStructures,
		LoadedAxioms:       st.LoadedAxioms,
		DeclaredOperations: st.DeclaredOperations,
		Structures:         loaded,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
