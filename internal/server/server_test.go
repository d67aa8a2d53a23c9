package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kleis-lang/kleis/internal/ast"
	"github.com/kleis-lang/kleis/internal/registry"
	"github.com/kleis-lang/kleis/internal/solver"
	"github.com/kleis-lang/kleis/internal/verifier"
)

// stubBackend answers every query positively so handler tests exercise the
// HTTP surface without a solver.
type stubBackend struct{}

func (stubBackend) Name() string { return "stub" }
func (stubBackend) Capabilities() solver.Capabilities {
	return solver.Capabilities{
		Solver:      solver.Metadata{Name: "stub", Version: "1.0.0", Type: "smt"},
		Performance: solver.DefaultPerformance(),
	}
}
func (stubBackend) Push() {}
func (stubBackend) Pop()  {}
func (stubBackend) AssertAxiom(string, ast.Expression) error {
	return nil
}
func (stubBackend) DeclareIdentityElements(string, []solver.IdentityElement) error { return nil }
func (stubBackend) DefineFunction(*ast.FunctionDef) error                          { return nil }
func (stubBackend) DeclareDataType(*ast.DataDef) error                             { return nil }
func (stubBackend) VerifyAxiom(ast.Expression) (solver.VerificationResult, error) {
	return solver.VerificationResult{
		Kind:    solver.ResultInvalid,
		Witness: &solver.Witness{Bindings: []solver.WitnessBinding{{Name: "x", Value: "0"}}},
	}, nil
}
func (stubBackend) AreEquivalent(ast.Expression, ast.Expression) (bool, error) { return true, nil }
func (stubBackend) CheckSatisfiability(ast.Expression) (solver.SatResult, error) {
	return solver.SatResult{Kind: solver.Satisfiable}, nil
}
func (stubBackend) CheckConsistency() (bool, error)         { return true, nil }
func (stubBackend) Evaluate(ast.Expression) (string, error) { return "", nil }
func (stubBackend) Simplify(ast.Expression) (string, error) { return "", nil }
func (stubBackend) Warnings() []string                      { return nil }
func (stubBackend) Reset() error                            { return nil }
func (stubBackend) Close()                                  {}

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	v := verifier.New(registry.New(), stubBackend{}, verifier.DefaultConfig())
	return New(v, nil).Handler()
}

func verifyBody(t *testing.T) []byte {
	t.Helper()
	expr := ast.NewForAll(
		[]ast.QuantifiedVar{{Name: "x", TypeAnnotation: "ℤ"}},
		ast.NewOp("equals", ast.NewObject("x"), ast.NewObject("x")))
	raw, err := ast.MarshalExpression(expr)
	if err != nil {
		t.Fatalf("MarshalExpression: %v", err)
	}
	body, err := json.Marshal(map[string]json.RawMessage{"expression": raw})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return body
}

func TestVerifyEndpoint(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(verifyBody(t)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		Result   string `json:"result"`
		Witness  string `json:"witness"`
		Bindings []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"bindings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.Result != "invalid" {
		t.Fatalf("result = %q, want invalid", resp.Result)
	}
	if len(resp.Bindings) != 1 || resp.Bindings[0].Name != "x" || resp.Bindings[0].Value != "0" {
		t.Fatalf("bindings = %+v", resp.Bindings)
	}
}

func TestVerifyRejectsWrongMethod(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/verify", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestVerifyRejectsBadJSON(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCapabilitiesEndpoint(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/capabilities", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var caps solver.Capabilities
	if err := json.Unmarshal(rec.Body.Bytes(), &caps); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if caps.Solver.Name != "stub" {
		t.Fatalf("solver name = %q", caps.Solver.Name)
	}
}

func TestCapabilitiesWithoutBackend(t *testing.T) {
	v := verifier.New(registry.New(), nil, verifier.DefaultConfig())
	h := New(v, nil).Handler()
	req := httptest.NewRequest(http.MethodGet, "/capabilities", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.LoadedStructures != 0 || resp.LoadedAxioms != 0 {
		t.Fatalf("stats = %+v, want empty", resp)
	}
}
