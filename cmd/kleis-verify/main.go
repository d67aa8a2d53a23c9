// kleis-verify checks the axioms of a Kleis program against an SMT solver.
//
// Flags:
//
//	-file            program to verify, as exported AST JSON
//	-timeout         per-query solver timeout
//	-max-axioms      cap on loaded background axioms
//	-no-consistency  skip the background consistency check
//	-capabilities    print the solver capability manifest and exit
//	-require-solver  semver constraint the solver version must satisfy
//	-watch           re-verify whenever the file changes
//	-serve           serve the verification API over HTTP/3 on this address
//	-tls-cert/-tls-key  TLS certificate and key for -serve
//	-version         print the tool version and exit
package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kleis-lang/kleis/internal/ast"
	"github.com/kleis-lang/kleis/internal/registry"
	"github.com/kleis-lang/kleis/internal/server"
	"github.com/kleis-lang/kleis/internal/solver"
	z3backend "github.com/kleis-lang/kleis/internal/solver/z3"
	"github.com/kleis-lang/kleis/internal/verifier"
	"github.com/kleis-lang/kleis/internal/watch"
)

const version = "0.1.0"

func main() {
	var (
		file          string
		timeout       time.Duration
		maxAxioms     int
		noConsistency bool
		capabilities  bool
		requireSolver string
		watchMode     bool
		serveAddr     string
		tlsCert       string
		tlsKey        string
		showVersion   bool
	)
	flag.StringVar(&file, "file", "", "program to verify (AST JSON)")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "per-query solver timeout")
	flag.IntVar(&maxAxioms, "max-axioms", 10000, "cap on loaded background axioms")
	flag.BoolVar(&noConsistency, "no-consistency", false, "skip the background consistency check")
	flag.BoolVar(&capabilities, "capabilities", false, "print the solver capability manifest and exit")
	flag.StringVar(&requireSolver, "require-solver", "", "semver constraint the solver version must satisfy")
	flag.BoolVar(&watchMode, "watch", false, "re-verify whenever the file changes")
	flag.StringVar(&serveAddr, "serve", "", "serve the verification API over HTTP/3 on this address")
	flag.StringVar(&tlsCert, "tls-cert", "", "TLS certificate file for -serve")
	flag.StringVar(&tlsKey, "tls-key", "", "TLS key file for -serve")
	flag.BoolVar(&showVersion, "version", false, "print the tool version and exit")
	flag.Parse()

	logger := log.New(os.Stderr, "kleis-verify: ", 0)

	if showVersion {
		fmt.Println("kleis-verify " + version)
		return
	}

	cfg := verifier.DefaultConfig()
	cfg.Timeout = timeout
	cfg.MaxAxioms = maxAxioms
	cfg.ConsistencyCheck = !noConsistency

	if capabilities || requireSolver != "" {
		backend, err := z3backend.New(registry.New(), cfg.Timeout)
		if err != nil {
			logger.Fatalf("solver unavailable: %v", err)
		}
		defer backend.Close()
		caps := backend.Capabilities()
		if requireSolver != "" {
			if err := solver.CheckVersion(caps, requireSolver); err != nil {
				logger.Fatalf("solver version check: %v", err)
			}
		}
		if capabilities {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(caps); err != nil {
				logger.Fatal(err)
			}
			return
		}
	}

	if file == "" {
		logger.Fatal("no -file given")
	}

	switch {
	case serveAddr != "":
		if err := serve(file, serveAddr, tlsCert, tlsKey, cfg, logger); err != nil {
			logger.Fatal(err)
		}
	case watchMode:
		if err := watchAndVerify(file, cfg, logger); err != nil {
			logger.Fatal(err)
		}
	default:
		failed, err := verifyFile(file, cfg, logger)
		if err != nil {
			logger.Fatal(err)
		}
		if failed > 0 {
			os.Exit(1)
		}
	}
}

func loadProgram(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var prog ast.Program
	if err := json.Unmarshal(data, &prog); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &prog, nil
}

// buildVerifier sets up a fresh registry, backend, and verifier for one
// program. A missing solver degrades to a nil backend instead of failing.
func buildVerifier(prog *ast.Program, cfg verifier.Config, logger *log.Logger) (*verifier.Verifier, error) {
	reg, err := registry.FromProgram(prog)
	if err != nil {
		return nil, err
	}
	var backend solver.Backend
	if b, err := z3backend.New(reg, cfg.Timeout); err != nil {
		logger.Printf("solver unavailable, verification disabled: %v", err)
	} else {
		backend = b
	}
	v := verifier.New(reg, backend, cfg)
	if backend != nil {
		if err := v.LoadProgramFunctions(prog); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// verifyFile checks every axiom of every structure in the program and
// reports the count of non-valid results.
func verifyFile(path string, cfg verifier.Config, logger *log.Logger) (int, error) {
	prog, err := loadProgram(path)
	if err != nil {
		return 0, err
	}
	v, err := buildVerifier(prog, cfg, logger)
	if err != nil {
		return 0, err
	}
	if b := v.Backend(); b != nil {
		defer b.Close()
	}

	reg := v.Registry()
	failed := 0
	for _, structure := range reg.StructuresWithAxioms() {
		for _, ax := range reg.Axioms(structure) {
			res, err := v.VerifyAxiom(ax.Proposition)
			if err != nil {
				logger.Printf("%s.%s: error: %v", structure, ax.Name, err)
				failed++
				continue
			}
			fmt.Printf("%s.%s: %s\n", structure, ax.Name, res)
			switch res.Kind {
			case solver.ResultInvalid, solver.ResultInconsistentAxioms:
				failed++
			}
			for _, w := range v.Warnings() {
				logger.Printf("%s.%s: warning: %s", structure, ax.Name, w)
			}
		}
	}
	return failed, nil
}

func watchAndVerify(path string, cfg verifier.Config, logger *log.Logger) error {
	run := func() {
		failed, err := verifyFile(path, cfg, logger)
		switch {
		case err != nil:
			logger.Printf("verification error: %v", err)
		case failed > 0:
			logger.Printf("%d axiom(s) failed", failed)
		default:
			logger.Printf("all axioms verified")
		}
	}
	run()

	w, err := watch.New(200 * time.Millisecond)
	if err != nil {
		return err
	}
	defer w.Close()
	logger.Printf("watching %s", path)
	return w.Watch(context.Background(), path, func(string) {
		logger.Printf("%s changed, re-verifying", path)
		run()
	})
}

func serve(path, addr, certFile, keyFile string, cfg verifier.Config, logger *log.Logger) error {
	if certFile == "" || keyFile == "" {
		return fmt.Errorf("-serve requires -tls-cert and -tls-key")
	}
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("loading TLS key pair: %w", err)
	}

	prog, err := loadProgram(path)
	if err != nil {
		return err
	}
	v, err := buildVerifier(prog, cfg, logger)
	if err != nil {
		return err
	}
	if b := v.Backend(); b != nil {
		defer b.Close()
	}

	srv := server.NewHTTP3Server(addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS13,
	}, server.New(v, logger).Handler())

	bound, err := srv.Start()
	if err != nil {
		return err
	}
	logger.Printf("serving verification API on %s (HTTP/3)", bound)
	defer srv.Stop()
	select {}
}
