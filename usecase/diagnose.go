// usecase/diagnose.go
package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/vitovidale/ai-video-backend/domain"
)

// maxDiagnosticMessage caps store errors echoed by /debug, in characters.
const maxDiagnosticMessage = 50

type DiagnoseOutput struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseBackend  string   `json:"database_backend"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// DiagnoseUseCase reports store connectivity and which connection settings
// are present in the environment. It never fails.
type DiagnoseUseCase struct {
	Store domain.DocumentStore
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

func (uc *DiagnoseUseCase) Execute(ctx context.Context) *DiagnoseOutput {
	out := &DiagnoseOutput{
		Backend:          "running",
		Database:         "not available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if uc.Store != nil {
		diag := uc.Store.Diagnose(ctx)
		out.DatabaseBackend = diag.Backend
		if diag.Available {
			out.ConnectionStatus = "Connected"
			out.Database = "connected & working"
			if diag.Collections != nil {
				out.Collections = diag.Collections
			}
		}
		if diag.Err != nil {
			msg := diag.Err.Error()
			if r := []rune(msg); len(r) > maxDiagnosticMessage {
				msg = string(r[:maxDiagnosticMessage])
			}
			if diag.Available {
				out.Database = fmt.Sprintf("connected but error: %s", msg)
			} else {
				out.Database = fmt.Sprintf("error: %s", msg)
			}
		}
	}

	lookup := uc.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	out.DatabaseURL = envState(lookup, "DATABASE_URL")
	out.DatabaseName = envState(lookup, "DATABASE_NAME")
	return out
}

func envState(lookup func(string) (string, bool), key string) string {
	if v, ok := lookup(key); ok && v != "" {
		return "set"
	}
	return "not set"
}
