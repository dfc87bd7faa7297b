package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/pactum/internal/plan"
)

// LoadResult contains the results of loading a verification plan.
type LoadResult struct {
	Plan      *plan.Plan
	FileCount int // Number of CUE files found
}

// LoadError represents an error that occurred during plan loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadPlan loads and compiles the CUE verification plan from a directory.
func LoadPlan(dir string) (*LoadResult, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("plan directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing plan directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	compiled, err := plan.CompilePlan(value)
	if err != nil {
		return nil, convertCompileError(err)
	}

	return &LoadResult{
		Plan:      compiled,
		FileCount: len(cueFiles),
	}, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a plan compile error to a LoadError with
// position info.
func convertCompileError(err error) *LoadError {
	var compileErr *plan.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: err.Error(),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	// Plan validation errors
	ErrCodePlanProvider     = "E101" // Missing/invalid provider block
	ErrCodePlanPacts        = "E102" // Missing/empty pacts list
	ErrCodePlanInteractions = "E103" // Missing/empty interactions
	ErrCodePlanKind         = "E104" // Unknown interaction kind
	ErrCodePlanPayload      = "E105" // Missing message payload
	ErrCodePlanExchange     = "E106" // Missing request/response halves
	ErrCodePlanBroker       = "E107" // Invalid broker block
)

// MapFieldToErrorCode maps a plan compile error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "provider", "provider.name":
		return ErrCodePlanProvider
	case "pacts", "pact.consumer":
		return ErrCodePlanPacts
	case "interactions", "interaction.description":
		return ErrCodePlanInteractions
	case "kind":
		return ErrCodePlanKind
	case "payload":
		return ErrCodePlanPayload
	case "request", "response", "response.status", "request.method", "request.path":
		return ErrCodePlanExchange
	case "broker":
		return ErrCodePlanBroker
	default:
		return ErrCodeGeneric
	}
}
