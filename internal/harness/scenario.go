package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios run an inline pact against canned handlers and assert on
// the run outcome and failure ledger.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Pact is the contract under verification.
	Pact PactDoc `yaml:"pact"`

	// Handlers are the canned provider handlers, registered by
	// description. Several entries may share a description; all of them
	// must pass for the interaction to pass.
	Handlers []HandlerStub `yaml:"handlers"`

	// Config carries run options.
	Config ConfigDoc `yaml:"config,omitempty"`

	// Expect is the expected run outcome.
	Expect ExpectClause `yaml:"expect"`

	// RunToken is an optional fixed run token for deterministic tests.
	// If empty, defaults to "test-run-default" for deterministic golden
	// file comparison.
	RunToken string `yaml:"run_token,omitempty"`
}

// PactDoc is the scenario's inline pact.
type PactDoc struct {
	Consumer     string           `yaml:"consumer"`
	Provider     string           `yaml:"provider"`
	Interactions []InteractionDoc `yaml:"interactions"`
}

// InteractionDoc is one expected interaction. Kind defaults to
// "message"; "request-response" selects the synchronous variant.
type InteractionDoc struct {
	Description string         `yaml:"description"`
	Kind        string         `yaml:"kind,omitempty"`
	States      []string       `yaml:"provider_states,omitempty"`
	Payload     any            `yaml:"payload,omitempty"`
	Metadata    map[string]any `yaml:"metadata,omitempty"`
	Request     *RequestDoc    `yaml:"request,omitempty"`
	Response    *ResponseDoc   `yaml:"response,omitempty"`
}

// RequestDoc is the expected request half of a request/response
// interaction.
type RequestDoc struct {
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// ResponseDoc is the expected response half.
type ResponseDoc struct {
	Status  int               `yaml:"status"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Body    any               `yaml:"body,omitempty"`
}

// HandlerStub is one canned handler. Exactly one behavior applies, in
// this precedence: Panic, Error, Returns.
type HandlerStub struct {
	// Description is the interaction description this handler claims.
	Description string `yaml:"description"`

	// Returns is the handler's canned output.
	Returns *ReturnDoc `yaml:"returns,omitempty"`

	// Error makes the handler fail with this message.
	Error string `yaml:"error,omitempty"`

	// Panic makes the handler panic with this message.
	Panic string `yaml:"panic,omitempty"`
}

// ReturnDoc is a canned handler output. Message handlers use Payload
// and Metadata; request/response handlers use Response.
type ReturnDoc struct {
	Payload  any            `yaml:"payload,omitempty"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
	Response map[string]any `yaml:"response,omitempty"`
}

// ConfigDoc carries the run options of a scenario.
type ConfigDoc struct {
	ProviderVersion string    `yaml:"provider_version,omitempty"`
	PublishResults  string    `yaml:"publish_results,omitempty"`
	ShowStacktrace  bool      `yaml:"show_stacktrace,omitempty"`
	Filter          FilterDoc `yaml:"filter,omitempty"`
}

// FilterDoc restricts which interactions run.
type FilterDoc struct {
	Description   string `yaml:"description,omitempty"`
	ProviderState string `yaml:"provider_state,omitempty"`
}

// ExpectClause is the expected run outcome.
type ExpectClause struct {
	// Success is the expected aggregate verdict (required).
	Success *bool `yaml:"success"`

	// Failures lists ledger keys that must be present. Subset match;
	// extra ledger entries are not an error unless Exact is set.
	Failures []string `yaml:"failures,omitempty"`

	// Exact requires the ledger to contain exactly the listed failures.
	Exact bool `yaml:"exact,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expect:" vs "expects:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Pact.Consumer == "" {
		return fmt.Errorf("pact.consumer is required")
	}
	if s.Pact.Provider == "" {
		return fmt.Errorf("pact.provider is required")
	}
	if len(s.Pact.Interactions) == 0 {
		return fmt.Errorf("pact.interactions is required and must be non-empty")
	}

	for i, interaction := range s.Pact.Interactions {
		if err := validateInteraction(i, &interaction); err != nil {
			return err
		}
	}

	for i, stub := range s.Handlers {
		if stub.Description == "" {
			return fmt.Errorf("handlers[%d]: description is required", i)
		}
		behaviors := 0
		if stub.Returns != nil {
			behaviors++
		}
		if stub.Error != "" {
			behaviors++
		}
		if stub.Panic != "" {
			behaviors++
		}
		if behaviors != 1 {
			return fmt.Errorf("handlers[%d]: exactly one of returns, error, panic is required", i)
		}
	}

	if s.Expect.Success == nil {
		return fmt.Errorf("expect.success is required")
	}

	return nil
}

// validateInteraction validates a single interaction document.
func validateInteraction(index int, doc *InteractionDoc) error {
	if doc.Description == "" {
		return fmt.Errorf("pact.interactions[%d]: description is required", index)
	}

	switch doc.Kind {
	case "", "message":
		if doc.Payload == nil {
			return fmt.Errorf("pact.interactions[%d]: payload is required for message interactions", index)
		}
	case "request-response", "http":
		if doc.Request == nil {
			return fmt.Errorf("pact.interactions[%d]: request is required for request-response interactions", index)
		}
		if doc.Response == nil {
			return fmt.Errorf("pact.interactions[%d]: response is required for request-response interactions", index)
		}
	default:
		return fmt.Errorf("pact.interactions[%d]: unknown kind %q", index, doc.Kind)
	}

	return nil
}
