package plan

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/pactum/internal/contract"
)

// CompileError is a plan compilation error with CUE position info.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return &CompileError{
		Field:   "cue",
		Message: firstErr.Error(),
	}
}

// CompilePlan parses a CUE value into a Plan.
//
// The CUE value should be the plan document root, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`provider: name: "order-service" ...`)
//	p, err := CompilePlan(v)
func CompilePlan(v cue.Value) (*Plan, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	p := &Plan{}

	// provider block (required, must carry a name)
	providerVal := v.LookupPath(cue.ParsePath("provider"))
	if !providerVal.Exists() {
		return nil, &CompileError{
			Field:   "provider",
			Message: "provider block is required",
			Pos:     v.Pos(),
		}
	}

	name, err := requiredString(providerVal, "name", "provider.name")
	if err != nil {
		return nil, err
	}
	p.Provider = name

	p.ProviderVersion, err = optionalString(providerVal, "version")
	if err != nil {
		return nil, err
	}
	p.PublishResults, err = optionalString(providerVal, "publish_results")
	if err != nil {
		return nil, err
	}

	stackVal := providerVal.LookupPath(cue.ParsePath("show_stacktrace"))
	if stackVal.Exists() {
		show, err := stackVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		p.ShowStacktrace = show
	}

	// filter block (optional)
	filterVal := v.LookupPath(cue.ParsePath("filter"))
	if filterVal.Exists() {
		if p.Filter.Consumer, err = optionalString(filterVal, "consumer"); err != nil {
			return nil, err
		}
		if p.Filter.Description, err = optionalString(filterVal, "description"); err != nil {
			return nil, err
		}
		if p.Filter.ProviderState, err = optionalString(filterVal, "provider_state"); err != nil {
			return nil, err
		}
	}

	// broker block (optional)
	brokerVal := v.LookupPath(cue.ParsePath("broker"))
	if brokerVal.Exists() {
		attrs := &contract.BrokerAttrs{}
		if attrs.BaseURL, err = optionalString(brokerVal, "base_url"); err != nil {
			return nil, err
		}
		if attrs.PublishURL, err = optionalString(brokerVal, "publish_url"); err != nil {
			return nil, err
		}
		if attrs.PactURL, err = optionalString(brokerVal, "pact_url"); err != nil {
			return nil, err
		}
		if attrs.BaseURL == "" && attrs.PublishURL == "" && attrs.PactURL == "" {
			return nil, &CompileError{
				Field:   "broker",
				Message: "broker block needs at least one URL",
				Pos:     brokerVal.Pos(),
			}
		}
		p.Broker = attrs
	}

	// pacts list (required, at least one)
	pactsVal := v.LookupPath(cue.ParsePath("pacts"))
	if !pactsVal.Exists() {
		return nil, &CompileError{
			Field:   "pacts",
			Message: "at least one pact is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := pactsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		pact, err := CompilePact(iter.Value(), p.Provider, p.Broker)
		if err != nil {
			return nil, err
		}
		p.Pacts = append(p.Pacts, *pact)
	}

	if len(p.Pacts) == 0 {
		return nil, &CompileError{
			Field:   "pacts",
			Message: "at least one pact is required",
			Pos:     pactsVal.Pos(),
		}
	}

	return p, nil
}

// CompilePact parses one entry of the plan's pacts list. Provenance is
// derived here: a broker block on the plan marks every pact as
// registry-sourced, otherwise pacts are local.
func CompilePact(v cue.Value, provider string, broker *contract.BrokerAttrs) (*contract.Pact, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	consumer, err := requiredString(v, "consumer", "pact.consumer")
	if err != nil {
		return nil, err
	}

	pact := &contract.Pact{
		Consumer: consumer,
		Provider: provider,
	}
	if broker != nil {
		pact.Source = contract.BrokerSource(*broker)
	} else {
		path, err := optionalString(v, "path")
		if err != nil {
			return nil, err
		}
		pact.Source = contract.LocalSource(path)
	}

	interactionsVal := v.LookupPath(cue.ParsePath("interactions"))
	if !interactionsVal.Exists() {
		return nil, &CompileError{
			Field:   "interactions",
			Message: "at least one interaction is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := interactionsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		interaction, err := compileInteraction(iter.Value())
		if err != nil {
			return nil, err
		}
		pact.Interactions = append(pact.Interactions, *interaction)
	}

	if len(pact.Interactions) == 0 {
		return nil, &CompileError{
			Field:   "interactions",
			Message: "at least one interaction is required",
			Pos:     interactionsVal.Pos(),
		}
	}

	return pact, nil
}

// compileInteraction parses one interaction. The kind defaults to
// "message"; "request-response" (or "http") selects the synchronous
// variant, which requires request and response blocks.
func compileInteraction(v cue.Value) (*contract.Interaction, error) {
	description, err := requiredString(v, "description", "interaction.description")
	if err != nil {
		return nil, err
	}

	interaction := &contract.Interaction{
		Description: description,
		Kind:        contract.KindMessage,
	}

	kindStr, err := optionalString(v, "kind")
	if err != nil {
		return nil, err
	}
	switch kindStr {
	case "", "message":
		interaction.Kind = contract.KindMessage
	case "request-response", "http":
		interaction.Kind = contract.KindRequestResponse
	default:
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown interaction kind %q", kindStr),
			Pos:     v.Pos(),
		}
	}

	interaction.States, err = compileStates(v)
	if err != nil {
		return nil, err
	}

	switch interaction.Kind {
	case contract.KindMessage:
		payloadVal := v.LookupPath(cue.ParsePath("payload"))
		if !payloadVal.Exists() {
			return nil, &CompileError{
				Field:   "payload",
				Message: "message interaction needs a payload",
				Pos:     v.Pos(),
			}
		}
		payload, err := payloadVal.MarshalJSON()
		if err != nil {
			return nil, formatCUEError(err)
		}
		interaction.Payload = payload

		metadataVal := v.LookupPath(cue.ParsePath("metadata"))
		if metadataVal.Exists() {
			var metadata map[string]any
			if err := metadataVal.Decode(&metadata); err != nil {
				return nil, formatCUEError(err)
			}
			interaction.Metadata = metadata
		}

	case contract.KindRequestResponse:
		interaction.Request, err = compileRequest(v)
		if err != nil {
			return nil, err
		}
		interaction.Response, err = compileResponse(v)
		if err != nil {
			return nil, err
		}
	}

	return interaction, nil
}

// compileStates parses the optional provider_states list. Entries are
// either bare strings or {name, params} objects.
func compileStates(v cue.Value) ([]contract.ProviderState, error) {
	statesVal := v.LookupPath(cue.ParsePath("provider_states"))
	if !statesVal.Exists() {
		return nil, nil
	}

	iter, err := statesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var states []contract.ProviderState
	for iter.Next() {
		sv := iter.Value()

		if name, err := sv.String(); err == nil {
			states = append(states, contract.ProviderState{Name: name})
			continue
		}

		name, err := requiredString(sv, "name", "provider_states.name")
		if err != nil {
			return nil, err
		}
		state := contract.ProviderState{Name: name}

		paramsVal := sv.LookupPath(cue.ParsePath("params"))
		if paramsVal.Exists() {
			if err := paramsVal.Decode(&state.Params); err != nil {
				return nil, formatCUEError(err)
			}
		}
		states = append(states, state)
	}

	return states, nil
}

func compileRequest(v cue.Value) (*contract.Request, error) {
	reqVal := v.LookupPath(cue.ParsePath("request"))
	if !reqVal.Exists() {
		return nil, &CompileError{
			Field:   "request",
			Message: "request/response interaction needs a request",
			Pos:     v.Pos(),
		}
	}

	method, err := requiredString(reqVal, "method", "request.method")
	if err != nil {
		return nil, err
	}
	path, err := requiredString(reqVal, "path", "request.path")
	if err != nil {
		return nil, err
	}

	req := &contract.Request{Method: method, Path: path}

	if req.Query, err = optionalStringMap(reqVal, "query"); err != nil {
		return nil, err
	}
	if req.Headers, err = optionalStringMap(reqVal, "headers"); err != nil {
		return nil, err
	}
	if req.Body, err = optionalJSON(reqVal, "body"); err != nil {
		return nil, err
	}

	return req, nil
}

func compileResponse(v cue.Value) (*contract.Response, error) {
	respVal := v.LookupPath(cue.ParsePath("response"))
	if !respVal.Exists() {
		return nil, &CompileError{
			Field:   "response",
			Message: "request/response interaction needs a response",
			Pos:     v.Pos(),
		}
	}

	statusVal := respVal.LookupPath(cue.ParsePath("status"))
	if !statusVal.Exists() {
		return nil, &CompileError{
			Field:   "response.status",
			Message: "response status is required",
			Pos:     respVal.Pos(),
		}
	}
	status, err := statusVal.Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}

	resp := &contract.Response{Status: int(status)}

	if resp.Headers, err = optionalStringMap(respVal, "headers"); err != nil {
		return nil, err
	}
	if resp.Body, err = optionalJSON(respVal, "body"); err != nil {
		return nil, err
	}

	return resp, nil
}

func requiredString(v cue.Value, field, label string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   label,
			Message: fmt.Sprintf("%s is required", label),
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	if s == "" {
		return "", &CompileError{
			Field:   label,
			Message: fmt.Sprintf("%s must not be empty", label),
			Pos:     fv.Pos(),
		}
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalStringMap(v cue.Value, field string) (map[string]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	var m map[string]string
	if err := fv.Decode(&m); err != nil {
		return nil, formatCUEError(err)
	}
	return m, nil
}

func optionalJSON(v cue.Value, field string) ([]byte, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	raw, err := fv.MarshalJSON()
	if err != nil {
		return nil, formatCUEError(err)
	}
	return raw, nil
}
