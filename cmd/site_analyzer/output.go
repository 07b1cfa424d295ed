package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jonathan/site-analyzer/internal/schemas"
	"github.com/jonathan/site-analyzer/internal/types"
)

// errAnalysisFailed marks a failure already reported to the user as an error envelope.
var errAnalysisFailed = errors.New("analysis failed")

type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// errorEnvelope is the JSON document written in place of an Analysis on failure.
type errorEnvelope struct {
	Input string    `json:"input,omitempty"`
	Error errorBody `json:"error"`
}

func newErrorEnvelope(input string, err error) errorEnvelope {
	message := err.Error()
	var perr *types.PipelineError
	if errors.As(err, &perr) {
		message = perr.Message
	}
	return errorEnvelope{
		Input: input,
		Error: errorBody{Type: types.KindOf(err).String(), Message: message},
	}
}

// encodeAnalysis validates a against the output schema and returns its JSON form.
func encodeAnalysis(a *types.Analysis, indent bool) ([]byte, error) {
	if err := schemas.ValidateAnalysis(a); err != nil {
		return nil, fmt.Errorf("analysis failed output validation: %w", err)
	}
	if indent {
		return a.ToJSON()
	}
	return json.Marshal(a)
}

func writeJSONLine(w io.Writer, data []byte) error {
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeEnvelope(w io.Writer, env errorEnvelope, indent bool) error {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(env, "", "  ")
	} else {
		data, err = json.Marshal(env)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal error envelope: %w", err)
	}
	return writeJSONLine(w, data)
}
