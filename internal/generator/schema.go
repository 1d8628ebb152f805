package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/yourorg/codespec/pkg/types"
)

// ErrInvalidReply wraps every reason a model reply is not merged.
var ErrInvalidReply = errors.New("invalid model reply")

// ReplyValidator checks decoded replies against the schema of
// types.ModelReply.
type ReplyValidator struct {
	schema *gojsonschema.Schema
}

// NewReplyValidator compiles the reply schema.
func NewReplyValidator() (*ReplyValidator, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	s := reflector.Reflect(&types.ModelReply{})
	// gojsonschema only knows drafts up to 7.
	s.Version = ""
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal reply schema: %w", err)
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile reply schema: %w", err)
	}
	return &ReplyValidator{schema: compiled}, nil
}

// Parse decodes content into a ModelReply after validating its shape.
func (v *ReplyValidator) Parse(content string) (*types.ModelReply, error) {
	content = stripMarkdownCodeBlock(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidReply)
	}
	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidReply, strings.Join(msgs, "; "))
	}
	var reply types.ModelReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}
	return &reply, nil
}
