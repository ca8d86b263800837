package contracts

import (
	"embed"
	"encoding/json"
	"errors"
	"estatemap/internal/core/domain"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed schemas
var schemasFS embed.FS

// Ключи схем, которыми пользуется сервис.
const (
	EnquiryRequest       = "EnquiryRequest"
	EnquiryReceivedEvent = "EnquiryReceivedEvent"
	V1                   = "1.0.0"
)

// Registry хранит скомпилированные схемы по ключу "Name/1.0.0".
type Registry struct {
	schemas map[string]*jsonschema.Schema
}

// NewRegistry компилирует все встроенные схемы: schemas/requests/<name>/vN.json
// и schemas/events/<name>/vN.json.
func NewRegistry() (*Registry, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking schema resources: %w", err)
	}

	r := &Registry{schemas: make(map[string]*jsonschema.Schema, len(paths))}
	for _, path := range paths {
		key, err := keyFromPath(path)
		if err != nil {
			return nil, err
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		r.schemas[key] = schema
	}
	return r, nil
}

// keyFromPath: "schemas/events/enquiry-received/v1.json" -> "EnquiryReceivedEvent/1.0.0",
// "schemas/requests/enquiry/v1.json" -> "EnquiryRequest/1.0.0".
func keyFromPath(path string) (string, error) {
	parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(path, "schemas/"), ".json"), "/")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "v") {
		return "", fmt.Errorf("unexpected schema path %s", path)
	}

	var suffix string
	switch parts[0] {
	case "requests":
		suffix = "Request"
	case "events":
		suffix = "Event"
	default:
		return "", fmt.Errorf("unexpected schema kind %q in %s", parts[0], path)
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[1], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString(suffix)

	return fmt.Sprintf("%s/%s.0.0", name.String(), strings.TrimPrefix(parts[2], "v")), nil
}

// Keys - зарегистрированные ключи в отсортированном виде.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate проверяет JSON-документ по схеме name/version. Нарушение схемы
// возвращается как *domain.RequestContractError.
func (r *Registry) Validate(name, version string, body []byte) error {
	key := name + "/" + version
	schema, ok := r.schemas[key]
	if !ok {
		return fmt.Errorf("schema '%s' not found", key)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return &domain.RequestContractError{Problems: []string{"body is not valid JSON"}}
	}

	if err := schema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return &domain.RequestContractError{Problems: leafProblems(ve)}
		}
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// leafProblems собирает листовые причины в виде "/field: message".
func leafProblems(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	sort.Strings(out)
	return out
}
