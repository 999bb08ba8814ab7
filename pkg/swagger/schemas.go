package swagger

import "github.com/getkin/kin-openapi/openapi3"

// defaultTypesToObject walks every schema reachable from the document and
// sets "type: object" on schemas that declare neither a type nor a
// composition keyword. Mirrors validators that treat untyped schemas as
// objects rather than matching anything.
func defaultTypesToObject(doc *openapi3.T) {
	w := &schemaWalker{seen: make(map[*openapi3.Schema]bool)}

	if doc.Components != nil {
		for _, ref := range doc.Components.Schemas {
			w.walk(ref)
		}
		for _, param := range doc.Components.Parameters {
			if param.Value != nil {
				w.walk(param.Value.Schema)
			}
		}
	}

	if doc.Paths == nil {
		return
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			w.walkOperation(op)
		}
	}
}

type schemaWalker struct {
	seen map[*openapi3.Schema]bool
}

func (w *schemaWalker) walkOperation(op *openapi3.Operation) {
	if op == nil {
		return
	}
	for _, param := range op.Parameters {
		if param.Value != nil {
			w.walk(param.Value.Schema)
		}
	}
	if op.RequestBody != nil && op.RequestBody.Value != nil {
		w.walkContent(op.RequestBody.Value.Content)
	}
	if op.Responses != nil {
		for _, resp := range op.Responses.Map() {
			if resp.Value == nil {
				continue
			}
			w.walkContent(resp.Value.Content)
			for _, header := range resp.Value.Headers {
				if header.Value != nil {
					w.walk(header.Value.Schema)
				}
			}
		}
	}
}

func (w *schemaWalker) walkContent(content openapi3.Content) {
	for _, media := range content {
		w.walk(media.Schema)
	}
}

func (w *schemaWalker) walk(ref *openapi3.SchemaRef) {
	if ref == nil || ref.Value == nil {
		return
	}
	s := ref.Value
	if w.seen[s] {
		return
	}
	w.seen[s] = true

	if typeIsEmpty(s.Type) && len(s.AllOf) == 0 && len(s.AnyOf) == 0 && len(s.OneOf) == 0 && s.Not == nil {
		s.Type = &openapi3.Types{"object"}
	}

	for _, prop := range s.Properties {
		w.walk(prop)
	}
	w.walk(s.Items)
	w.walk(s.Not)
	for _, sub := range s.AllOf {
		w.walk(sub)
	}
	for _, sub := range s.AnyOf {
		w.walk(sub)
	}
	for _, sub := range s.OneOf {
		w.walk(sub)
	}
	if s.AdditionalProperties.Schema != nil {
		w.walk(s.AdditionalProperties.Schema)
	}
}

func typeIsEmpty(t *openapi3.Types) bool {
	return t == nil || len(*t) == 0
}
