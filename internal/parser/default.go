package parser

const (
	DefaultType    = "App.Error"
	DefaultMessage = "An unexpected error occurred"
)

// Default is the last classifier of every chain. It never calls next: any raw
// error becomes a record with type, message and errors filled in.
func Default(raw any, _ Next) Result {
	return Resolve(Normalize(raw))
}

// Normalize turns any raw error value into a minimally valid Record.
func Normalize(raw any) Record {
	var rec Record

	switch v := raw.(type) {
	case string:
		rec = Record{Message: v}
	case Record:
		rec = v
	case *Record:
		if v != nil {
			rec = *v
		}
	case map[string]any:
		rec = fromMap(v)
	case error:
		rec = Record{Message: v.Error(), Detail: v}
	default:
		rec = Record{ExtendedInfo: raw}
	}

	if rec.Type == "" {
		rec.Type = DefaultType
	}

	if rec.Message == "" {
		rec.Message = DefaultMessage
	}

	if rec.Errors == nil {
		rec.Errors = []FieldError{}
	}

	return rec
}

// reads the record fields out of a decoded JSON object
func fromMap(m map[string]any) Record {
	rec := Record{
		Detail:       m["detail"],
		ExtendedInfo: m["extendedInfo"],
	}

	rec.Type, _ = m["type"].(string)
	rec.Title, _ = m["title"].(string)
	rec.Message, _ = m["message"].(string)

	switch errs := m["errors"].(type) {
	case []FieldError:
		rec.Errors = errs
	case []any:
		rec.Errors = fieldErrors(errs)
	}

	return rec
}

// keeps the well-formed entries; anything malformed yields an empty list
func fieldErrors(items []any) []FieldError {
	out := make([]FieldError, 0, len(items))

	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return []FieldError{}
		}

		field, _ := entry["field"].(string)
		message, _ := entry["message"].(string)
		out = append(out, FieldError{Field: field, Message: message})
	}

	return out
}
