package mcpclient

// CleanSchema returns a deep copy of a JSON Schema with every "title"
// field removed, including inside nested "properties" and "items".
// Some completion APIs reject schemas carrying title annotations that
// MCP tool definitions routinely include.
func CleanSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return nil
	}

	cleaned := make(map[string]any, len(schema))
	for key, value := range schema {
		if key == "title" {
			continue
		}

		switch key {
		case "properties":
			if props, ok := value.(map[string]any); ok {
				cleanedProps := make(map[string]any, len(props))
				for name, prop := range props {
					if propSchema, ok := prop.(map[string]any); ok {
						cleanedProps[name] = CleanSchema(propSchema)
					} else {
						cleanedProps[name] = prop
					}
				}
				cleaned[key] = cleanedProps
				continue
			}
		case "items":
			if itemSchema, ok := value.(map[string]any); ok {
				cleaned[key] = CleanSchema(itemSchema)
				continue
			}
		}

		cleaned[key] = value
	}

	return cleaned
}
