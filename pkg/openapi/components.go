package openapi

import "maps"

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {
				Schema: &Schema{
					Type: "object",
					Properties: map[string]*Schema{
						"error": {Type: "string", Description: "Error message with diagnostic detail"},
					},
				},
			},
		},
	}
}

// NewComponents creates Components with shared schemas and error responses.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields. Prefix with - for descending. Example: waste_category,-created_at"},
				},
			},
		},
		Responses: map[string]*Response{
			"Unauthorized":          errorResponse("Missing or invalid bearer token"),
			"Forbidden":             errorResponse("Caller lacks the required role"),
			"BadRequest":            errorResponse("Missing or invalid request payload"),
			"NotFound":              errorResponse("Resource not found"),
			"ClassifierUnavailable": errorResponse("Classification service unreachable or returned a failure; includes upstream status and body"),
			"PersistenceFailed":     errorResponse("Storage write failed; includes storage diagnostic"),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
