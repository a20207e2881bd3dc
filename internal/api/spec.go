package api

import (
	"github.com/intellisort/intellisort/internal/config"
	"github.com/intellisort/intellisort/pkg/openapi"
)

func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(schemas())

	spec.Paths["/classifications"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Classify a waste photo",
			Description: "Submits an encoded image to the classifier and stores the resulting record.",
			Tags:        []string{"classifications"},
			RequestBody: openapi.RequestBodyJSON("ClassifyCommand", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Classification recorded", "Classification"),
				400: openapi.ResponseRef("BadRequest"),
				401: openapi.ResponseRef("Unauthorized"),
				502: openapi.ResponseRef("ClassifierUnavailable"),
				500: openapi.ResponseRef("PersistenceFailed"),
			},
		},
		Get: &openapi.Operation{
			Summary: "List classifications",
			Tags:    []string{"classifications"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("search", "string", "Search across category, disposal, and tip", false),
				openapi.QueryParam("sort", "string", "Comma-separated sort fields", false),
				openapi.QueryParam("waste_category", "string", "Exact category filter", false),
				openapi.QueryParam("disposal_type", "string", "Exact disposal filter", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Page of classifications", "ClassificationPage"),
				401: openapi.ResponseRef("Unauthorized"),
			},
		},
	}

	spec.Paths["/classifications/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Find a classification",
			Tags:    []string{"classifications"},
			Parameters: []*openapi.Parameter{
				openapi.PathParam("id", "Classification identifier"),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Classification", "Classification"),
				401: openapi.ResponseRef("Unauthorized"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/classifications/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search classifications",
			Tags:        []string{"classifications"},
			RequestBody: openapi.RequestBodyJSON("SearchRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Page of classifications", "ClassificationPage"),
				400: openapi.ResponseRef("BadRequest"),
				401: openapi.ResponseRef("Unauthorized"),
			},
		},
	}

	spec.Paths["/analytics/summary"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Aggregate statistics over the caller's records",
			Tags:    []string{"analytics"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Summary", "Summary"),
				401: openapi.ResponseRef("Unauthorized"),
			},
		},
	}

	spec.Paths["/analytics/system"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Service-wide aggregate statistics",
			Tags:    []string{"analytics"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Summary", "Summary"),
				401: openapi.ResponseRef("Unauthorized"),
				403: openapi.ResponseRef("Forbidden"),
			},
		},
	}

	spec.Paths["/analytics/overview"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Caller summary with most recent records",
			Tags:    []string{"analytics"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Overview", "Overview"),
				401: openapi.ResponseRef("Unauthorized"),
			},
		},
	}

	return spec
}

func schemas() map[string]*openapi.Schema {
	confidenceMin := 0.0
	confidenceMax := 1.0

	return map[string]*openapi.Schema{
		"ClassifyCommand": {
			Type:     "object",
			Required: []string{"image"},
			Properties: map[string]*openapi.Schema{
				"image": {Type: "string", Description: "Encoded image payload"},
			},
		},
		"Classification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "string", Format: "uuid"},
				"user_id":        {Type: "string"},
				"waste_category": {Type: "string", Description: "Nullable", Example: "plastic"},
				"disposal_type":  {Type: "string", Description: "Nullable", Example: "Recyclable"},
				"confidence": {
					Type:    "number",
					Minimum: &confidenceMin,
					Maximum: &confidenceMax,
				},
				"tip":        {Type: "string", Description: "Nullable"},
				"image_ref":  {Type: "string", Description: "Truncated payload descriptor"},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
		"ClassificationPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Classification")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"SearchRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":           {Type: "integer"},
				"page_size":      {Type: "integer"},
				"search":         {Type: "string"},
				"sort":           {Type: "string"},
				"user_id":        {Type: "string", Description: "Admin only; non-admin callers are scoped to their own records"},
				"waste_category": {Type: "string"},
				"disposal_type":  {Type: "string"},
			},
		},
		"GroupCount": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":   {Type: "string", Description: "Nullable group key"},
				"count": {Type: "integer"},
			},
		},
		"DailyCount": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"date":  {Type: "string", Format: "date"},
				"count": {Type: "integer"},
			},
		},
		"Summary": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"total_classifications": {Type: "integer"},
				"category_distribution": {Type: "array", Items: openapi.SchemaRef("GroupCount")},
				"disposal_distribution": {Type: "array", Items: openapi.SchemaRef("GroupCount")},
				"daily_trend":           {Type: "array", Items: openapi.SchemaRef("DailyCount")},
				"average_confidence":    {Type: "number", Description: "0 when no confidence values are present"},
				"distinct_categories":   {Type: "integer"},
				"recyclable_count":      {Type: "integer"},
			},
		},
		"Overview": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"summary": openapi.SchemaRef("Summary"),
				"recent":  {Type: "array", Items: openapi.SchemaRef("Classification")},
			},
		},
	}
}
