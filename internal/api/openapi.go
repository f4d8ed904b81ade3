package api

import (
	"github.com/archis17/AI-KYC/internal/config"
	"github.com/archis17/AI-KYC/pkg/openapi"
)

// BuildSpec describes the user-facing API surface. The automation surface is
// key-guarded and internal, so it stays out of the published document.
// Served at /openapi.json and exported for the spec-dump command.
func BuildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.Docs.Title, cfg.Version)
	spec.SetDescription(cfg.API.Docs.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(caseSchemas())
	spec.Components.AddSchemas(documentSchemas())
	spec.Components.AddResponses(map[string]*openapi.Response{
		"Unauthorized":         errorResponse("Missing or invalid bearer token"),
		"Forbidden":            errorResponse("Caller lacks the required role"),
		"PayloadTooLarge":      errorResponse("File exceeds the maximum upload size"),
		"UnsupportedMediaType": errorResponse("File content type is not accepted"),
	})

	addCasePaths(spec)
	addDocumentPaths(spec)

	return spec
}

func errorResponse(description string) *openapi.Response {
	return &openapi.Response{
		Description: description,
		Content: map[string]*openapi.MediaType{
			"application/json": {
				Schema: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"error": {Type: "string", Description: "Error message"},
					},
				},
			},
		},
	}
}

// pageSchema wraps an item schema in the shared page envelope.
func pageSchema(itemSchema string) *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef(itemSchema)},
			"total":       {Type: "integer", Description: "Total matching records"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	}
}

func caseSchemas() map[string]*openapi.Schema {
	statusEnum := []any{"pending", "processing", "approved", "review", "rejected"}

	return map[string]*openapi.Schema{
		"Case": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"subject":    {Type: "string", Description: "Identity of the applicant under verification"},
				"status":     {Type: "string", Enum: statusEnum},
				"created_at": {Type: "string", Format: "date-time"},
				"updated_at": {Type: "string", Format: "date-time"},
			},
		},
		"CaseDetail": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"subject":    {Type: "string"},
				"status":     {Type: "string", Enum: statusEnum},
				"created_at": {Type: "string", Format: "date-time"},
				"updated_at": {Type: "string", Format: "date-time"},
				"documents":  {Type: "array", Items: openapi.SchemaRef("Document")},
				"risk_score": openapi.SchemaRef("RiskScore"),
			},
		},
		"CasePage": pageSchema("Case"),
		"Progress": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"case_id": {Type: "string", Format: "uuid"},
				"status":  {Type: "string", Enum: statusEnum},
				"stage": {
					Type: "string",
					Enum: []any{"pending", "uploading", "ocr", "ner", "llm", "risk_scoring", "workflow", "completed", "unknown"},
				},
				"message": {Type: "string"},
			},
		},
		"AuditEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"case_id":    {Type: "string", Format: "uuid"},
				"actor":      {Type: "string", Description: "Subject or \"system\" for pipeline actions"},
				"action":     {Type: "string"},
				"details":    {Type: "object"},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
		"AuditPage": pageSchema("AuditEntry"),
		"RiskFactor": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"score":        {Type: "number", Description: "Raw sub-score, 0-100"},
				"weight":       {Type: "number"},
				"contribution": {Type: "number", Description: "score x weight / 100"},
			},
		},
		"RiskScore": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"case_id":      {Type: "string", Format: "uuid"},
				"score":        {Type: "number", Description: "Composite risk, 0-100"},
				"decision":     {Type: "string", Enum: []any{"approved", "review", "rejected"}},
				"reasoning":    {Type: "string", Description: "Human-readable explanation with top risk factors"},
				"risk_factors": {Type: "object", Description: "Factor name to RiskFactor"},
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"OverrideRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"reason": {Type: "string", Description: "Why the decision was overridden"},
			},
		},
	}
}

func documentSchemas() map[string]*openapi.Schema {
	typeEnum := []any{"id_card", "passport", "proof_of_address", "bank_statement", "other"}

	return map[string]*openapi.Schema{
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"case_id":      {Type: "string", Format: "uuid"},
				"doc_type":     {Type: "string", Enum: typeEnum},
				"filename":     {Type: "string"},
				"content_type": {Type: "string"},
				"size_bytes":   {Type: "integer"},
				"page_count":   {Type: "integer"},
				"storage_key":  {Type: "string"},
				"extraction":   openapi.SchemaRef("Extraction"),
				"entities":     openapi.SchemaRef("Entities"),
				"validation":   openapi.SchemaRef("Validation"),
				"uploaded_at":  {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"DocumentPage": pageSchema("Document"),
		"Extraction": {
			Type:        "object",
			Description: "Text extraction result; null until the stage has run",
			Properties: map[string]*openapi.Schema{
				"text":       {Type: "string"},
				"confidence": {Type: "number", Description: "Extraction confidence, 0.0-1.0"},
				"failed":     {Type: "boolean"},
				"error_kind": {Type: "string"},
				"error":      {Type: "string"},
			},
		},
		"Entities": {
			Type:        "object",
			Description: "Extracted identity fields; null until the stage has run",
			Properties: map[string]*openapi.Schema{
				"name":      {Type: "string"},
				"dob":       {Type: "string"},
				"address":   {Type: "string"},
				"id_number": {Type: "string"},
			},
		},
		"Validation": {
			Type:        "object",
			Description: "Cross-document validation result; null until the stage has run",
			Properties: map[string]*openapi.Schema{
				"valid":         {Type: "boolean"},
				"reasoning":     {Type: "string"},
				"fraud_signals": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"mismatches":    {Type: "object", Description: "Field name to mismatch description"},
				"skipped":       {Type: "boolean"},
				"failed":        {Type: "boolean"},
				"error_kind":    {Type: "string"},
				"error":         {Type: "string"},
			},
		},
		"DocumentSearchRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":      {Type: "integer", Example: 1},
				"page_size": {Type: "integer", Example: 20},
				"sort":      {Type: "string"},
				"case_id":   {Type: "string", Format: "uuid"},
				"doc_type":  {Type: "string", Enum: typeEnum},
			},
		},
	}
}

func addCasePaths(spec *openapi.Spec) {
	pageParams := []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("sort", "string", "Comma-separated sort fields, - prefix for descending", false),
	}

	spec.Paths["/cases"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Open a verification case",
			Tags:    []string{"cases"},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Case created", "Case"),
				401: openapi.ResponseRef("Unauthorized"),
			},
		},
		Get: &openapi.Operation{
			Summary:     "List cases",
			Description: "Non-admin callers only see their own cases.",
			Tags:        []string{"cases"},
			Parameters: append(pageParams,
				openapi.QueryParam("status", "string", "Filter by case status", false),
			),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Case page", "CasePage"),
				400: openapi.ResponseRef("BadRequest"),
				401: openapi.ResponseRef("Unauthorized"),
			},
		},
	}

	spec.Paths["/cases/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Case detail with documents and risk score",
			Tags:       []string{"cases"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Case ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Case detail", "CaseDetail"),
				401: openapi.ResponseRef("Unauthorized"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:     "Delete a case and its documents",
			Description: "Admin only. Removes the case, its documents, stored files, score, and audit trail.",
			Tags:        []string{"cases"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Case ID")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Case deleted"},
				401: openapi.ResponseRef("Unauthorized"),
				403: openapi.ResponseRef("Forbidden"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/cases/{id}/status"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Processing progress projection",
			Tags:       []string{"cases"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Case ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Current stage", "Progress"),
				401: openapi.ResponseRef("Unauthorized"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/cases/{id}/audit"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Audit trail for a case",
			Tags:       []string{"cases"},
			Parameters: append([]*openapi.Parameter{openapi.PathParam("id", "Case ID")}, pageParams...),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Audit page", "AuditPage"),
				401: openapi.ResponseRef("Unauthorized"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/cases/{id}/documents"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Upload a document to a case",
			Tags:       []string{"cases", "documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Case ID")},
			RequestBody: &openapi.RequestBody{
				Required: true,
				Content: map[string]*openapi.MediaType{
					"multipart/form-data": {
						Schema: &openapi.Schema{
							Type:     "object",
							Required: []string{"file", "doc_type"},
							Properties: map[string]*openapi.Schema{
								"file": {Type: "string", Format: "binary"},
								"doc_type": {
									Type: "string",
									Enum: []any{"id_card", "passport", "proof_of_address", "bank_statement", "other"},
								},
							},
						},
					},
				},
			},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Document accepted for processing", "Document"),
				400: openapi.ResponseRef("BadRequest"),
				401: openapi.ResponseRef("Unauthorized"),
				404: openapi.ResponseRef("NotFound"),
				413: openapi.ResponseRef("PayloadTooLarge"),
				415: openapi.ResponseRef("UnsupportedMediaType"),
			},
		},
	}

	for _, decision := range []string{"approve", "reject"} {
		spec.Paths["/cases/{id}/"+decision] = &openapi.PathItem{
			Post: &openapi.Operation{
				Summary:     "Override the case decision: " + decision,
				Description: "Admin only. Requires the case to have been scored.",
				Tags:        []string{"cases"},
				Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Case ID")},
				RequestBody: openapi.RequestBodyJSON("OverrideRequest", false),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Updated case", "Case"),
					401: openapi.ResponseRef("Unauthorized"),
					403: openapi.ResponseRef("Forbidden"),
					404: openapi.ResponseRef("NotFound"),
					409: openapi.ResponseRef("Conflict"),
				},
			},
		}
	}
}

func addDocumentPaths(spec *openapi.Spec) {
	pageParams := []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("sort", "string", "Comma-separated sort fields, - prefix for descending", false),
	}

	spec.Paths["/documents"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:     "List documents",
			Description: "Non-admin callers only see documents on their own cases.",
			Tags:        []string{"documents"},
			Parameters: append(pageParams,
				openapi.QueryParam("case_id", "string", "Filter by owning case", false),
				openapi.QueryParam("doc_type", "string", "Filter by document type", false),
			),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Document page", "DocumentPage"),
				400: openapi.ResponseRef("BadRequest"),
				401: openapi.ResponseRef("Unauthorized"),
			},
		},
	}

	spec.Paths["/documents/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Document metadata and stage results",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Document", "Document"),
				401: openapi.ResponseRef("Unauthorized"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/documents/{id}/content"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download the stored file",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document ID")},
			Responses: map[int]*openapi.Response{
				200: {
					Description: "File stream",
					Content: map[string]*openapi.MediaType{
						"application/octet-stream": {
							Schema: &openapi.Schema{Type: "string", Format: "binary"},
						},
					},
				},
				401: openapi.ResponseRef("Unauthorized"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/documents/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search documents with body filters",
			Tags:        []string{"documents"},
			RequestBody: openapi.RequestBodyJSON("DocumentSearchRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Document page", "DocumentPage"),
				400: openapi.ResponseRef("BadRequest"),
				401: openapi.ResponseRef("Unauthorized"),
			},
		},
	}
}
