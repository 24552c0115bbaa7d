package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Render errors (E001-E099)

	"E001": {
		Category:   CategoryRender,
		Message:    "Unrenderable value",
		Detail:     "A descriptor or child has a type the renderer cannot turn into nodes or text.",
		Suggestion: "Convert the value to a string, number, element or a list of those.",
	},
	"E002": {
		Category: CategoryRender,
		Message:  "Component failed",
		Detail:   "A component function returned an error or panicked while rendering.",
	},
	"E003": {
		Category:   CategoryRender,
		Message:    "Attribute coercion failed",
		Detail:     "An attribute value could not be serialized for its domain.",
		Suggestion: "Register a coercer for the attribute or pass a plain string.",
	},

	// Config errors (E100-E199)

	"E100": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Detail:     "No ripple.yaml was found in the directory or any parent.",
		Suggestion: "Create ripple.yaml or pass --config.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "ripple.yaml could not be parsed or failed validation.",
	},

	// Server errors (E200-E299)

	"E200": {
		Category:   CategoryServer,
		Message:    "Server failed to start",
		Suggestion: "Check that the address is free and well formed.",
	},
	"E201": {
		Category: CategoryServer,
		Message:  "Page not found",
		Detail:   "No page is registered under that name.",
	},

	// Export errors (E300-E399)

	"E300": {
		Category: CategoryExport,
		Message:  "Export failed",
		Detail:   "One or more pages could not be rendered or published.",
	},
	"E301": {
		Category:   CategoryExport,
		Message:    "Object storage unavailable",
		Detail:     "The S3 client could not be configured.",
		Suggestion: "Set export.bucket and export.region, and provide AWS credentials in the environment.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
