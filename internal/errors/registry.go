package errors

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Element Errors (F001-F002)
	// ============================================

	"F001": {
		Category:   CategoryElement,
		Message:    "Malformed element",
		Suggestion: "Pass attributes, listeners, elements, strings or numbers as element arguments.",
	},
	"F002": {
		Category: CategoryElement,
		Message:  "Nil element",
	},

	// ============================================
	// Render Errors (F003-F009)
	// ============================================

	"F003": {
		Category:   CategoryRender,
		Message:    "Hook order changed between renders",
		Suggestion: "Call hooks unconditionally and in the same order on every render.",
	},
	"F004": {
		Category: CategoryRender,
		Message:  "Component panicked during render",
	},
	"F008": {
		Category:   CategoryRender,
		Message:    "Too many re-renders",
		Suggestion: "Do not update state unconditionally while rendering.",
	},
	"F009": {
		Category:   CategoryRender,
		Message:    "Unknown component implementation",
		Suggestion: "Create components with fiber.Define.",
	},

	// ============================================
	// Commit Errors (F007)
	// ============================================

	"F007": {
		Category: CategoryCommit,
		Message:  "No host parent for node",
	},

	// ============================================
	// Scheduler Errors (F005, F006, F010, F011)
	// ============================================

	"F005": {
		Category:   CategoryScheduler,
		Message:    "Root is not mounted",
		Suggestion: "Call Mount before requesting a re-render.",
	},
	"F006": {
		Category: CategoryScheduler,
		Message:  "Root is already mounted into another container",
	},
	"F010": {
		Category: CategoryScheduler,
		Message:  "Render cycle preempted by a newer update",
	},
	"F011": {
		Category: CategoryScheduler,
		Message:  "Root has been unmounted",
	},

	// ============================================
	// Config Errors (F012-F014)
	// ============================================

	"F012": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Run 'fiberdemo init' to write a default fiber.json.",
	},
	"F013": {
		Category:   CategoryConfig,
		Message:    "Failed to read configuration",
		Suggestion: "Check that fiber.json is valid JSON.",
	},
	"F014": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},

	// ============================================
	// Live Session Errors (F015-F017)
	// ============================================

	"F015": {
		Category:   CategoryLive,
		Message:    "Unknown host event",
		Suggestion: "Use a host event name such as click, input or submit.",
	},
	"F016": {
		Category: CategoryLive,
		Message:  "Host node not found",
	},
	"F017": {
		Category:   CategoryLive,
		Message:    "Snapshot publishing is not configured",
		Suggestion: "Set publish.bucket in fiber.json or pass --bucket.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
