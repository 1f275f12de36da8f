package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://vango.dev/docs/fiber/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reconciliation Errors (F001-F009)
	// ============================================

	"F001": {
		Category: CategoryHost,
		Message:  "Host construction failed",
		Detail:   "The host factory returned an error while materializing a host fiber. The reconciliation pass was aborted and nothing was committed.",
		DocURL:   docBase + "F001",
	},
	"F002": {
		Category: CategoryLifecycle,
		Message:  "Derived state failed",
		Detail:   "DeriveState returned an error. The component renders nothing for this pass.",
		DocURL:   docBase + "F002",
	},
	"F003": {
		Category: CategoryLifecycle,
		Message:  "Child context failed",
		Detail:   "ChildContext returned an error. Descendants see the parent context unchanged.",
		DocURL:   docBase + "F003",
	},
	"F004": {
		Category: CategoryLifecycle,
		Message:  "Instance construction failed",
		Detail:   "The instance factory could not create a component instance.",
		DocURL:   docBase + "F004",
	},
	"F005": {
		Category: CategoryChildren,
		Message:  "Invalid child",
		Detail:   "A child value is not an element, text, number, fiber, sequence, bool or nil.",
		DocURL:   docBase + "F005",
	},
	"F006": {
		Category: CategoryHost,
		Message:  "Pass already running",
		Detail:   "A reconciliation pass was started while another pass on the same reconciler had not finished. Queue the update instead of reconciling from inside a lifecycle hook.",
		DocURL:   docBase + "F006",
	},
	"F007": {
		Category: CategoryLifecycle,
		Message:  "Lifecycle hook failed",
		Detail:   "A lifecycle hook panicked. The component renders nothing for this pass.",
		DocURL:   docBase + "F007",
	},

	// ============================================
	// Config Errors (F010-F019)
	// ============================================

	"F010": {
		Category: CategoryConfig,
		Message:  "Invalid fiber.json",
		Detail:   "The configuration file could not be parsed as JSON.",
		DocURL:   docBase + "F010",
	},
	"F011": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "log.level must be one of debug, info, warn or error.",
		DocURL:   docBase + "F011",
	},
	"F012": {
		Category: CategoryConfig,
		Message:  "Invalid devtools setting",
		Detail:   "devtools.history must be positive and devtools.listen must be host:port.",
		DocURL:   docBase + "F012",
	},

	// ============================================
	// CLI Errors (F020-F029)
	// ============================================

	"F020": {
		Category: CategoryCLI,
		Message:  "Invalid tree snapshot",
		Detail:   "The snapshot file is not a valid JSON element tree.",
		DocURL:   docBase + "F020",
	},
	"F021": {
		Category: CategoryCLI,
		Message:  "Snapshot not found",
		Detail:   "The snapshot file does not exist or cannot be read.",
		DocURL:   docBase + "F021",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
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
