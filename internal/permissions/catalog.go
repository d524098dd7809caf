// server/internal/permissions/catalog.go

// Package permissions holds the static permission catalog and role
// templates. Permissions are resolved once per request into an immutable
// set; handlers never re-check roles ad hoc.
package permissions

// Catalog maps every permission name to its description. Names follow
// {aggregate}:{action}.
var Catalog = map[string]string{
	"customers:read":          "View customers and their vehicles",
	"customers:write":         "Create and edit customers and vehicles",
	"variations:read":         "View the service catalog",
	"variations:write":        "Create and version service catalog entries",
	"registration:create":     "Run the intake wizard (customer + quotation)",
	"quotations:approve":      "Approve or decline quotations",
	"workorders:read":         "View work orders and stage logs",
	"workorders:assign":       "Assign technicians to stages",
	"workorders:work":         "Start, complete and report errors on stages",
	"workorders:cancel":       "Approve work order cancellation",
	"qa:review":               "Approve or reject QA verifications",
	"invoices:read":           "View invoices",
	"invoices:generate":       "Generate invoices from completed work orders",
	"invoices:record-payment": "Record payments against invoices",
	"cases:read":              "View cases",
	"cases:write":             "Create and update cases",
	"expenses:read":           "View expenses",
	"expenses:write":          "Record expenses and receipts",
	"payroll:read":            "View pay stubs",
	"payroll:write":           "Compute and issue pay stubs",
	"messages:use":            "Send and read messages",
	"notifications:read":      "Read notifications",
	"users:admin":             "Manage staff accounts",
}

// roleTemplates maps each role to its granted permission names.
var roleTemplates = map[string][]string{
	"supervisor": {
		"customers:read", "customers:write",
		"variations:read", "variations:write",
		"registration:create", "quotations:approve",
		"workorders:read", "workorders:assign", "workorders:work", "workorders:cancel",
		"qa:review",
		"invoices:read", "invoices:generate",
		"cases:read", "cases:write",
		"expenses:read",
		"messages:use", "notifications:read",
	},
	"technician": {
		"workorders:read", "workorders:work",
		"variations:read",
		"messages:use", "notifications:read",
	},
	"accountant": {
		"customers:read",
		"invoices:read", "invoices:generate", "invoices:record-payment",
		"expenses:read", "expenses:write",
		"payroll:read", "payroll:write",
		"messages:use", "notifications:read",
	},
	"receptionist": {
		"customers:read", "customers:write",
		"variations:read",
		"registration:create",
		"cases:read", "cases:write",
		"messages:use", "notifications:read",
	},
}

// Set is an immutable collection of granted permission names.
type Set struct {
	granted map[string]struct{}
}

// Has reports whether the permission was granted.
func (s Set) Has(name string) bool {
	_, ok := s.granted[name]
	return ok
}

// Names returns the granted permission names.
func (s Set) Names() []string {
	names := make([]string, 0, len(s.granted))
	for name := range s.granted {
		names = append(names, name)
	}
	return names
}

// Resolve computes the permission set for a role. Admin gets the full
// catalog; an unknown role resolves to the empty set.
func Resolve(role string) Set {
	granted := make(map[string]struct{})
	if role == "admin" {
		for name := range Catalog {
			granted[name] = struct{}{}
		}
		return Set{granted: granted}
	}
	for _, name := range roleTemplates[role] {
		granted[name] = struct{}{}
	}
	return Set{granted: granted}
}
