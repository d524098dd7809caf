// server/internal/permissions/catalog_test.go
package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleTemplatesReferenceCatalog(t *testing.T) {
	for role, names := range roleTemplates {
		for _, name := range names {
			_, ok := Catalog[name]
			assert.True(t, ok, "role %s grants unknown permission %s", role, name)
		}
	}
}

func TestResolveAdminGetsFullCatalog(t *testing.T) {
	set := Resolve("admin")
	for name := range Catalog {
		assert.True(t, set.Has(name), "admin missing %s", name)
	}
	assert.Len(t, set.Names(), len(Catalog))
}

func TestResolveTechnician(t *testing.T) {
	set := Resolve("technician")

	assert.True(t, set.Has("workorders:work"))
	assert.True(t, set.Has("workorders:read"))
	assert.False(t, set.Has("workorders:cancel"))
	assert.False(t, set.Has("qa:review"))
	assert.False(t, set.Has("invoices:record-payment"))
	assert.False(t, set.Has("users:admin"))
}

func TestResolveAccountantCannotTouchQA(t *testing.T) {
	set := Resolve("accountant")

	assert.True(t, set.Has("invoices:record-payment"))
	assert.True(t, set.Has("payroll:write"))
	assert.False(t, set.Has("qa:review"))
	assert.False(t, set.Has("workorders:work"))
}

func TestResolveUnknownRoleIsEmpty(t *testing.T) {
	set := Resolve("janitor")
	assert.Empty(t, set.Names())
	assert.False(t, set.Has("customers:read"))
}
