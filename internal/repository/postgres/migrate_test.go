package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrator_LoadMigrationsSorted(t *testing.T) {
	m := NewMigrator(nil)

	migrations, err := m.LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version)
	}
	assert.Equal(t, 1, migrations[0].Version)
}

func TestMigrations_EnforceSingleOpenAdmissionPerBed(t *testing.T) {
	m := NewMigrator(nil)
	migrations, err := m.LoadMigrations()
	require.NoError(t, err)

	var all strings.Builder
	for _, mig := range migrations {
		all.WriteString(mig.SQL)
	}
	schema := all.String()

	assert.Contains(t, schema, openBedConstraint)
	assert.Contains(t, schema, openPatientConstraint)
	assert.NotContains(t, schema, "is_occupied")
}
