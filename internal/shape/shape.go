// Package shape normalizes the project relation on fetched property
// rows. Depending on how a query was built the relation arrives either
// as a single struct (single-row fetch) or as an ordered list (batched
// slug lookup on list fetches). Everything downstream sees one shape:
// a nullable single project.
package shape

import "github.com/baanlist-dev/baanlist/internal/models"

// ProjectJoin is the tagged raw form of the relation as it comes off a
// query. At most one of One and Many is set.
type ProjectJoin struct {
	One  *models.Project
	Many []models.Project
}

// Record is a property with its relation normalized to a single
// project pointer, nil when the relation was absent.
type Record struct {
	models.Property
	Project *models.Project
}

// Normalize flattens a raw join into the uniform record. A scalar
// relation is kept as-is; a list keeps index 0 and discards the rest
// (the schema guarantees at most one project per property, longer
// lists are handled defensively, not expected).
func Normalize(p models.Property, join ProjectJoin) Record {
	record := Record{Property: p}

	switch {
	case join.One != nil:
		record.Project = join.One
	case len(join.Many) > 0:
		project := join.Many[0]
		record.Project = &project
	}

	return record
}

// NormalizeRows shapes a fetched batch, pairing each row with its
// list-form join by project slug.
func NormalizeRows(properties []models.Property, joins map[string][]models.Project) []Record {
	records := make([]Record, 0, len(properties))

	for _, p := range properties {
		records = append(records, Normalize(p, ProjectJoin{Many: joins[p.ProjectSlug]}))
	}

	return records
}
