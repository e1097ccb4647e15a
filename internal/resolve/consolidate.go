package resolve

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/orderdex/internal/domain/company"
)

// Consolidator turns clusters plus the observation stream into the final
// consolidated rows. It needs the normalizer to recover display forms for
// canonical-name voting. No I/O, no side effects.
type Consolidator struct {
	norm *Normalizer
}

// NewConsolidator creates a consolidator over the given normalizer.
func NewConsolidator(norm *Normalizer) *Consolidator {
	return &Consolidator{norm: norm}
}

// Consolidate produces one row per cluster, ordered by ascending canonical
// company id. Observations are scanned in a canonical order (order id, then
// company id), so the output is identical however the input was shuffled.
func (c *Consolidator) Consolidate(
	clusters [][]string, observations []company.Observation,
) []company.Resolved {
	byID := groupObservations(observations)

	rows := make([]company.Resolved, 0, len(clusters))
	for _, cluster := range clusters {
		rows = append(rows, c.consolidateGroup(cluster, byID))
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].CompanyID < rows[j].CompanyID })
	return rows
}

// ConsolidateCluster resolves a single cluster against the full observation
// stream.
func (c *Consolidator) ConsolidateCluster(
	cluster []string, observations []company.Observation,
) company.Resolved {
	return c.consolidateGroup(cluster, groupObservations(observations))
}

func (c *Consolidator) consolidateGroup(
	cluster []string, byID map[string][]company.Observation,
) company.Resolved {
	members := append([]string(nil), cluster...)
	sort.Strings(members)

	canonicalID := ""
	if len(members) > 0 {
		canonicalID = members[0]
	}

	clusterObs := make([]company.Observation, 0)
	for _, id := range members {
		clusterObs = append(clusterObs, byID[id]...)
	}
	sort.Slice(clusterObs, func(i, j int) bool {
		if clusterObs[i].OrderID != clusterObs[j].OrderID {
			return clusterObs[i].OrderID < clusterObs[j].OrderID
		}
		return clusterObs[i].CompanyID < clusterObs[j].CompanyID
	})

	// Canonical name: the most frequent display form across the cluster's
	// observations; ties go to the display form whose smallest originating
	// raw string sorts first.
	displayCount := make(map[string]int)
	displayMinRaw := make(map[string]string)

	// Owner dedup is case-insensitive, keeping the casing seen first in the
	// canonical scan order.
	ownerCasing := make(map[string]string)

	for _, obs := range clusterObs {
		d := c.norm.Normalize(obs.RawName).Display
		displayCount[d]++
		if raw, seen := displayMinRaw[d]; !seen || obs.RawName < raw {
			displayMinRaw[d] = obs.RawName
		}

		for _, owner := range obs.SalesOwners {
			owner = strings.TrimSpace(owner)
			if owner == "" {
				continue
			}
			key := strings.ToLower(owner)
			if _, seen := ownerCasing[key]; !seen {
				ownerCasing[key] = owner
			}
		}
	}

	name := ""
	bestCount := -1
	for d, n := range displayCount {
		switch {
		case n > bestCount:
			name, bestCount = d, n
		case n == bestCount && displayMinRaw[d] < displayMinRaw[name]:
			name = d
		case n == bestCount && displayMinRaw[d] == displayMinRaw[name] && d < name:
			name = d
		}
	}
	if bestCount < 0 {
		name = ""
	}

	owners := make([]string, 0, len(ownerCasing))
	for _, casing := range ownerCasing {
		owners = append(owners, casing)
	}
	sort.Slice(owners, func(i, j int) bool {
		return strings.ToLower(owners[i]) < strings.ToLower(owners[j])
	})

	return company.Resolved{
		CompanyID:   canonicalID,
		Name:        name,
		SalesOwners: owners,
	}
}

// groupObservations indexes observations by company id, each group held in
// the canonical scan order: ascending order id, then company id.
func groupObservations(observations []company.Observation) map[string][]company.Observation {
	sorted := append([]company.Observation(nil), observations...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].OrderID != sorted[j].OrderID {
			return sorted[i].OrderID < sorted[j].OrderID
		}
		return sorted[i].CompanyID < sorted[j].CompanyID
	})

	byID := make(map[string][]company.Observation)
	for _, obs := range sorted {
		byID[obs.CompanyID] = append(byID[obs.CompanyID], obs)
	}
	return byID
}
