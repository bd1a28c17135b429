package analysis

import (
	"strconv"
	"strings"

	"github.com/finops-tools/cloudopt/pkg/models/domain"
)

var nonProductionEnvs = map[string]bool{
	"dev":         true,
	"development": true,
	"test":        true,
	"staging":     true,
	"qa":          true,
}

// IsNonProduction reports whether a resource's environment tag marks it as
// dev/test/staging/qa. Tag keys are case-sensitive, so the common spellings
// are checked independently; values compare case-insensitively.
func IsNonProduction(r domain.Resource) bool {
	if r.Tags == nil {
		return false
	}
	for _, key := range []string{"environment", "Environment", "env"} {
		if nonProductionEnvs[strings.ToLower(r.Tags[key])] {
			return true
		}
	}
	return false
}

func filterNonProduction(resources []domain.Resource) []domain.Resource {
	var nonProd []domain.Resource
	for _, r := range resources {
		if IsNonProduction(r) {
			nonProd = append(nonProd, r)
		}
	}
	return nonProd
}

// storageSizeGB parses the size_gb metadata fact; resources without it (or
// with an unparseable value) simply never match size-based rules.
func storageSizeGB(r domain.Resource) float64 {
	if r.Metadata == nil {
		return 0
	}
	size, err := strconv.ParseFloat(r.Metadata["size_gb"], 64)
	if err != nil {
		return 0
	}
	return size
}
