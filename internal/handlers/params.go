package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/raspored-app/raspored/internal/calgrid"
)

// pathParams reads the optional year/month/day path segments into
// calgrid.Params. Absent segments stay zero so the resolvers can fall
// back to the current date.
func pathParams(r *http.Request) (calgrid.Params, error) {
	var params calgrid.Params
	for _, seg := range []struct {
		name string
		dst  *int
	}{
		{"year", &params.Year},
		{"month", &params.Month},
		{"day", &params.Day},
	} {
		raw := r.PathValue(seg.name)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return calgrid.Params{}, fmt.Errorf("invalid %s segment %q: %w", seg.name, raw, err)
		}
		*seg.dst = value
	}
	return params, nil
}
