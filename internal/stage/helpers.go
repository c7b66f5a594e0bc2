package stage

import (
	"encoding/json"
	"strings"

	"pressrun/internal/media"
	"pressrun/internal/services"
)

// ParseBundle decodes the media bundle a previous stage stored on the item.
// On failure it returns a services.ErrValidation suitable for stage Execute
// methods.
func ParseBundle(raw string) (media.Bundle, error) {
	if strings.TrimSpace(raw) == "" {
		return media.Bundle{}, nil
	}
	var bundle media.Bundle
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		return media.Bundle{}, services.Wrap(
			services.ErrValidation, "stage", "parse media bundle",
			"Media metadata missing or invalid; rerun the media fetch stage", err)
	}
	return bundle, nil
}
