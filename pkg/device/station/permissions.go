package station

import (
	"context"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

// Permissions answers capability requests from the station's configured grants.
type Permissions struct {
	grants map[models.Capability]bool
}

// NewPermissions builds a grant table.
func NewPermissions(grants []models.Capability) *Permissions {
	table := make(map[models.Capability]bool, len(grants))
	for _, g := range grants {
		table[g] = true
	}
	return &Permissions{grants: table}
}

// Granted reports whether the capability is granted.
func (p *Permissions) Granted(c models.Capability) bool {
	return p.grants[c]
}

// RequestMultiple returns the status of each requested capability.
func (p *Permissions) RequestMultiple(_ context.Context, capabilities []models.Capability) (map[models.Capability]models.PermissionStatus, error) {
	out := make(map[models.Capability]models.PermissionStatus, len(capabilities))
	for _, c := range capabilities {
		if p.grants[c] {
			out[c] = models.PermissionGranted
		} else {
			out[c] = models.PermissionDenied
		}
	}
	return out, nil
}
