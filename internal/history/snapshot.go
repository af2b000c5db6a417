package history

import (
	"encoding/json"

	"github.com/andy/cotiza/internal/domain"
	"github.com/andy/cotiza/internal/editor"
)

// snapshotAttachment drops the source file so re-read files with the same
// visible content compare equal
type snapshotAttachment struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"desc"`
	Preview     string `json:"preview"`
}

type snapshot struct {
	ClientData  domain.ClientData    `json:"clientData"`
	Items       []domain.Item        `json:"items"`
	Attachments []snapshotAttachment `json:"attachments"`
	Zones       []string             `json:"zones"`
	CompanyLogo *string              `json:"companyLogo"`
}

// ComputeSnapshot serializes the comparable part of a state.
// Equal visible content yields byte-identical output.
func ComputeSnapshot(s editor.State) string {
	snap := snapshot{
		ClientData:  s.Client,
		Items:       s.Items,
		Attachments: make([]snapshotAttachment, len(s.Attachments)),
		Zones:       s.Zones,
		CompanyLogo: s.CompanyLogo,
	}
	if snap.Items == nil {
		snap.Items = []domain.Item{}
	}
	if snap.Zones == nil {
		snap.Zones = []string{}
	}
	for i, a := range s.Attachments {
		snap.Attachments[i] = snapshotAttachment{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Preview:     a.PreviewURL,
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		// only reachable with unencodable values, which State never holds
		return ""
	}
	return string(data)
}
