package model

import (
	"encoding/json"

	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

// KRI is a key risk indicator measured against a threshold
type KRI struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	RiskID       string          `json:"risk_id"`
	CurrentValue float64         `json:"current_value"`
	Threshold    float64         `json:"threshold"`
	Unit         string          `json:"unit,omitempty"`
	Status       types.KRIStatus `json:"status"`
	Trend        types.Trend     `json:"trend"`
	KCIIDs       IDList          `json:"kci_ids"`
}

// Clone returns a copy that shares no slices with k
func (k KRI) Clone() KRI {
	k.KCIIDs = k.KCIIDs.Clone()
	return k
}

// KCI is a key control indicator measured against a target
type KCI struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	KRIID            string          `json:"kri_id"`
	UnifiedControlID string          `json:"unified_control_id"`
	CurrentValue     float64         `json:"current_value"`
	Target           float64         `json:"target"`
	Unit             string          `json:"unit,omitempty"`
	Status           types.KCIStatus `json:"status"`
}

// UnmarshalJSON accepts control_id as an alias of unified_control_id
func (k *KCI) UnmarshalJSON(data []byte) error {
	type plain KCI
	var aux struct {
		plain
		ControlID string `json:"control_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*k = KCI(aux.plain)
	if k.UnifiedControlID == "" {
		k.UnifiedControlID = aux.ControlID
	}
	return nil
}
